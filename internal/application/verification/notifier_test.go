package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestNotifier_EmailAndSMS(t *testing.T) {
	ml, sms := &mockMailer{}, &mockSMS{}
	v := eligible("S23B12/011")
	v.Phone = strPtr("+447700900123")
	ml.On("SendEmail", v.Email, mock.Anything, mock.MatchedBy(func(b string) bool { return assert.Contains(t, b, "482913") })).Return(nil)
	sms.On("SendSMS", mock.Anything, "+447700900123", mock.Anything).Return(nil)

	err := NewNotifier(ml, sms).NotifyPIN(context.Background(), &v, "482913", nil)

	assert.NoError(t, err)
	ml.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestNotifier_OneChannelEnough(t *testing.T) {
	ml, sms := &mockMailer{}, &mockSMS{}
	v := eligible("S23B12/012")
	v.Phone = strPtr("+447700900124")
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	exp := time.Date(2026, 3, 1, 9, 10, 0, 0, time.UTC)
	assert.NoError(t, NewNotifier(ml, sms).NotifyPIN(context.Background(), &v, "111111", &exp))
}

func TestNotifier_AllChannelsFail(t *testing.T) {
	ml := &mockMailer{}
	v := eligible("S23B12/013")
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	assert.Error(t, NewNotifier(ml, nil).NotifyPIN(context.Background(), &v, "111111", nil))
}

func TestNotifier_NoChannel(t *testing.T) {
	v := domain.Voter{RegistrationNumber: "S23B12/014"}
	assert.Error(t, NewNotifier(nil, nil).NotifyPIN(context.Background(), &v, "111111", nil))
}
