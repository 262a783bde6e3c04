package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/student-election-api/internal/application/verification"
	"github.com/student-election-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) RequestOTP(ctx context.Context, regNo string) (*verification.OTPIssued, error) {
	args := m.Called(ctx, regNo)
	if v, _ := args.Get(0).(*verification.OTPIssued); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerificationSvc) VerifyOTP(ctx context.Context, regNo, pin string) (*verification.Verified, error) {
	args := m.Called(ctx, regNo, pin)
	if v, _ := args.Get(0).(*verification.Verified); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRequestOTP_InvalidBody(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	rr := httptest.NewRecorder()
	h.RequestOTP(rr, httptest.NewRequest(http.MethodPost, "/v1/voters/otp/request", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestOTP_MissingRegistrationNumber(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	rr := httptest.NewRecorder()
	h.RequestOTP(rr, jsonReq(t, http.MethodPost, "/v1/voters/otp/request", map[string]string{}))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, CodeValidation, decodeEnvelope(t, rr, nil).Code)
}

func TestRequestOTP_HappyPath(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("RequestOTP", mock.Anything, "S23B12/002").
		Return(&verification.OTPIssued{RegistrationNumber: "S23B12/002", PIN: "123456"}, nil)
	h := NewVerificationHandler(svc)

	rr := httptest.NewRecorder()
	h.RequestOTP(rr, jsonReq(t, http.MethodPost, "/v1/voters/otp/request",
		domain.RequestOTPInput{RegistrationNumber: "S23B12/002"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	var issued verification.OTPIssued
	env := decodeEnvelope(t, rr, &issued)
	assert.True(t, env.Success)
	assert.Equal(t, "123456", issued.PIN)
	svc.AssertExpectations(t)
}

func TestRequestOTP_ErrorCodes(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"unknown": {fmt.Errorf("voter: %w", domain.ErrNotFound), http.StatusNotFound, CodeNotFound},
		"blocked": {domain.ErrBlocked, http.StatusForbidden, CodeBlocked},
		"voted":   {domain.ErrAlreadyVoted, http.StatusConflict, CodeAlreadyVoted},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			svc.On("RequestOTP", mock.Anything, "S23B12/099").Return(nil, tc.err)
			h := NewVerificationHandler(svc)

			rr := httptest.NewRecorder()
			h.RequestOTP(rr, jsonReq(t, http.MethodPost, "/v1/voters/otp/request",
				domain.RequestOTPInput{RegistrationNumber: "S23B12/099"}))

			assert.Equal(t, tc.status, rr.Code)
			env := decodeEnvelope(t, rr, nil)
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Code)
		})
	}
}

func TestVerifyOTP_Mismatch(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyOTP", mock.Anything, "S23B12/002", "000000").Return(nil, domain.ErrMismatch)
	h := NewVerificationHandler(svc)

	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, jsonReq(t, http.MethodPost, "/v1/voters/otp/verify",
		domain.VerifyOTPInput{RegistrationNumber: "S23B12/002", PIN: "000000"}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, CodeMismatch, decodeEnvelope(t, rr, nil).Code)
}

func TestVerifyOTP_HappyPath(t *testing.T) {
	svc := &mockVerificationSvc{}
	voter := &domain.Voter{RegistrationNumber: "S23B12/002", Status: domain.VoterVerified, Token: "secret"}
	svc.On("VerifyOTP", mock.Anything, "S23B12/002", "123456").
		Return(&verification.Verified{Token: "tok", Voter: voter}, nil)
	h := NewVerificationHandler(svc)

	rr := httptest.NewRecorder()
	h.VerifyOTP(rr, jsonReq(t, http.MethodPost, "/v1/voters/otp/verify",
		domain.VerifyOTPInput{RegistrationNumber: "S23B12/002", PIN: "123456"}))

	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Token string         `json:"token"`
		Voter map[string]any `json:"voter"`
	}
	decodeEnvelope(t, rr, &got)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "VERIFIED", got.Voter["status"])
	assert.NotContains(t, got.Voter, "token")
	svc.AssertExpectations(t)
}
