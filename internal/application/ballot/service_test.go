package ballot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockVoterStore struct{ mock.Mock }

func (m *mockVoterStore) GetByToken(ctx context.Context, token string) (*domain.Voter, error) {
	args := m.Called(ctx, token)
	if v, _ := args.Get(0).(*domain.Voter); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVoterStore) Get(ctx context.Context, registrationNumber string) (*domain.Voter, error) {
	args := m.Called(ctx, registrationNumber)
	if v, _ := args.Get(0).(*domain.Voter); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPositionStore struct{ mock.Mock }

func (m *mockPositionStore) Get(ctx context.Context, positionID string) (*domain.Position, error) {
	args := m.Called(ctx, positionID)
	if p, _ := args.Get(0).(*domain.Position); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCandidateStore struct{ mock.Mock }

func (m *mockCandidateStore) Get(ctx context.Context, candidateID string) (*domain.Candidate, error) {
	args := m.Called(ctx, candidateID)
	if c, _ := args.Get(0).(*domain.Candidate); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) CommitBallot(ctx context.Context, registrationNumber, token string, votes []domain.Vote, at time.Time) error {
	return m.Called(ctx, registrationNumber, token, votes, at).Error(0)
}

type recordingAudit struct{ actions []string }

func (a *recordingAudit) Log(_ domain.Actor, action, _ string) { a.actions = append(a.actions, action) }

// --- helpers ---

var now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type mocks struct {
	voters     *mockVoterStore
	positions  *mockPositionStore
	candidates *mockCandidateStore
	ledger     *mockLedger
	audit      *recordingAudit
}

func newSvc() (Service, *mocks) {
	m := &mocks{&mockVoterStore{}, &mockPositionStore{}, &mockCandidateStore{}, &mockLedger{}, &recordingAudit{}}
	return NewService(ServiceDeps{
		VoterRepo:     m.voters,
		PositionRepo:  m.positions,
		CandidateRepo: m.candidates,
		Ledger:        m.ledger,
		Audit:         m.audit,
		Now:           func() time.Time { return now },
	}), m
}

func verifiedVoter() *domain.Voter {
	return &domain.Voter{RegistrationNumber: "S23B12/002", Status: domain.VoterVerified, Token: "tok"}
}

func openPosition(id string) *domain.Position {
	return &domain.Position{PositionID: id, Name: id, Seats: 1, OpensAt: now.Add(-time.Hour), ClosesAt: now.Add(time.Hour)}
}

func approved(id, positionID string) *domain.Candidate {
	return &domain.Candidate{CandidateID: id, PositionID: positionID, Name: id, Status: domain.CandidateApproved}
}

func ballotReq() domain.CastBallotRequest {
	return domain.CastBallotRequest{Selections: map[string]string{"pres": "c1", "sec": "c3"}}
}

// --- tests ---

func TestCast_Success(t *testing.T) {
	svc, m := newSvc()
	m.voters.On("GetByToken", mock.Anything, "tok").Return(verifiedVoter(), nil)
	m.positions.On("Get", mock.Anything, "pres").Return(openPosition("pres"), nil)
	m.positions.On("Get", mock.Anything, "sec").Return(openPosition("sec"), nil)
	m.candidates.On("Get", mock.Anything, "c1").Return(approved("c1", "pres"), nil)
	m.candidates.On("Get", mock.Anything, "c3").Return(approved("c3", "sec"), nil)
	m.ledger.On("CommitBallot", mock.Anything, "S23B12/002", "tok",
		mock.MatchedBy(func(v []domain.Vote) bool {
			return len(v) == 2 && v[0].PositionID == "pres" && v[0].CandidateID == "c1" && v[1].CandidateID == "c3"
		}), now).Return(nil)

	receipt, err := svc.Cast(context.Background(), "tok", ballotReq())

	require.NoError(t, err)
	assert.Equal(t, []string{"pres", "sec"}, receipt.Positions)
	assert.NotEmpty(t, receipt.ReceiptID)
	assert.Equal(t, []string{domain.ActionBallotCast}, m.audit.actions)
	m.ledger.AssertExpectations(t)
}

func TestCast_VoterStatus(t *testing.T) {
	cases := []struct {
		status domain.VoterStatus
		want   error
	}{
		{domain.VoterVoted, domain.ErrAlreadyVoted},
		{domain.VoterBlocked, domain.ErrBlocked},
		{domain.VoterEligible, domain.ErrUnauthorized},
	}
	for _, c := range cases {
		t.Run(string(c.status), func(t *testing.T) {
			svc, m := newSvc()
			v := verifiedVoter()
			v.Status = c.status
			m.voters.On("GetByToken", mock.Anything, "tok").Return(v, nil)

			_, err := svc.Cast(context.Background(), "tok", ballotReq())

			assert.True(t, errors.Is(err, c.want))
			m.ledger.AssertNotCalled(t, "CommitBallot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCast_UnknownToken(t *testing.T) {
	svc, m := newSvc()
	m.voters.On("GetByToken", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	_, err := svc.Cast(context.Background(), "nope", ballotReq())
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestCast_ByRegistrationNumberSkipsTokenIndex(t *testing.T) {
	svc, m := newSvc()
	m.voters.On("Get", mock.Anything, "S23B12/002").Return(verifiedVoter(), nil)
	m.positions.On("Get", mock.Anything, "pres").Return(openPosition("pres"), nil)
	m.candidates.On("Get", mock.Anything, "c1").Return(approved("c1", "pres"), nil)
	m.ledger.On("CommitBallot", mock.Anything, "S23B12/002", "tok", mock.Anything, now).Return(nil)

	req := domain.CastBallotRequest{RegistrationNumber: " S23B12/002 ", Selections: map[string]string{"pres": "c1"}}
	receipt, err := svc.Cast(context.Background(), "tok", req)

	require.NoError(t, err)
	assert.Equal(t, []string{"pres"}, receipt.Positions)
	m.voters.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
	m.ledger.AssertExpectations(t)
}

func TestCast_ByRegistrationNumberWrongToken(t *testing.T) {
	svc, m := newSvc()
	m.voters.On("Get", mock.Anything, "S23B12/002").Return(verifiedVoter(), nil)

	req := domain.CastBallotRequest{RegistrationNumber: "S23B12/002", Selections: map[string]string{"pres": "c1"}}
	_, err := svc.Cast(context.Background(), "someone-elses", req)

	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	m.ledger.AssertNotCalled(t, "CommitBallot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCast_EmptyBallot(t *testing.T) {
	svc, _ := newSvc()
	_, err := svc.Cast(context.Background(), "tok", domain.CastBallotRequest{})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCast_ClosedPosition(t *testing.T) {
	svc, m := newSvc()
	closed := openPosition("pres")
	closed.ClosesAt = now.Add(-time.Second)
	m.voters.On("GetByToken", mock.Anything, "tok").Return(verifiedVoter(), nil)
	m.positions.On("Get", mock.Anything, "pres").Return(closed, nil)

	_, err := svc.Cast(context.Background(), "tok", domain.CastBallotRequest{Selections: map[string]string{"pres": "c1"}})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCast_CandidateNotApprovedOrWrongPosition(t *testing.T) {
	for name, c := range map[string]*domain.Candidate{
		"submitted":      {CandidateID: "c1", PositionID: "pres", Status: domain.CandidateSubmitted},
		"other position": approved("c1", "sec"),
	} {
		t.Run(name, func(t *testing.T) {
			svc, m := newSvc()
			m.voters.On("GetByToken", mock.Anything, "tok").Return(verifiedVoter(), nil)
			m.positions.On("Get", mock.Anything, "pres").Return(openPosition("pres"), nil)
			m.candidates.On("Get", mock.Anything, "c1").Return(c, nil)

			_, err := svc.Cast(context.Background(), "tok", domain.CastBallotRequest{Selections: map[string]string{"pres": "c1"}})
			assert.True(t, errors.Is(err, domain.ErrBadRequest))
		})
	}
}

func TestCast_LostRaceIsAlreadyVoted(t *testing.T) {
	svc, m := newSvc()
	m.voters.On("GetByToken", mock.Anything, "tok").Return(verifiedVoter(), nil)
	m.positions.On("Get", mock.Anything, "pres").Return(openPosition("pres"), nil)
	m.candidates.On("Get", mock.Anything, "c1").Return(approved("c1", "pres"), nil)
	m.ledger.On("CommitBallot", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrAlreadyVoted)

	_, err := svc.Cast(context.Background(), "tok", domain.CastBallotRequest{Selections: map[string]string{"pres": "c1"}})
	assert.True(t, errors.Is(err, domain.ErrAlreadyVoted))
	assert.Empty(t, m.audit.actions)
}
