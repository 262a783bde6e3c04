// Package ballot casts a verified voter's single ballot.
package ballot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/student-election-api/internal/domain"
)

type Service interface {
	Cast(ctx context.Context, token string, req domain.CastBallotRequest) (*domain.BallotReceipt, error)
}

type voterStore interface {
	Get(ctx context.Context, registrationNumber string) (*domain.Voter, error)
	GetByToken(ctx context.Context, token string) (*domain.Voter, error)
}

type positionStore interface {
	Get(ctx context.Context, positionID string) (*domain.Position, error)
}

type candidateStore interface {
	Get(ctx context.Context, candidateID string) (*domain.Candidate, error)
}

type ballotLedger interface {
	CommitBallot(ctx context.Context, registrationNumber, token string, votes []domain.Vote, at time.Time) error
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type service struct {
	voters     voterStore
	positions  positionStore
	candidates candidateStore
	ledger     ballotLedger
	audit      auditLogger
	now        func() time.Time
}

type ServiceDeps struct {
	VoterRepo     voterStore
	PositionRepo  positionStore
	CandidateRepo candidateStore
	Ledger        ballotLedger
	Audit         auditLogger
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		voters:     deps.VoterRepo,
		positions:  deps.PositionRepo,
		candidates: deps.CandidateRepo,
		ledger:     deps.Ledger,
		audit:      deps.Audit,
		now:        now,
	}
}

func (s *service) Cast(ctx context.Context, token string, req domain.CastBallotRequest) (*domain.BallotReceipt, error) {
	if token == "" {
		return nil, fmt.Errorf("voter token required: %w", domain.ErrUnauthorized)
	}
	if len(req.Selections) == 0 {
		return nil, fmt.Errorf("ballot has no selections: %w", domain.ErrBadRequest)
	}

	v, err := s.resolveVoter(ctx, token, strings.TrimSpace(req.RegistrationNumber))
	if err != nil {
		return nil, err
	}
	switch v.Status {
	case domain.VoterVerified:
	case domain.VoterVoted:
		return nil, fmt.Errorf("voter has already voted: %w", domain.ErrAlreadyVoted)
	case domain.VoterBlocked:
		return nil, fmt.Errorf("voter is blocked: %w", domain.ErrBlocked)
	default:
		return nil, fmt.Errorf("voter is not verified: %w", domain.ErrUnauthorized)
	}

	now := s.now().UTC()
	positionIDs := make([]string, 0, len(req.Selections))
	for pid := range req.Selections {
		positionIDs = append(positionIDs, pid)
	}
	sort.Strings(positionIDs)

	votes := make([]domain.Vote, 0, len(positionIDs))
	for _, pid := range positionIDs {
		if err := s.checkSelection(ctx, pid, req.Selections[pid], now); err != nil {
			return nil, err
		}
		votes = append(votes, domain.Vote{
			VoteID:      uuid.NewString(),
			PositionID:  pid,
			CandidateID: req.Selections[pid],
			CastAt:      now,
		})
	}

	if err := s.ledger.CommitBallot(ctx, v.RegistrationNumber, token, votes, now); err != nil {
		return nil, err
	}
	s.audit.Log(domain.Actor{Type: domain.ActorVoter, ID: v.RegistrationNumber}, domain.ActionBallotCast,
		fmt.Sprintf("%d positions", len(votes)))

	return &domain.BallotReceipt{ReceiptID: uuid.NewString(), Positions: positionIDs, CastAt: now}, nil
}

var errInvalidToken = fmt.Errorf("invalid voter token: %w", domain.ErrUnauthorized)

// resolveVoter reads the voter by registration number when one is given. The
// token-index GSI lags a fresh verification, the primary table does not.
func (s *service) resolveVoter(ctx context.Context, token, registrationNumber string) (*domain.Voter, error) {
	var (
		v   *domain.Voter
		err error
	)
	if registrationNumber != "" {
		v, err = s.voters.Get(ctx, registrationNumber)
	} else {
		v, err = s.voters.GetByToken(ctx, token)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(v.Token), []byte(token)) != 1 {
		return nil, errInvalidToken
	}
	return v, nil
}

func (s *service) checkSelection(ctx context.Context, positionID, candidateID string, now time.Time) error {
	p, err := s.positions.Get(ctx, positionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown position %s: %w", positionID, domain.ErrBadRequest)
		}
		return err
	}
	if !p.OpenAt(now) {
		return fmt.Errorf("position %s is not open: %w", p.Name, domain.ErrBadRequest)
	}
	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown candidate %s: %w", candidateID, domain.ErrBadRequest)
		}
		return err
	}
	if c.PositionID != positionID || c.Status != domain.CandidateApproved {
		return fmt.Errorf("candidate %s is not standing for %s: %w", c.Name, p.Name, domain.ErrBadRequest)
	}
	return nil
}
