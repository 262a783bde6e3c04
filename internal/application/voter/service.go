package voter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/student-election-api/internal/domain"
)

const (
	ActionBlock   = "BLOCK"
	ActionUnblock = "UNBLOCK"
)

type Service interface {
	List(ctx context.Context) ([]domain.Voter, error)
	SetStatus(ctx context.Context, actor domain.Actor, registrationNumber, action string) error
}

type voterStore interface {
	ScanAll(ctx context.Context) ([]domain.Voter, error)
	Block(ctx context.Context, registrationNumber string) error
	Unblock(ctx context.Context, registrationNumber string) error
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type service struct {
	repo  voterStore
	audit auditLogger
}

type ServiceDeps struct {
	VoterRepo voterStore
	Audit     auditLogger
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.VoterRepo, audit: deps.Audit}
}

func (s *service) List(ctx context.Context) ([]domain.Voter, error) {
	voters, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(voters, func(i, j int) bool { return voters[i].RegistrationNumber < voters[j].RegistrationNumber })
	return voters, nil
}

// SetStatus blocks or unblocks a voter. Voters who have voted cannot be blocked.
func (s *service) SetStatus(ctx context.Context, actor domain.Actor, registrationNumber, action string) error {
	registrationNumber = strings.TrimSpace(registrationNumber)
	switch action {
	case ActionBlock:
		if err := s.repo.Block(ctx, registrationNumber); err != nil {
			return err
		}
		s.audit.Log(actor, domain.ActionVoterBlocked, registrationNumber)
	case ActionUnblock:
		if err := s.repo.Unblock(ctx, registrationNumber); err != nil {
			return err
		}
		s.audit.Log(actor, domain.ActionVoterUnblocked, registrationNumber)
	default:
		return fmt.Errorf("unknown voter action %q: %w", action, domain.ErrBadRequest)
	}
	return nil
}
