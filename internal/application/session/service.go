package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/student-election-api/internal/config"
	"github.com/student-election-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type LoginResult struct {
	Bearer  string
	Session *domain.Session
}

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
}

type operatorStore interface {
	Get(ctx context.Context, email string) (*domain.Operator, error)
	Create(ctx context.Context, o *domain.Operator) error
	TouchLogin(ctx context.Context, email string, at time.Time) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type jwtSigner interface {
	Sign(email, role, sessionID string) (string, error)
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type service struct {
	operatorRepo operatorStore
	sessionRepo  sessionStore
	jwtProvider  jwtSigner
	audit        auditLogger
	accounts     map[string]config.OperatorAccount
}

type ServiceDeps struct {
	OperatorRepo operatorStore
	SessionRepo  sessionStore
	JWTProvider  jwtSigner
	Audit        auditLogger
	Accounts     []config.OperatorAccount
}

func NewService(deps ServiceDeps) Service {
	accounts := make(map[string]config.OperatorAccount, len(deps.Accounts))
	for _, a := range deps.Accounts {
		accounts[strings.ToLower(a.Email)] = a
	}
	return &service{
		operatorRepo: deps.OperatorRepo,
		sessionRepo:  deps.SessionRepo,
		jwtProvider:  deps.JWTProvider,
		audit:        deps.Audit,
		accounts:     accounts,
	}
}

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

// Login checks the password against the provisioned bcrypt hash. The
// operator record is created the first time a provisioned account logs in.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	op, err := s.resolveOperator(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:     uuid.NewString(),
		OperatorEmail: op.Email,
		Role:          op.Role,
		Enable:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(op.Email, op.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.operatorRepo.TouchLogin(ctx, op.Email, now); err != nil {
		slog.Warn("failed to record operator login", "email", op.Email, "err", err)
	}
	op.LastLoginAt = &now
	s.audit.Log(domain.Actor{Type: op.Role, ID: op.Email}, domain.ActionOperatorLogin, "session "+sess.SessionID)

	sess.Operator = op
	return &LoginResult{Bearer: bearer, Session: sess}, nil
}

// resolveOperator prefers the provisioned account's role and hash over the
// stored copy so rotating the configured hash takes effect immediately.
func (s *service) resolveOperator(ctx context.Context, email string) (*domain.Operator, error) {
	acct, provisioned := s.accounts[email]
	op, err := s.operatorRepo.Get(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound) && provisioned:
		op = &domain.Operator{
			Email:        email,
			Role:         acct.Role,
			PasswordHash: acct.PasswordHash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.operatorRepo.Create(ctx, op); err != nil && !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotFound):
		return nil, errInvalidCredentials
	default:
		return nil, err
	}
	if provisioned {
		op.Role = acct.Role
		op.PasswordHash = acct.PasswordHash
	}
	if op.Role != domain.RoleAdmin && op.Role != domain.RoleOfficer {
		return nil, errInvalidCredentials
	}
	return op, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Disable(ctx, sessionID)
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	op, err := s.operatorRepo.Get(ctx, sess.OperatorEmail)
	if err != nil {
		return nil, err
	}
	sess.Operator = op
	return sess, nil
}
