// Package verification implements the voter PIN handshake: a PIN is issued
// for an eligible voter and exchanged exactly once for a ballot token.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/pkg/regno"
	pkgtoken "github.com/student-election-api/internal/pkg/token"
)

type Service interface {
	RequestOTP(ctx context.Context, registrationNumber string) (*OTPIssued, error)
	VerifyOTP(ctx context.Context, registrationNumber, pin string) (*Verified, error)
}

// OTPIssued is returned by RequestOTP. PIN is set only when the service is
// configured to echo it back to the caller.
type OTPIssued struct {
	RegistrationNumber string     `json:"registration_number"`
	PIN                string     `json:"pin,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
}

type Verified struct {
	Token string        `json:"token"`
	Voter *domain.Voter `json:"voter"`
}

type voterStore interface {
	Get(ctx context.Context, registrationNumber string) (*domain.Voter, error)
}

type otpStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, key string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, key string) error
}

type verificationLedger interface {
	CompleteVerification(ctx context.Context, registrationNumber string, expected domain.VoterStatus, token, otpKey, pin string, at time.Time) error
}

type pinNotifier interface {
	NotifyPIN(ctx context.Context, v *domain.Voter, pin string, expiresAt *time.Time) error
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type service struct {
	voters    voterStore
	otps      otpStore
	ledger    verificationLedger
	notifier  pinNotifier
	audit     auditLogger
	ttl       time.Duration
	returnPIN bool
	now       func() time.Time
	newPIN    func() (string, error)
	newToken  func() (string, error)
}

type ServiceDeps struct {
	VoterRepo voterStore
	OTPRepo   otpStore
	Ledger    verificationLedger
	Notifier  pinNotifier
	Audit     auditLogger
	OTPTTL    time.Duration
	ReturnPIN bool
	Now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		voters:    deps.VoterRepo,
		otps:      deps.OTPRepo,
		ledger:    deps.Ledger,
		notifier:  deps.Notifier,
		audit:     deps.Audit,
		ttl:       deps.OTPTTL,
		returnPIN: deps.ReturnPIN,
		now:       now,
		newPIN:    pkgtoken.NewPIN,
		newToken:  pkgtoken.NewVoterToken,
	}
}

func (s *service) RequestOTP(ctx context.Context, registrationNumber string) (*OTPIssued, error) {
	registrationNumber = strings.TrimSpace(registrationNumber)
	v, err := s.voters.Get(ctx, registrationNumber)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(v); err != nil {
		return nil, err
	}

	pin, err := s.newPIN()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	rec := &domain.OTPRecord{
		Key:                regno.Sanitize(registrationNumber),
		RegistrationNumber: registrationNumber,
		PIN:                pin,
		IssuedAt:           now,
	}
	var expiresAt *time.Time
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		expiresAt = &exp
		rec.ExpiresAt = exp.Unix()
	}
	if err := s.otps.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store pin: %w", err)
	}
	s.audit.Log(voterActor(registrationNumber), domain.ActionOTPRequested, "pin issued")

	if s.notifier != nil {
		if err := s.notifier.NotifyPIN(ctx, v, pin, expiresAt); err != nil {
			if !s.returnPIN {
				return nil, fmt.Errorf("deliver pin: %w", err)
			}
			slog.Warn("pin delivery failed", "registration_number", registrationNumber, "err", err)
		}
	}

	out := &OTPIssued{RegistrationNumber: registrationNumber, ExpiresAt: expiresAt}
	if s.returnPIN {
		out.PIN = pin
	}
	return out, nil
}

func (s *service) VerifyOTP(ctx context.Context, registrationNumber, pin string) (*Verified, error) {
	registrationNumber = strings.TrimSpace(registrationNumber)
	key := regno.Sanitize(registrationNumber)
	now := s.now().UTC()

	rec, err := s.otps.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNoPIN
		}
		return nil, err
	}
	if rec.Expired(now) {
		if err := s.otps.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete expired pin", "registration_number", registrationNumber, "err", err)
		}
		return nil, errNoPIN
	}
	if rec.PIN != pin {
		return nil, fmt.Errorf("incorrect pin: %w", domain.ErrMismatch)
	}

	v, err := s.voters.Get(ctx, registrationNumber)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(v); err != nil {
		return nil, err
	}

	tok, err := s.newToken()
	if err != nil {
		return nil, err
	}
	if err := s.ledger.CompleteVerification(ctx, registrationNumber, v.Status, tok, key, rec.PIN, now); err != nil {
		return nil, err
	}
	s.audit.Log(voterActor(registrationNumber), domain.ActionOTPVerified, "ballot token issued")

	v.Status = domain.VoterVerified
	v.Token = tok
	v.VerifiedAt = &now
	v.UpdatedAt = now
	return &Verified{Token: tok, Voter: v}, nil
}

// errNoPIN covers never requested, consumed and expired alike.
var errNoPIN = fmt.Errorf("no pending pin for this voter: %w", domain.ErrNotFound)

func checkStatus(v *domain.Voter) error {
	switch v.Status {
	case domain.VoterBlocked:
		return fmt.Errorf("voter is blocked: %w", domain.ErrBlocked)
	case domain.VoterVoted:
		return fmt.Errorf("voter has already voted: %w", domain.ErrAlreadyVoted)
	}
	return nil
}

func voterActor(registrationNumber string) domain.Actor {
	return domain.Actor{Type: domain.ActorVoter, ID: registrationNumber}
}
