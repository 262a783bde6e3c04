package verification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/student-election-api/internal/domain"
)

// memStore is an in-memory voters+otps store whose ledger applies the same
// preconditions as the DynamoDB transaction.
type memStore struct {
	mu     sync.Mutex
	voters map[string]domain.Voter
	otps   map[string]domain.OTPRecord
	writes int
}

func newMemStore(voters ...domain.Voter) *memStore {
	m := &memStore{voters: map[string]domain.Voter{}, otps: map[string]domain.OTPRecord{}}
	for _, v := range voters {
		m.voters[v.RegistrationNumber] = v
	}
	return m
}

func (m *memStore) Get(_ context.Context, registrationNumber string) (*domain.Voter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voters[registrationNumber]
	if !ok {
		return nil, fmt.Errorf("voter not found: %w", domain.ErrNotFound)
	}
	return &v, nil
}

func (m *memStore) voter(registrationNumber string) domain.Voter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voters[registrationNumber]
}

func (m *memStore) otp(key string) (domain.OTPRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.otps[key]
	return rec, ok
}

// otpRepo adapts memStore to otpStore; Get collides with the voter lookup.
type otpRepo struct{ m *memStore }

func (r otpRepo) Put(_ context.Context, rec *domain.OTPRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.otps[rec.Key] = *rec
	r.m.writes++
	return nil
}

func (r otpRepo) Get(_ context.Context, key string) (*domain.OTPRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rec, ok := r.m.otps[key]
	if !ok {
		return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (r otpRepo) Delete(_ context.Context, key string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.otps, key)
	r.m.writes++
	return nil
}

func (m *memStore) CompleteVerification(_ context.Context, registrationNumber string, expected domain.VoterStatus, token, otpKey, pin string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voters[registrationNumber]
	if !ok || v.Status != expected {
		return fmt.Errorf("voter changed during verification: %w", domain.ErrConflict)
	}
	rec, ok := m.otps[otpKey]
	if !ok || rec.PIN != pin {
		return fmt.Errorf("pin already consumed: %w", domain.ErrNotFound)
	}
	v.Status = domain.VoterVerified
	v.Token = token
	v.VerifiedAt = &at
	v.UpdatedAt = at
	m.voters[registrationNumber] = v
	delete(m.otps, otpKey)
	m.writes++
	return nil
}

type nopAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *nopAudit) Log(_ domain.Actor, action, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}
