// Package audit records state-changing actions without ever blocking or
// failing the operation that produced them.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/pkg/id"
)

const writeTimeout = 5 * time.Second

type entryStore interface {
	Put(ctx context.Context, e *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// Stats reports sink throughput since start.
type Stats struct {
	Written uint64 `json:"written"`
	Dropped uint64 `json:"dropped"`
	Failed  uint64 `json:"failed"`
	Queued  int    `json:"queued"`
}

// Sink is a bounded queue drained by a single writer goroutine.
type Sink struct {
	store entryStore
	queue chan *domain.AuditEntry
	done  chan struct{}
	now   func() time.Time

	mu     sync.RWMutex
	closed bool

	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewSink starts the writer. size is the maximum number of pending entries.
func NewSink(store entryStore, size int) *Sink {
	if size < 1 {
		size = 1
	}
	s := &Sink{
		store: store,
		queue: make(chan *domain.AuditEntry, size),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	go s.run()
	return s
}

// Log enqueues an entry. A full queue or a closed sink drops it.
func (s *Sink) Log(actor domain.Actor, action, details string) {
	ts := s.now().UTC()
	e := &domain.AuditEntry{
		EntryID:   id.NewAt(ts),
		ActorType: actor.Type,
		ActorID:   actor.ID,
		Action:    action,
		Details:   details,
		Timestamp: ts,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		slog.Warn("audit sink closed, entry dropped", "action", action, "actor_id", actor.ID)
		return
	}
	select {
	case s.queue <- e:
	default:
		s.dropped.Add(1)
		slog.Warn("audit queue full, entry dropped", "action", action, "actor_id", actor.ID)
	}
}

func (s *Sink) run() {
	defer close(s.done)
	for e := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := s.store.Put(ctx, e)
		cancel()
		if err != nil {
			s.failed.Add(1)
			slog.Warn("audit write failed", "entry_id", e.EntryID, "action", e.Action, "err", err)
			continue
		}
		s.written.Add(1)
	}
}

func (s *Sink) Stats() Stats {
	return Stats{
		Written: s.written.Load(),
		Dropped: s.dropped.Load(),
		Failed:  s.failed.Load(),
		Queued:  len(s.queue),
	}
}

// List returns the most recent stored entries, newest first.
func (s *Sink) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.store.ListRecent(ctx, limit)
}

// Close stops accepting entries and waits for the queue to drain or ctx to end.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
