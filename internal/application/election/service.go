package election

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName             = "name"
	fieldSeats            = "seats"
	fieldOpensAt          = "opens_at"
	fieldClosesAt         = "closes_at"
	fieldSemester         = "semester"
	fieldEligibilityRules = "eligibility_rules"
	fieldStatus           = "status"
	fieldPhotoKey         = "photo_key"
	fieldPhotoURL         = "photo_url"
)

// reopenWindow is how long an OPEN action keeps a position accepting ballots.
const reopenWindow = 7 * 24 * time.Hour

type Service interface {
	GetPositions(ctx context.Context) ([]domain.Position, error)
	CreatePosition(ctx context.Context, actor domain.Actor, req domain.CreatePositionRequest) (*domain.Position, error)
	UpdatePositionStatus(ctx context.Context, actor domain.Actor, positionID, action string) (*domain.Position, error)
	UpdatePositionDetails(ctx context.Context, actor domain.Actor, positionID string, req domain.UpdatePositionRequest) (*domain.Position, error)
	GetCandidates(ctx context.Context, positionID *string) ([]domain.Candidate, error)
	CreateCandidate(ctx context.Context, actor domain.Actor, req domain.CreateCandidateRequest) (*domain.Candidate, error)
	UpdateCandidateStatus(ctx context.Context, actor domain.Actor, candidateID string, status domain.CandidateStatus) (*domain.Candidate, error)
	UploadCandidatePhoto(ctx context.Context, actor domain.Actor, candidateID string, r io.Reader, filename, contentType string) (*domain.Candidate, error)
}

type positionStore interface {
	Put(ctx context.Context, p *domain.Position) error
	Get(ctx context.Context, positionID string) (*domain.Position, error)
	ScanAll(ctx context.Context) ([]domain.Position, error)
	Update(ctx context.Context, positionID string, updates map[string]interface{}) error
}

type candidateStore interface {
	Put(ctx context.Context, c *domain.Candidate) error
	Get(ctx context.Context, candidateID string) (*domain.Candidate, error)
	ScanAll(ctx context.Context) ([]domain.Candidate, error)
	ListByPosition(ctx context.Context, positionID string) ([]domain.Candidate, error)
	Update(ctx context.Context, candidateID string, updates map[string]interface{}) error
}

type photoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type service struct {
	positions       positionStore
	candidates      candidateStore
	photos          photoStore
	audit           auditLogger
	defaultSemester string
	now             func() time.Time
}

type ServiceDeps struct {
	PositionRepo    positionStore
	CandidateRepo   candidateStore
	PhotoStore      photoStore
	Audit           auditLogger
	DefaultSemester string
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	semester := deps.DefaultSemester
	if semester == "" {
		semester = domain.SemesterAdvent
	}
	return &service{
		positions:       deps.PositionRepo,
		candidates:      deps.CandidateRepo,
		photos:          deps.PhotoStore,
		audit:           deps.Audit,
		defaultSemester: semester,
		now:             now,
	}
}

// GetPositions returns every position ordered by opening time. Records
// written before semester existed are reported with the default semester.
func (s *service) GetPositions(ctx context.Context) ([]domain.Position, error) {
	positions, err := s.positions.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		s.backfill(&positions[i])
	}
	sort.Slice(positions, func(i, j int) bool {
		if !positions[i].OpensAt.Equal(positions[j].OpensAt) {
			return positions[i].OpensAt.Before(positions[j].OpensAt)
		}
		return positions[i].Name < positions[j].Name
	})
	return positions, nil
}

func (s *service) backfill(p *domain.Position) {
	if p.Semester == "" {
		p.Semester = s.defaultSemester
	}
}

func (s *service) CreatePosition(ctx context.Context, actor domain.Actor, req domain.CreatePositionRequest) (*domain.Position, error) {
	p := &domain.Position{
		PositionID:       id.New(),
		Name:             strings.TrimSpace(req.Name),
		Seats:            req.Seats,
		OpensAt:          req.OpensAt.UTC(),
		ClosesAt:         req.ClosesAt.UTC(),
		Semester:         req.Semester,
		EligibilityRules: req.EligibilityRules,
		CreatedAt:        s.now().UTC(),
	}
	s.backfill(p)
	if err := s.positions.Put(ctx, p); err != nil {
		return nil, err
	}
	s.audit.Log(actor, domain.ActionPositionCreated, fmt.Sprintf("%s (%s)", p.Name, p.PositionID))
	return p, nil
}

func (s *service) UpdatePositionStatus(ctx context.Context, actor domain.Actor, positionID, action string) (*domain.Position, error) {
	p, err := s.positions.Get(ctx, positionID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var updates map[string]interface{}
	var audited string
	switch action {
	case domain.PositionActionClose:
		p.ClosesAt = now.Add(-time.Second)
		updates = map[string]interface{}{fieldClosesAt: p.ClosesAt}
		audited = domain.ActionPositionClosed
	case domain.PositionActionOpen:
		p.OpensAt = now
		p.ClosesAt = now.Add(reopenWindow)
		updates = map[string]interface{}{fieldOpensAt: p.OpensAt, fieldClosesAt: p.ClosesAt}
		audited = domain.ActionPositionOpened
	default:
		return nil, fmt.Errorf("unknown position action %q: %w", action, domain.ErrBadRequest)
	}
	if err := s.positions.Update(ctx, positionID, updates); err != nil {
		return nil, err
	}
	s.audit.Log(actor, audited, p.Name)
	s.backfill(p)
	return p, nil
}

// UpdatePositionDetails writes only the supplied fields. A request with no
// fields performs no write and returns the stored position.
func (s *service) UpdatePositionDetails(ctx context.Context, actor domain.Actor, positionID string, req domain.UpdatePositionRequest) (*domain.Position, error) {
	p, err := s.positions.Get(ctx, positionID)
	if err != nil {
		return nil, err
	}
	updates := positionUpdates(req)
	if len(updates) == 0 {
		s.backfill(p)
		return p, nil
	}
	applyPositionUpdate(p, req)
	if !p.ClosesAt.After(p.OpensAt) {
		return nil, fmt.Errorf("closes_at must be after opens_at: %w", domain.ErrBadRequest)
	}
	if err := s.positions.Update(ctx, positionID, updates); err != nil {
		return nil, err
	}
	s.audit.Log(actor, domain.ActionPositionUpdated, fmt.Sprintf("%s: %s", p.Name, strings.Join(sortedKeys(updates), ",")))
	s.backfill(p)
	return p, nil
}

// positionUpdates maps the non-nil request fields to attribute updates.
func positionUpdates(req domain.UpdatePositionRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Seats != nil {
		updates[fieldSeats] = *req.Seats
	}
	if req.OpensAt != nil {
		updates[fieldOpensAt] = req.OpensAt.UTC()
	}
	if req.ClosesAt != nil {
		updates[fieldClosesAt] = req.ClosesAt.UTC()
	}
	if req.Semester != nil {
		updates[fieldSemester] = *req.Semester
	}
	if req.EligibilityRules != nil {
		updates[fieldEligibilityRules] = *req.EligibilityRules
	}
	return updates
}

func applyPositionUpdate(p *domain.Position, req domain.UpdatePositionRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Seats != nil {
		p.Seats = *req.Seats
	}
	if req.OpensAt != nil {
		p.OpensAt = req.OpensAt.UTC()
	}
	if req.ClosesAt != nil {
		p.ClosesAt = req.ClosesAt.UTC()
	}
	if req.Semester != nil {
		p.Semester = *req.Semester
	}
	if req.EligibilityRules != nil {
		p.EligibilityRules = *req.EligibilityRules
	}
}

func (s *service) GetCandidates(ctx context.Context, positionID *string) ([]domain.Candidate, error) {
	var (
		candidates []domain.Candidate
		err        error
	)
	if positionID != nil && *positionID != "" {
		candidates, err = s.candidates.ListByPosition(ctx, *positionID)
	} else {
		candidates, err = s.candidates.ScanAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].PositionID != candidates[j].PositionID {
			return candidates[i].PositionID < candidates[j].PositionID
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates, nil
}

func (s *service) CreateCandidate(ctx context.Context, actor domain.Actor, req domain.CreateCandidateRequest) (*domain.Candidate, error) {
	p, err := s.positions.Get(ctx, req.PositionID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	c := &domain.Candidate{
		CandidateID: id.New(),
		PositionID:  p.PositionID,
		Name:        strings.TrimSpace(req.Name),
		Manifesto:   req.Manifesto,
		Status:      domain.CandidateSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.candidates.Put(ctx, c); err != nil {
		return nil, err
	}
	s.audit.Log(actor, domain.ActionCandidateCreated, fmt.Sprintf("%s for %s", c.Name, p.Name))
	return c, nil
}

func (s *service) UpdateCandidateStatus(ctx context.Context, actor domain.Actor, candidateID string, status domain.CandidateStatus) (*domain.Candidate, error) {
	switch status {
	case domain.CandidateSubmitted, domain.CandidateApproved, domain.CandidateRejected:
	default:
		return nil, fmt.Errorf("unknown candidate status %q: %w", status, domain.ErrBadRequest)
	}
	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, candidateID, map[string]interface{}{fieldStatus: status}); err != nil {
		return nil, err
	}
	s.audit.Log(actor, domain.ActionCandidateStatusChange, fmt.Sprintf("%s: %s -> %s", c.Name, c.Status, status))
	c.Status = status
	c.UpdatedAt = s.now().UTC()
	return c, nil
}

func (s *service) UploadCandidatePhoto(ctx context.Context, actor domain.Actor, candidateID string, r io.Reader, filename, contentType string) (*domain.Candidate, error) {
	c, err := s.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	key := photoKey(candidateID, filename)
	url, err := s.photos.Upload(ctx, key, r, contentType)
	if err != nil {
		return nil, err
	}
	if err := s.candidates.Update(ctx, candidateID, map[string]interface{}{
		fieldPhotoKey: key,
		fieldPhotoURL: url,
	}); err != nil {
		return nil, err
	}
	if c.PhotoKey != "" && c.PhotoKey != key {
		if err := s.photos.Delete(ctx, c.PhotoKey); err != nil {
			slog.Warn("stale candidate photo not removed", "candidate_id", candidateID, "key", c.PhotoKey, "err", err)
		}
	}
	s.audit.Log(actor, domain.ActionCandidatePhoto, c.Name)
	c.PhotoKey = key
	c.PhotoURL = &url
	c.UpdatedAt = s.now().UTC()
	return c, nil
}

// photoKey is candidates/<id>/<name> with the file name reduced to [A-Za-z0-9._-].
func photoKey(candidateID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		clean = "photo"
	}
	return "candidates/" + candidateID + "/" + clean
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
