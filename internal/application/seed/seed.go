// Package seed loads the demo election into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/student-election-api/internal/domain"
	pkgtoken "github.com/student-election-api/internal/pkg/token"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Positions  []positionFixture  `yaml:"positions"`
	Candidates []domain.Candidate `yaml:"candidates"`
	Programs   []string           `yaml:"programs"`
	Voters     struct {
		Prefix      string `yaml:"prefix"`
		Count       int    `yaml:"count"`
		Voted       int    `yaml:"voted"`
		EmailDomain string `yaml:"email_domain"`
	} `yaml:"voters"`
}

type positionFixture struct {
	domain.Position `yaml:",inline"`
	OpenFor         time.Duration `yaml:"open_for"`
}

// Result reports what Seed wrote. Seeded is false when data already existed.
type Result struct {
	Seeded     bool `json:"seeded"`
	Positions  int  `json:"positions"`
	Candidates int  `json:"candidates"`
	Voters     int  `json:"voters"`
}

type positionChecker interface {
	IsEmpty(ctx context.Context) (bool, error)
}

type batchWriter interface {
	PutVoters(ctx context.Context, voters []domain.Voter) error
	PutCandidates(ctx context.Context, candidates []domain.Candidate) error
	PutPositions(ctx context.Context, positions []domain.Position) error
}

type auditLogger interface {
	Log(actor domain.Actor, action, details string)
}

type Seeder struct {
	positions positionChecker
	writer    batchWriter
	audit     auditLogger
	now       func() time.Time
}

type Deps struct {
	PositionRepo positionChecker
	Writer       batchWriter
	Audit        auditLogger
	Now          func() time.Time
}

func New(deps Deps) *Seeder {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Seeder{positions: deps.PositionRepo, writer: deps.Writer, audit: deps.Audit, now: now}
}

// Seed writes the demo data if no positions exist. Positions go last, so a
// run that fails part way leaves the table empty and is retried next start.
// Concurrent first runs may both write; the items are identical.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	empty, err := s.positions.IsEmpty(ctx)
	if err != nil {
		return nil, fmt.Errorf("check positions: %w", err)
	}
	if !empty {
		slog.Info("seed skipped, positions already present")
		return &Result{}, nil
	}

	var fx fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	now := s.now().UTC()

	voters, err := buildVoters(fx, now)
	if err != nil {
		return nil, err
	}
	candidates := make([]domain.Candidate, len(fx.Candidates))
	for i, c := range fx.Candidates {
		c.CreatedAt, c.UpdatedAt = now, now
		candidates[i] = c
	}
	positions := make([]domain.Position, len(fx.Positions))
	for i, pf := range fx.Positions {
		p := pf.Position
		p.OpensAt = now
		p.ClosesAt = now.Add(pf.OpenFor)
		p.CreatedAt = now
		positions[i] = p
	}

	if err := s.writer.PutVoters(ctx, voters); err != nil {
		return nil, fmt.Errorf("seed voters: %w", err)
	}
	if err := s.writer.PutCandidates(ctx, candidates); err != nil {
		return nil, fmt.Errorf("seed candidates: %w", err)
	}
	if err := s.writer.PutPositions(ctx, positions); err != nil {
		return nil, fmt.Errorf("seed positions: %w", err)
	}

	res := &Result{Seeded: true, Positions: len(positions), Candidates: len(candidates), Voters: len(voters)}
	s.audit.Log(domain.SystemActor, domain.ActionSeeded,
		fmt.Sprintf("%d positions, %d candidates, %d voters", res.Positions, res.Candidates, res.Voters))
	slog.Info("seeded demo election", "positions", res.Positions, "candidates", res.Candidates, "voters", res.Voters)
	return res, nil
}

// buildVoters generates <prefix>/001... The last fx.Voters.Voted voters are
// marked VOTED so the low numbers stay usable for verification demos.
func buildVoters(fx fixtures, now time.Time) ([]domain.Voter, error) {
	n := fx.Voters.Count
	voters := make([]domain.Voter, 0, n)
	for i := 1; i <= n; i++ {
		v := domain.Voter{
			RegistrationNumber: fmt.Sprintf("%s/%03d", fx.Voters.Prefix, i),
			Name:               fmt.Sprintf("Student %03d", i),
			Email:              fmt.Sprintf("%s.%03d@%s", strings.ToLower(fx.Voters.Prefix), i, fx.Voters.EmailDomain),
			Status:             domain.VoterEligible,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if len(fx.Programs) > 0 {
			v.Program = fx.Programs[(i-1)%len(fx.Programs)]
		}
		if i > n-fx.Voters.Voted {
			tok, err := pkgtoken.NewVoterToken()
			if err != nil {
				return nil, err
			}
			v.Status = domain.VoterVoted
			v.Token = tok
			v.VerifiedAt = &now
			v.VotedAt = &now
		}
		voters = append(voters, v)
	}
	return voters, nil
}
