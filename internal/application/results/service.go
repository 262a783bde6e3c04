// Package results tallies cast votes for officers.
package results

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/student-election-api/internal/domain"
)

type Service interface {
	Tally(ctx context.Context) (*Tally, error)
	WriteReport(ctx context.Context, w io.Writer) error
}

type Tally struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Positions   []PositionTally `json:"positions"`
	Turnout     Turnout         `json:"turnout"`
}

type PositionTally struct {
	PositionID string           `json:"position_id"`
	Name       string           `json:"name"`
	Seats      int              `json:"seats"`
	Open       bool             `json:"open"`
	TotalVotes int              `json:"total_votes"`
	Candidates []CandidateTally `json:"candidates"`
}

type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	// Leading marks the top Seats candidates by votes; ties at the cut-off all lead.
	Leading bool `json:"leading"`
}

type Turnout struct {
	Total    int     `json:"total"`
	Eligible int     `json:"eligible"`
	Verified int     `json:"verified"`
	Voted    int     `json:"voted"`
	Blocked  int     `json:"blocked"`
	Percent  float64 `json:"percent"`
}

type positionStore interface {
	ScanAll(ctx context.Context) ([]domain.Position, error)
}

type candidateStore interface {
	ScanAll(ctx context.Context) ([]domain.Candidate, error)
}

type voteCounter interface {
	CountByPosition(ctx context.Context, positionID string) (map[string]int, error)
}

type voterStore interface {
	ScanAll(ctx context.Context) ([]domain.Voter, error)
}

type service struct {
	positions  positionStore
	candidates candidateStore
	votes      voteCounter
	voters     voterStore
	now        func() time.Time
}

type ServiceDeps struct {
	PositionRepo  positionStore
	CandidateRepo candidateStore
	VoteRepo      voteCounter
	VoterRepo     voterStore
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		positions:  deps.PositionRepo,
		candidates: deps.CandidateRepo,
		votes:      deps.VoteRepo,
		voters:     deps.VoterRepo,
		now:        now,
	}
}

func (s *service) Tally(ctx context.Context) (*Tally, error) {
	positions, err := s.positions.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	voters, err := s.voters.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	byPosition := map[string][]domain.Candidate{}
	for _, c := range candidates {
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}

	now := s.now().UTC()
	out := &Tally{GeneratedAt: now, Positions: make([]PositionTally, 0, len(positions))}
	for _, p := range positions {
		counts, err := s.votes.CountByPosition(ctx, p.PositionID)
		if err != nil {
			return nil, err
		}
		out.Positions = append(out.Positions, tallyPosition(p, byPosition[p.PositionID], counts, now))
	}
	sort.Slice(out.Positions, func(i, j int) bool { return out.Positions[i].Name < out.Positions[j].Name })
	out.Turnout = turnout(voters)
	return out, nil
}

// tallyPosition lists approved candidates plus any candidate holding votes.
func tallyPosition(p domain.Position, candidates []domain.Candidate, counts map[string]int, now time.Time) PositionTally {
	pt := PositionTally{PositionID: p.PositionID, Name: p.Name, Seats: p.Seats, Open: p.OpenAt(now)}
	for _, c := range candidates {
		n := counts[c.CandidateID]
		if c.Status != domain.CandidateApproved && n == 0 {
			continue
		}
		pt.Candidates = append(pt.Candidates, CandidateTally{CandidateID: c.CandidateID, Name: c.Name, Votes: n})
	}
	for _, n := range counts {
		pt.TotalVotes += n
	}
	sort.Slice(pt.Candidates, func(i, j int) bool {
		if pt.Candidates[i].Votes != pt.Candidates[j].Votes {
			return pt.Candidates[i].Votes > pt.Candidates[j].Votes
		}
		return pt.Candidates[i].Name < pt.Candidates[j].Name
	})
	if pt.Seats > 0 && len(pt.Candidates) > 0 && pt.TotalVotes > 0 {
		cut := pt.Candidates[min(pt.Seats, len(pt.Candidates))-1].Votes
		for i := range pt.Candidates {
			pt.Candidates[i].Leading = pt.Candidates[i].Votes >= cut && pt.Candidates[i].Votes > 0
		}
	}
	return pt
}

func turnout(voters []domain.Voter) Turnout {
	t := Turnout{Total: len(voters)}
	for _, v := range voters {
		switch v.Status {
		case domain.VoterEligible:
			t.Eligible++
		case domain.VoterVerified:
			t.Verified++
		case domain.VoterVoted:
			t.Voted++
		case domain.VoterBlocked:
			t.Blocked++
		}
	}
	if eligible := t.Total - t.Blocked; eligible > 0 {
		t.Percent = float64(t.Voted) * 100 / float64(eligible)
	}
	return t
}
