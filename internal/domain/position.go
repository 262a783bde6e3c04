package domain

import "time"

const (
	SemesterAdvent  = "Advent"
	SemesterTrinity = "Trinity"
	SemesterEaster  = "Easter"
)

const (
	PositionActionOpen  = "OPEN"
	PositionActionClose = "CLOSE"
)

type Position struct {
	PositionID       string    `json:"id" dynamodbav:"position_id" yaml:"id"`
	Name             string    `json:"name" dynamodbav:"name" yaml:"name"`
	Seats            int       `json:"seats" dynamodbav:"seats" yaml:"seats"`
	OpensAt          time.Time `json:"opens_at" dynamodbav:"opens_at" yaml:"-"`
	ClosesAt         time.Time `json:"closes_at" dynamodbav:"closes_at" yaml:"-"`
	Semester         string    `json:"semester" dynamodbav:"semester" yaml:"semester"`
	EligibilityRules string    `json:"eligibility_rules" dynamodbav:"eligibility_rules" yaml:"eligibility_rules"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at" yaml:"-"`
}

// OpenAt reports whether ballots for the position are accepted at t.
func (p *Position) OpenAt(t time.Time) bool {
	return !t.Before(p.OpensAt) && t.Before(p.ClosesAt)
}

type CreatePositionRequest struct {
	Name             string    `json:"name" validate:"required"`
	Seats            int       `json:"seats" validate:"required,min=1"`
	OpensAt          time.Time `json:"opens_at" validate:"required"`
	ClosesAt         time.Time `json:"closes_at" validate:"required,gtfield=OpensAt"`
	Semester         string    `json:"semester" validate:"omitempty,oneof=Advent Trinity Easter"`
	EligibilityRules string    `json:"eligibility_rules"`
}

// UpdatePositionRequest carries a partial update. Nil fields are absent and
// are never written.
type UpdatePositionRequest struct {
	Name             *string    `json:"name"`
	Seats            *int       `json:"seats" validate:"omitempty,min=1"`
	OpensAt          *time.Time `json:"opens_at"`
	ClosesAt         *time.Time `json:"closes_at"`
	Semester         *string    `json:"semester" validate:"omitempty,oneof=Advent Trinity Easter"`
	EligibilityRules *string    `json:"eligibility_rules"`
}

type PositionStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=OPEN CLOSE"`
}
