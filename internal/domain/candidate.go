package domain

import "time"

type CandidateStatus string

const (
	CandidateSubmitted CandidateStatus = "SUBMITTED"
	CandidateApproved  CandidateStatus = "APPROVED"
	CandidateRejected  CandidateStatus = "REJECTED"
)

type Candidate struct {
	CandidateID string          `json:"id" dynamodbav:"candidate_id" yaml:"id"`
	PositionID  string          `json:"position_id" dynamodbav:"position_id" yaml:"position_id"`
	Name        string          `json:"name" dynamodbav:"name" yaml:"name"`
	Manifesto   string          `json:"manifesto" dynamodbav:"manifesto" yaml:"manifesto"`
	PhotoKey    string          `json:"-" dynamodbav:"photo_key,omitempty" yaml:"-"`
	PhotoURL    *string         `json:"photo_url" dynamodbav:"photo_url,omitempty" yaml:"-"`
	Status      CandidateStatus `json:"status" dynamodbav:"status" yaml:"status"`
	CreatedAt   time.Time       `json:"created" dynamodbav:"created_at" yaml:"-"`
	UpdatedAt   time.Time       `json:"updated" dynamodbav:"updated_at" yaml:"-"`
}

type CreateCandidateRequest struct {
	PositionID string `json:"position_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Manifesto  string `json:"manifesto"`
}

type CandidateStatusRequest struct {
	Status CandidateStatus `json:"status" validate:"required,oneof=SUBMITTED APPROVED REJECTED"`
}
