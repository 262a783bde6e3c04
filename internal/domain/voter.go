package domain

import "time"

type VoterStatus string

const (
	VoterEligible VoterStatus = "ELIGIBLE"
	VoterVerified VoterStatus = "VERIFIED"
	VoterVoted    VoterStatus = "VOTED"
	VoterBlocked  VoterStatus = "BLOCKED"
)

// Voter is keyed by registration number. Token is present only while the
// status is VERIFIED or VOTED; the attribute is omitted otherwise so the
// token-index GSI never sees an empty key.
type Voter struct {
	RegistrationNumber string      `json:"registration_number" dynamodbav:"registration_number"`
	Name               string      `json:"name" dynamodbav:"name"`
	Email              string      `json:"email" dynamodbav:"email"`
	Phone              *string     `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Program            string      `json:"program" dynamodbav:"program"`
	Status             VoterStatus `json:"status" dynamodbav:"status"`
	Token              string      `json:"-" dynamodbav:"token,omitempty"`
	VerifiedAt         *time.Time  `json:"verified_at,omitempty" dynamodbav:"verified_at,omitempty"`
	VotedAt            *time.Time  `json:"voted_at,omitempty" dynamodbav:"voted_at,omitempty"`
	CreatedAt          time.Time   `json:"created" dynamodbav:"created_at"`
	UpdatedAt          time.Time   `json:"updated" dynamodbav:"updated_at"`
}

// Terminal reports whether the voter can no longer start verification.
func (v *Voter) Terminal() bool {
	return v.Status == VoterVoted || v.Status == VoterBlocked
}

type VoterStatusRequest struct {
	RegistrationNumber string `json:"registration_number" validate:"required"`
	Action             string `json:"action" validate:"required,oneof=BLOCK UNBLOCK"`
}
