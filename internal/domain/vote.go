package domain

import "time"

// Vote is one choice on a cast ballot. It carries no voter identity.
type Vote struct {
	VoteID      string    `json:"id" dynamodbav:"vote_id"`
	PositionID  string    `json:"position_id" dynamodbav:"position_id"`
	CandidateID string    `json:"candidate_id" dynamodbav:"candidate_id"`
	CastAt      time.Time `json:"cast_at" dynamodbav:"cast_at"`
}

// CastBallotRequest maps position id to the chosen candidate id.
// RegistrationNumber is optional; when sent, the voter is read directly
// instead of through the eventually consistent token index.
type CastBallotRequest struct {
	RegistrationNumber string            `json:"registration_number,omitempty"`
	Selections         map[string]string `json:"selections" validate:"required,min=1"`
}

type BallotReceipt struct {
	ReceiptID string    `json:"receipt_id"`
	Positions []string  `json:"positions"`
	CastAt    time.Time `json:"cast_at"`
}
