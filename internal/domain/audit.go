package domain

import "time"

const (
	ActorVoter   = "VOTER"
	ActorAdmin   = "ADMIN"
	ActorOfficer = "OFFICER"
	ActorSystem  = "SYSTEM"
)

// Audit actions.
const (
	ActionOTPRequested          = "OTP_REQUESTED"
	ActionOTPVerified           = "OTP_VERIFIED"
	ActionBallotCast            = "BALLOT_CAST"
	ActionPositionCreated       = "POSITION_CREATED"
	ActionPositionOpened        = "POSITION_OPENED"
	ActionPositionClosed        = "POSITION_CLOSED"
	ActionPositionUpdated       = "POSITION_UPDATED"
	ActionCandidateCreated      = "CANDIDATE_CREATED"
	ActionCandidateStatusChange = "CANDIDATE_STATUS_CHANGED"
	ActionCandidatePhoto        = "CANDIDATE_PHOTO_UPLOADED"
	ActionVoterBlocked          = "VOTER_BLOCKED"
	ActionVoterUnblocked        = "VOTER_UNBLOCKED"
	ActionOperatorLogin         = "OPERATOR_LOGIN"
	ActionSeeded                = "DATA_SEEDED"
)

// AuditEntry is an append-only record of a state-changing action.
type AuditEntry struct {
	EntryID   string    `json:"id" dynamodbav:"entry_id"`
	ActorType string    `json:"actor_type" dynamodbav:"actor_type"`
	ActorID   string    `json:"actor_id" dynamodbav:"actor_id"`
	Action    string    `json:"action" dynamodbav:"action"`
	Details   string    `json:"details" dynamodbav:"details"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Actor identifies who performed an audited operation.
type Actor struct {
	Type string
	ID   string
}

var SystemActor = Actor{Type: ActorSystem, ID: "system"}
