package dynamo

// DynamoDB attribute names used in expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldStatus     = "status"
	fieldToken      = "token"
	fieldUpdatedAt  = "updated_at"
	fieldVerifiedAt = "verified_at"
	fieldVotedAt    = "voted_at"
	fieldPIN        = "pin"
	fieldEnable     = "enable"
	fieldPositionID = "position_id"
)

// Primary key attribute names.
const (
	keyRegistrationNumber = "registration_number"
	keyOTP                = "otp_key"
	keyPosition           = "position_id"
	keyCandidate          = "candidate_id"
	keyVote               = "vote_id"
	keyAuditEntry         = "entry_id"
	keyOperator           = "email"
	keySession            = "session_id"
)

// Global secondary index names.
const (
	indexVoterToken        = "token-index"
	indexCandidatePosition = "position_id-index"
	indexVotePosition      = "position_id-index"
)
