package http

import (
	"github.com/student-election-api/internal/application/audit"
	"github.com/student-election-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/student-election-api/internal/infrastructure/jwt"
	s3infra "github.com/student-election-api/internal/infrastructure/s3"
	"github.com/student-election-api/internal/infrastructure/smtp"
	"github.com/student-election-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	VoterRepo     *dynamo.VoterRepo
	OTPRepo       *dynamo.OTPRepo
	PositionRepo  *dynamo.PositionRepo
	CandidateRepo *dynamo.CandidateRepo
	VoteRepo      *dynamo.VoteRepo
	OperatorRepo  *dynamo.OperatorRepo
	SessionRepo   *dynamo.SessionRepo
	Ledger        *dynamo.Ledger
	PhotoStore    *s3infra.Store
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender // nil disables SMS delivery
	JWTProvider   *jwtinfra.Provider
	Audit         *audit.Sink
}
