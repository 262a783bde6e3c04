package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/student-election-api/internal/application/ballot"
	"github.com/student-election-api/internal/application/election"
	"github.com/student-election-api/internal/application/results"
	"github.com/student-election-api/internal/application/session"
	"github.com/student-election-api/internal/application/verification"
	"github.com/student-election-api/internal/application/voter"
	"github.com/student-election-api/internal/config"
	"github.com/student-election-api/internal/domain"
	"github.com/student-election-api/internal/transport/http/handler"
	appmiddleware "github.com/student-election-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustedProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.VoterTokenHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	verificationSvc := verification.NewService(verification.ServiceDeps{
		VoterRepo: deps.VoterRepo,
		OTPRepo:   deps.OTPRepo,
		Ledger:    deps.Ledger,
		Notifier:  verification.NewNotifier(deps.Mailer, deps.SMSSender),
		Audit:     deps.Audit,
		OTPTTL:    cfg.OTPTTL,
		ReturnPIN: cfg.OTPReturnPIN,
	})
	ballotSvc := ballot.NewService(ballot.ServiceDeps{
		VoterRepo:     deps.VoterRepo,
		PositionRepo:  deps.PositionRepo,
		CandidateRepo: deps.CandidateRepo,
		Ledger:        deps.Ledger,
		Audit:         deps.Audit,
	})
	electionSvc := election.NewService(election.ServiceDeps{
		PositionRepo:    deps.PositionRepo,
		CandidateRepo:   deps.CandidateRepo,
		PhotoStore:      deps.PhotoStore,
		Audit:           deps.Audit,
		DefaultSemester: cfg.DefaultSemester,
	})
	resultsSvc := results.NewService(results.ServiceDeps{
		PositionRepo:  deps.PositionRepo,
		CandidateRepo: deps.CandidateRepo,
		VoteRepo:      deps.VoteRepo,
		VoterRepo:     deps.VoterRepo,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		OperatorRepo: deps.OperatorRepo,
		SessionRepo:  deps.SessionRepo,
		JWTProvider:  deps.JWTProvider,
		Audit:        deps.Audit,
		Accounts:     cfg.Operators,
	})
	voterSvc := voter.NewService(voter.ServiceDeps{
		VoterRepo: deps.VoterRepo,
		Audit:     deps.Audit,
	})

	authMw := appmiddleware.Auth(deps.JWTProvider, sessionSvc)

	// 5 requests/second, burst of 10, on the PIN and login endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(verificationSvc)
	ballotH := handler.NewBallotHandler(ballotSvc)
	positionH := handler.NewPositionHandler(electionSvc)
	candidateH := handler.NewCandidateHandler(electionSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	resultsH := handler.NewResultsHandler(resultsSvc)
	auditH := handler.NewAuditHandler(deps.Audit)
	voterH := handler.NewVoterHandler(voterSvc)

	operators := appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleOfficer)
	adminOnly := appmiddleware.RequireRole(domain.RoleAdmin)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes ───────────────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/positions", positionH.List)
		r.Get("/candidates", candidateH.List)

		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/voters/otp/request", verificationH.RequestOTP)
			r.Post("/voters/otp/verify", verificationH.VerifyOTP)
			r.Post("/sessions/login", sessionH.Login)
		})

		// ── Verified voters ─────────────────────────────────────────────────
		r.With(appmiddleware.VoterToken).Post("/ballots", ballotH.Cast)

		// ── Operators ───────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Group(func(r chi.Router) {
				r.Use(operators)
				r.Get("/results", resultsH.Tally)
				r.Get("/results/report", resultsH.Report)
				r.Get("/audit-logs", auditH.List)
				r.Get("/audit-logs/stats", auditH.Stats)
				r.Get("/voters", voterH.List)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Put("/voters/status", voterH.SetStatus)
				r.Post("/positions", positionH.Create)
				r.Put("/positions/{id}", positionH.Update)
				r.Put("/positions/{id}/status", positionH.UpdateStatus)
				r.Post("/candidates", candidateH.Create)
				r.Put("/candidates/{id}/status", candidateH.UpdateStatus)
				r.Post("/candidates/{id}/photo", candidateH.UploadPhoto)
			})
		})
	})

	return r
}
