package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/student-election-api/internal/application/audit"
	"github.com/student-election-api/internal/application/seed"
	"github.com/student-election-api/internal/config"
	"github.com/student-election-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/student-election-api/internal/infrastructure/jwt"
	s3infra "github.com/student-election-api/internal/infrastructure/s3"
	"github.com/student-election-api/internal/infrastructure/smtp"
	"github.com/student-election-api/internal/infrastructure/sns"
	transporthttp "github.com/student-election-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("s3 client: %v", err)
	}
	photoStore := s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.S3PublicBaseURL)

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional, PINs still go out by email).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	tables := cfg.DynamoTables
	sink := audit.NewSink(dynamo.NewAuditLogRepo(dynamoClient, tables.AuditLogs), cfg.AuditQueueSize)

	deps := &transporthttp.Deps{
		VoterRepo:     dynamo.NewVoterRepo(dynamoClient, tables.Voters),
		OTPRepo:       dynamo.NewOTPRepo(dynamoClient, tables.OTPs),
		PositionRepo:  dynamo.NewPositionRepo(dynamoClient, tables.Positions),
		CandidateRepo: dynamo.NewCandidateRepo(dynamoClient, tables.Candidates),
		VoteRepo:      dynamo.NewVoteRepo(dynamoClient, tables.Votes),
		OperatorRepo:  dynamo.NewOperatorRepo(dynamoClient, tables.Operators),
		SessionRepo:   dynamo.NewSessionRepo(dynamoClient, tables.Sessions),
		Ledger:        dynamo.NewLedger(dynamoClient, tables.Voters, tables.OTPs, tables.Votes),
		PhotoStore:    photoStore,
		Mailer:        mailer,
		SMSSender:     smsSender,
		JWTProvider:   jwtProvider,
		Audit:         sink,
	}

	if cfg.SeedOnStart {
		seeder := seed.New(seed.Deps{
			PositionRepo: deps.PositionRepo,
			Writer:       dynamo.NewBatchWriter(dynamoClient, tables),
			Audit:        sink,
		})
		res, err := seeder.Seed(ctx)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		if res.Seeded {
			log.Printf("Seeded %d positions, %d candidates, %d voters", res.Positions, res.Candidates, res.Voters)
		} else {
			log.Println("Seed skipped, positions already present")
		}
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	if err := sink.Close(shutdownCtx); err != nil {
		log.Printf("audit sink: %v", err)
	}
	log.Println("Server stopped")
}
