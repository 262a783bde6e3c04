package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort         string
	AppEnv          string
	AWSRegion       string
	AWSEndpointURL  string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID  string
	AWSSecretKey    string
	DynamoTables    DynamoTables
	S3BucketName    string
	S3PublicBaseURL string // prefix for candidate photo URLs; derived from bucket/region when empty
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion      string
	AllowedOrigins []string // CORS allowed origins
	TrustedProxy   bool     // honour X-Forwarded-For / X-Real-Ip; only behind a proxy that sets them
	OTPTTL          time.Duration // 0 disables PIN expiry
	OTPReturnPIN    bool          // demo contract: echo the PIN in the request response
	DefaultSemester string
	AuditQueueSize  int
	SeedOnStart     bool
	Operators       []OperatorAccount
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Voters     string
	OTPs       string
	Positions  string
	Candidates string
	Votes      string
	AuditLogs  string
	Operators  string
	Sessions   string
}

// OperatorAccount is a provisioned ADMIN or OFFICER login. PasswordHash is a
// bcrypt hash; plaintext passwords are never configured.
type OperatorAccount struct {
	Email        string
	Role         string
	PasswordHash string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Voters:     getEnv("DYNAMO_TABLE_VOTERS", "voters"),
			OTPs:       getEnv("DYNAMO_TABLE_OTPS", "otps"),
			Positions:  getEnv("DYNAMO_TABLE_POSITIONS", "positions"),
			Candidates: getEnv("DYNAMO_TABLE_CANDIDATES", "candidates"),
			Votes:      getEnv("DYNAMO_TABLE_VOTES", "votes"),
			AuditLogs:  getEnv("DYNAMO_TABLE_AUDIT_LOGS", "audit_logs"),
			Operators:  getEnv("DYNAMO_TABLE_OPERATORS", "operators"),
			Sessions:   getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", "election-candidate-photos"),
		S3PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 12*time.Hour),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:     getEnv("SMTP_FROM", "elections@example.edu"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SNSRegion:       getEnv("SNS_REGION", "us-east-1"),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TrustedProxy:    getEnvBool("TRUSTED_PROXY", false),
		OTPTTL:          getEnvDuration("OTP_TTL", 10*time.Minute),
		OTPReturnPIN:    getEnvBool("OTP_RETURN_PIN", true),
		DefaultSemester: getEnv("DEFAULT_SEMESTER", "Advent"),
		AuditQueueSize:  getEnvInt("AUDIT_QUEUE_SIZE", 256),
		SeedOnStart:     getEnvBool("SEED_ON_START", false),
	}
	cfg.Operators = operatorAccounts(
		OperatorAccount{Email: getEnv("ADMIN_EMAIL", ""), Role: "ADMIN", PasswordHash: getEnv("ADMIN_PASSWORD_HASH", "")},
		OperatorAccount{Email: getEnv("OFFICER_EMAIL", ""), Role: "OFFICER", PasswordHash: getEnv("OFFICER_PASSWORD_HASH", "")},
	)
	if cfg.S3PublicBaseURL == "" {
		cfg.S3PublicBaseURL = defaultPublicBaseURL(cfg)
	}
	return cfg
}

// operatorAccounts keeps only accounts with both an email and a hash.
func operatorAccounts(accounts ...OperatorAccount) []OperatorAccount {
	var out []OperatorAccount
	for _, a := range accounts {
		if a.Email == "" || a.PasswordHash == "" {
			continue
		}
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
		out = append(out, a)
	}
	return out
}

func defaultPublicBaseURL(cfg *Config) string {
	if cfg.AWSEndpointURL != "" {
		return strings.TrimRight(cfg.AWSEndpointURL, "/") + "/" + cfg.S3BucketName
	}
	return "https://" + cfg.S3BucketName + ".s3." + cfg.AWSRegion + ".amazonaws.com"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
