package domain

import "time"

const (
	RoleAdmin   = "ADMIN"
	RoleOfficer = "OFFICER"
)

// Operator is an ADMIN or OFFICER account. PK: email.
type Operator struct {
	Email        string     `json:"email" dynamodbav:"email"`
	Role         string     `json:"role" dynamodbav:"role"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
}

type Session struct {
	SessionID     string    `json:"id" dynamodbav:"session_id"`
	OperatorEmail string    `json:"operator_email" dynamodbav:"operator_email"`
	Role          string    `json:"role" dynamodbav:"role"`
	Enable        bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
	Operator      *Operator `json:"operator,omitempty" dynamodbav:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
