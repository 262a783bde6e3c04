package domain

import "time"

// OTPRecord holds the single outstanding PIN for a voter.
// PK: otp_key (sanitized registration number).
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; 0 means the PIN never expires.
type OTPRecord struct {
	Key                string    `json:"-" dynamodbav:"otp_key"`
	RegistrationNumber string    `json:"registration_number" dynamodbav:"registration_number"`
	PIN                string    `json:"-" dynamodbav:"pin"`
	IssuedAt           time.Time `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt          int64     `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// Expired reports whether the record is past its expiry at now.
func (o *OTPRecord) Expired(now time.Time) bool {
	return o.ExpiresAt > 0 && o.ExpiresAt <= now.Unix()
}

type RequestOTPInput struct {
	RegistrationNumber string `json:"registration_number" validate:"required"`
}

type VerifyOTPInput struct {
	RegistrationNumber string `json:"registration_number" validate:"required"`
	PIN                string `json:"pin" validate:"required"`
}
