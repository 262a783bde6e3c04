package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewVoterToken generates a cryptographically random 64-character hex token
// that gates ballot casting after PIN verification.
func NewVoterToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate voter token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewPIN returns a 6-digit numeric PIN drawn uniformly from [100000, 999999].
func NewPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate pin: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
