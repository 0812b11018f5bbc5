package models

import "time"

// VerificationRequest is the body of POST /api/verify. BirthYear is a
// pointer so a missing field can be told apart from year zero.
type VerificationRequest struct {
	BirthYear *int `json:"birthYear"`
}

// VerificationResponse is the 200 body of POST /api/verify
type VerificationResponse struct {
	IsValid     int    `json:"isValid"`
	Attestation string `json:"attestation,omitempty"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes of POST /api/verify. The message stays "Verification failed".
const (
	CodeInvalidRequest = "invalid_request"
	CodeOracleFailed   = "oracle_failed"
	CodeOracleTimeout  = "oracle_timeout"
	CodeInvalidSignal  = "invalid_signal"
)

// VerificationFailed is the only error message the verify route exposes
const VerificationFailed = "Verification failed"
