// Package domain holds the types shared by the ksef connection module
package domain

import "time"

// Status is the persisted connection state of a company
type Status string

const (
	// StatusDisconnected means no token is on file
	StatusDisconnected Status = "DISCONNECTED"
	// StatusConfigured means a token is stored but has not been checked yet
	StatusConfigured Status = "CONFIGURED"
	// StatusConnected means the last check obtained a session
	StatusConnected Status = "CONNECTED"
	// StatusError means the last check failed for a reason retrying will not fix
	StatusError Status = "ERROR"
)

// Company is the slice of a company record this module reads
type Company struct {
	ID       string
	TenantID string
	TaxID    string

	// SecretRecord is the encrypted token in iv:ciphertext form, empty when disconnected
	SecretRecord string

	Status        Status
	ValidUntil    *time.Time
	LastCheckedAt *time.Time
	LastErrorCode string
	LastError     string
}

// HasSecret reports whether a token record is on file
func (c Company) HasSecret() bool { return c.SecretRecord != "" }

// CheckRecord is what a connection check writes back
// an empty Status leaves the stored status and validity untouched
type CheckRecord struct {
	Status       Status
	ValidUntil   *time.Time
	CheckedAt    time.Time
	ErrorCode    string
	ErrorMessage string
}

// Attempt is one audited authentication attempt
type Attempt struct {
	ID         string
	TenantID   string
	CompanyID  string
	Outcome    string
	StartedAt  time.Time
	Duration   time.Duration
	ValidUntil *time.Time
}
