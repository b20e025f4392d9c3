package domain

import "time"

// SaveTokenInput carries a new or rotated authority token
// tax_id is optional and, when sent, must match the company on file
type SaveTokenInput struct {
	Token string `json:"token"            validate:"required,min=16,max=4096,printascii" example:"20240101-EC-0123456789ABCDEF"`
	TaxID string `json:"tax_id,omitempty" validate:"omitempty,nip" example:"5260250274"`
}

// TestResult is the outcome of a successful connection test
type TestResult struct {
	Success    bool      `json:"success"     example:"true"`
	ValidUntil time.Time `json:"valid_until" example:"2024-01-01T01:00:00Z"`
}

// StatusView is the caller facing connection state, it never carries the token
type StatusView struct {
	CompanyID     string     `json:"company_id"                example:"3b0f1e2a-6c4d-4d8e-9a57-0c1f2d3e4b5a"`
	Status        Status     `json:"status"                    example:"CONNECTED"`
	HasToken      bool       `json:"has_token"                 example:"true"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"     example:"2024-01-01T01:00:00Z"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty" example:"2024-01-01T00:00:05Z"`
	LastErrorCode string     `json:"last_error_code,omitempty" example:"authority_rejected"`
	LastError     string     `json:"last_error,omitempty"      example:"KSeF authorization failed"`
}

// ViewOf projects a company onto its status view
func ViewOf(c Company) StatusView {
	st := c.Status
	if st == "" {
		st = StatusDisconnected
	}
	return StatusView{
		CompanyID:     c.ID,
		Status:        st,
		HasToken:      c.HasSecret(),
		ValidUntil:    c.ValidUntil,
		LastCheckedAt: c.LastCheckedAt,
		LastErrorCode: c.LastErrorCode,
		LastError:     c.LastError,
	}
}
