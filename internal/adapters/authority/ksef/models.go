package ksef

import "time"

// ContextTypeNip is the identity context type for tax id based authentication
const ContextTypeNip = "Nip"

// Challenge is the single use challenge issued before token submission
type Challenge struct {
	Timestamp string `json:"timestamp"`
	Challenge string `json:"challenge"`
}

// Time parses the challenge timestamp
func (c Challenge) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, c.Timestamp)
}

// ContextIdentifier names the subject the token is presented for
type ContextIdentifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AuthSubmission is the body of the token submission call
type AuthSubmission struct {
	Challenge         string            `json:"challenge"`
	ContextIdentifier ContextIdentifier `json:"contextIdentifier"`
	EncryptedToken    string            `json:"encryptedToken"`
}

// TokenRef wraps an opaque bearer token
type TokenRef struct {
	Token string `json:"token"`
}

// AuthHandle correlates an accepted submission with its status polls
type AuthHandle struct {
	ReferenceNumber     string   `json:"referenceNumber"`
	AuthenticationToken TokenRef `json:"authenticationToken"`
}

// StatusInfo is the processing state of a submission
type StatusInfo struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// AuthStatus is the payload of a status poll
type AuthStatus struct {
	Status StatusInfo `json:"status"`
}

// Credential is a token with an absolute expiry
type Credential struct {
	Token      string    `json:"token"`
	ValidUntil time.Time `json:"validUntil"`
}

// Session is the result of a successful authentication
type Session struct {
	AccessToken  Credential `json:"accessToken"`
	RefreshToken Credential `json:"refreshToken"`
}

// Expired reports whether the access token is no longer usable at now.
// The refresh token may still be valid.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.AccessToken.ValidUntil)
}

// valid checks the invariants a usable session must hold relative to issuedAt
func (s Session) valid(issuedAt time.Time) bool {
	if s.AccessToken.Token == "" || s.RefreshToken.Token == "" {
		return false
	}
	if s.AccessToken.ValidUntil.IsZero() || s.RefreshToken.ValidUntil.IsZero() {
		return false
	}
	return s.AccessToken.ValidUntil.After(issuedAt) && s.RefreshToken.ValidUntil.After(issuedAt)
}
