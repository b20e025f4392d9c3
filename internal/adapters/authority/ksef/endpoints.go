package ksef

import (
	"context"
	"net/http"
	"net/url"

	perr "ksefconnect/internal/platform/errors"
)

// Challenge fetches a fresh single use challenge. A body without both fields or with an
// unparseable timestamp is rejected.
func (c *Client) Challenge(ctx context.Context) (Challenge, error) {
	var out Challenge
	if err := c.do(ctx, EndpointChallenge, http.MethodGet, "/auth/challenge", "", nil, &out); err != nil {
		return Challenge{}, err
	}
	if out.Challenge == "" || out.Timestamp == "" {
		return Challenge{}, perr.Rejectedf("ksef challenge response is incomplete")
	}
	if _, err := out.Time(); err != nil {
		return Challenge{}, perr.Wrapf(err, perr.ErrorCodeAuthorityRejected, "ksef challenge timestamp %q is not RFC 3339", out.Timestamp)
	}
	return out, nil
}

// SubmitToken posts the encrypted token for the given identity context
func (c *Client) SubmitToken(ctx context.Context, in AuthSubmission) (AuthHandle, error) {
	var out AuthHandle
	if err := c.do(ctx, EndpointSubmit, http.MethodPost, "/auth/ksef-token", "", in, &out); err != nil {
		return AuthHandle{}, err
	}
	if out.ReferenceNumber == "" || out.AuthenticationToken.Token == "" {
		return AuthHandle{}, perr.Rejectedf("ksef submit response is incomplete")
	}
	return out, nil
}

// Status reads the processing state of a submission
func (c *Client) Status(ctx context.Context, h AuthHandle) (AuthStatus, error) {
	var out AuthStatus
	path := "/auth/" + url.PathEscape(h.ReferenceNumber)
	if err := c.do(ctx, EndpointStatus, http.MethodGet, path, h.AuthenticationToken.Token, nil, &out); err != nil {
		return AuthStatus{}, err
	}
	return out, nil
}

// Redeem exchanges the authentication token of an accepted submission for a session
func (c *Client) Redeem(ctx context.Context, h AuthHandle) (Session, error) {
	var out Session
	if err := c.do(ctx, EndpointRedeem, http.MethodPost, "/auth/token/redeem", h.AuthenticationToken.Token, nil, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}
