// Package ksef drives the KSeF token authentication protocol: challenge, submit, poll and redeem
package ksef

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/logger"
	"ksefconnect/internal/platform/metrics"

	"golang.org/x/time/rate"
)

const (
	baseURLDefault         = "https://ksef-test.mf.gov.pl/api/v2"
	defaultUA              = "ksefconnect"
	defaultCallTimeout     = 10 * time.Second
	defaultPollInitial     = 500 * time.Millisecond
	defaultPollMaxInterval = 5 * time.Second
	defaultPollMultiplier  = 2.0
	defaultPollMaxAttempts = 30
	defaultRatePerSec      = 5
	defaultRateBurst       = 5

	maxBody = 1 << 20
)

// Endpoint labels used in logs, errors and metrics
const (
	EndpointChallenge = "challenge"
	EndpointSubmit    = "submit"
	EndpointStatus    = "status"
	EndpointRedeem    = "redeem"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// CallTimeout bounds every single HTTP call, independent of the poll budget
	CallTimeout time.Duration

	// Poll schedule: exponential from PollInitial capped at PollMaxInterval,
	// at most PollMaxAttempts status calls. PollBudget optionally caps total wait time.
	PollInitial     time.Duration
	PollMaxInterval time.Duration
	PollMultiplier  float64
	PollJitter      float64
	PollMaxAttempts int
	PollBudget      time.Duration

	Policy StatusPolicy

	// Outbound request rate, shared by all concurrent authentications. Zero means defaults, negative means unlimited.
	RatePerSec float64
	RateBurst  int

	HTTPClient *http.Client
}

// Client talks to the remote authority. Safe for concurrent use; holds no per-tenant state.
type Client struct {
	http    *http.Client
	opts    Options
	enc     TokenEncrypter
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options, enc TokenEncrypter) (*Client, error) {
	if enc == nil {
		return nil, perr.Configf("ksef: token encrypter is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = defaultCallTimeout
	}
	if o.PollInitial <= 0 {
		o.PollInitial = defaultPollInitial
	}
	if o.PollMaxInterval <= 0 {
		o.PollMaxInterval = defaultPollMaxInterval
	}
	if o.PollMaxInterval < o.PollInitial {
		o.PollMaxInterval = o.PollInitial
	}
	if o.PollMultiplier < 1 {
		o.PollMultiplier = defaultPollMultiplier
	}
	if o.PollJitter < 0 || o.PollJitter >= 1 {
		o.PollJitter = 0
	}
	if o.PollMaxAttempts <= 0 {
		o.PollMaxAttempts = defaultPollMaxAttempts
	}
	if o.Policy.Success == nil && o.Policy.Pending == nil {
		o.Policy = DefaultStatusPolicy()
	}
	if err := o.Policy.Validate(); err != nil {
		return nil, err
	}
	if o.RatePerSec == 0 {
		o.RatePerSec = defaultRatePerSec
	}
	if o.RateBurst <= 0 {
		o.RateBurst = defaultRateBurst
	}
	limit := rate.Limit(o.RatePerSec)
	if o.RatePerSec < 0 {
		limit = rate.Inf
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.CallTimeout}
	}
	return &Client{
		http:    hc,
		opts:    o,
		enc:     enc,
		limiter: rate.NewLimiter(limit, o.RateBurst),
		log:     *logger.Named("ksef"),
		now:     time.Now,
	}, nil
}

// Policy returns the status code policy in use
func (c *Client) Policy() StatusPolicy { return c.opts.Policy }

// do issues one call with its own timeout and decodes a 2xx body into out.
// bearer is optional. Non-2xx statuses and undecodable 2xx bodies map onto the error
// taxonomy; nothing is retried here.
func (c *Client) do(ctx context.Context, endpoint, method, path, bearer string, in, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.CallTimeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		return c.transportErr(ctx, endpoint, err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "ksef %s encode failed", endpoint)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "ksef %s new request failed", endpoint)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		metrics.AuthorityRequest(endpoint, 0)
		c.log.Warn().Err(err).Str("endpoint", endpoint).Dur("latency", lat).Msg("ksef transport error")
		return c.transportErr(ctx, endpoint, err)
	}

	metrics.AuthorityRequest(endpoint, resp.StatusCode)
	c.log.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("ksef http response")

	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				c.log.Error().Err(cerr).Str("endpoint", endpoint).Msg("ksef close body failed")
			}
		}()
		if out == nil {
			return nil
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return c.transportErr(ctx, endpoint, err)
		}
		if err := json.Unmarshal(b, out); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeAuthorityRejected, "ksef %s returned a malformed body", endpoint)
		}
		return nil

	case isClientError(code):
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		_ = resp.Body.Close()
		se := &StatusError{Endpoint: endpoint, Status: code, Body: strings.TrimSpace(string(tail))}
		return perr.Wrapf(se, perr.ErrorCodeAuthorityRejected, "ksef %s rejected with status %d", endpoint, code)

	case isTransient(code):
		_ = drainAndClose(resp.Body)
		se := &StatusError{Endpoint: endpoint, Status: code}
		if code == http.StatusTooManyRequests {
			return perr.Wrapf(se, perr.ErrorCodeTooManyRequests, "ksef %s rate limited", endpoint)
		}
		return perr.Wrapf(se, perr.ErrorCodeUnavailable, "ksef %s transient server error %d", endpoint, code)

	default:
		_ = drainAndClose(resp.Body)
		return perr.Wrapf(&StatusError{Endpoint: endpoint, Status: code}, perr.ErrorCodeAuthorityRejected, "ksef %s unexpected status %d", endpoint, code)
	}
}

// transportErr classifies a failed call. The caller's own cancellation wins over the per-call timeout.
func (c *Client) transportErr(parent context.Context, endpoint string, err error) error {
	if cerr := parent.Err(); cerr != nil {
		return wrapCancelled(cerr, endpoint)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ksef %s timed out after %s", endpoint, c.opts.CallTimeout)
	}
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ksef %s transport failed", endpoint)
}

func wrapCancelled(err error, stage string) error {
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ksef %s cancelled", stage)
}
