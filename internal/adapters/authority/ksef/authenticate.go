package ksef

import (
	"context"
	"time"

	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/metrics"

	"github.com/cenkalti/backoff/v4"
)

// Authenticate runs challenge, submit, poll and redeem in order for one tax id.
// Error codes: Unavailable or TooManyRequests for transport trouble, AuthorityRejected for
// terminal refusals, AuthorityTimeout when the poll budget runs out, Config for encryption setup.
func (c *Client) Authenticate(ctx context.Context, taxID, secret string) (Session, error) {
	start := c.now()
	polls := 0
	sess, err := c.authenticate(ctx, taxID, secret, &polls)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = perr.CodeOf(err).String()
	}
	metrics.ObserveAuth(outcome, polls, c.now().Sub(start))
	return sess, err
}

func (c *Client) authenticate(ctx context.Context, taxID, secret string, polls *int) (Session, error) {
	ch, err := c.Challenge(ctx)
	if err != nil {
		return Session{}, err
	}

	enc, err := c.enc.EncryptToken(secret, ch, taxID)
	if err != nil {
		if _, ok := perr.As(err); ok {
			return Session{}, err
		}
		return Session{}, perr.Wrap(err, perr.ErrorCodeConfig, "ksef token encryption failed")
	}

	h, err := c.SubmitToken(ctx, AuthSubmission{
		Challenge:         ch.Challenge,
		ContextIdentifier: ContextIdentifier{Type: ContextTypeNip, Value: taxID},
		EncryptedToken:    enc,
	})
	if err != nil {
		return Session{}, err
	}

	log := c.log.With().Str("reference", h.ReferenceNumber).Logger()
	log.Debug().Msg("ksef submission accepted")

	if err := c.await(ctx, h, polls); err != nil {
		log.Warn().Err(err).Int("polls", *polls).Msg("ksef authentication did not complete")
		return Session{}, err
	}

	sess, err := c.Redeem(ctx, h)
	if err != nil {
		return Session{}, err
	}

	issuedAt, err := ch.Time()
	if err != nil {
		return Session{}, perr.Wrap(err, perr.ErrorCodeAuthorityRejected, "ksef challenge timestamp is unusable")
	}
	if !sess.valid(issuedAt) {
		return Session{}, perr.Rejectedf("ksef redeem for %s returned an unusable session", h.ReferenceNumber)
	}

	log.Info().
		Int("polls", *polls).
		Time("access_valid_until", sess.AccessToken.ValidUntil).
		Time("refresh_valid_until", sess.RefreshToken.ValidUntil).
		Msg("ksef session issued")
	return sess, nil
}

// await polls the submission until it leaves the pending phase or the budget is spent
func (c *Client) await(ctx context.Context, h AuthHandle, polls *int) error {
	schedule := c.pollSchedule()
	for attempt := 1; ; attempt++ {
		st, err := c.Status(ctx, h)
		*polls = attempt
		if err != nil {
			return err
		}

		switch c.opts.Policy.Classify(st.Status.Code) {
		case PhaseSuccess:
			return nil
		case PhaseFailed:
			return perr.Rejectedf("ksef rejected %s: %d %s", h.ReferenceNumber, st.Status.Code, st.Status.Description)
		}

		if attempt >= c.opts.PollMaxAttempts {
			return perr.AuthorityTimeoutf("ksef %s still pending after %d polls", h.ReferenceNumber, attempt)
		}
		next := schedule.NextBackOff()
		if next == backoff.Stop {
			return perr.AuthorityTimeoutf("ksef %s still pending after %s", h.ReferenceNumber, c.opts.PollBudget)
		}
		if err := sleepCtx(ctx, next); err != nil {
			return wrapCancelled(err, EndpointStatus)
		}
	}
}

func (c *Client) pollSchedule() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.PollInitial
	b.MaxInterval = c.opts.PollMaxInterval
	b.Multiplier = c.opts.PollMultiplier
	b.RandomizationFactor = c.opts.PollJitter
	b.MaxElapsedTime = c.opts.PollBudget
	b.Reset()
	return b
}

// sleepCtx waits for d or until ctx is done, whichever comes first
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
