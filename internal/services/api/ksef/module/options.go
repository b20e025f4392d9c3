package module

import (
	"time"

	"ksefconnect/internal/adapters/authority/ksef"
	"ksefconnect/internal/core/secretcipher"
	"ksefconnect/internal/platform/config"
	perr "ksefconnect/internal/platform/errors"
)

// Options controls the cipher key and the authority client
type Options struct {
	SecretKey     string // 64 hex chars, AES-256
	PublicKeyFile string // authority PEM certificate or public key

	BaseURL         string
	UserAgent       string
	CallTimeout     time.Duration
	PollInitial     time.Duration
	PollMaxInterval time.Duration
	PollMultiplier  float64
	PollJitter      float64
	PollMaxAttempts int
	PollBudget      time.Duration
	StatusPending   string // csv of status codes
	StatusSuccess   string // csv of status codes
	RatePerSec      float64
	RateBurst       int
}

// FromConfig reads KSEF_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	kc := cfg.Prefix("KSEF_")
	return Options{
		SecretKey:       kc.MayString("SECRET_KEY", ""),
		PublicKeyFile:   kc.MayString("PUBLIC_KEY_FILE", ""),
		BaseURL:         kc.MayString("BASE_URL", ""),
		UserAgent:       kc.MayString("USER_AGENT", "ksefconnect"),
		CallTimeout:     kc.MayDuration("CALL_TIMEOUT", 10*time.Second),
		PollInitial:     kc.MayDuration("POLL_INITIAL", 500*time.Millisecond),
		PollMaxInterval: kc.MayDuration("POLL_MAX_INTERVAL", 5*time.Second),
		PollMultiplier:  kc.MayFloat64("POLL_MULTIPLIER", 2),
		PollJitter:      kc.MayFloat64("POLL_JITTER", 0.1),
		PollMaxAttempts: kc.MayInt("POLL_MAX_ATTEMPTS", 30),
		PollBudget:      kc.MayDuration("POLL_BUDGET", 0),
		StatusPending:   kc.MayString("STATUS_PENDING", "100"),
		StatusSuccess:   kc.MayString("STATUS_SUCCESS", "200"),
		RatePerSec:      kc.MayFloat64("RATE_PER_SEC", 5),
		RateBurst:       kc.MayInt("RATE_BURST", 5),
	}
}

// Cipher builds the at-rest cipher, a missing or malformed key is a configuration error
func (o Options) Cipher() (*secretcipher.Cipher, error) {
	if o.SecretKey == "" {
		return nil, perr.Configf("KSEF_SECRET_KEY is not set")
	}
	return secretcipher.FromHex(o.SecretKey)
}

// ClientOptions maps the config onto the authority client options
func (o Options) ClientOptions() (ksef.Options, error) {
	pending, err := ksef.ParseCodes(o.StatusPending)
	if err != nil {
		return ksef.Options{}, err
	}
	success, err := ksef.ParseCodes(o.StatusSuccess)
	if err != nil {
		return ksef.Options{}, err
	}
	return ksef.Options{
		BaseURL:         o.BaseURL,
		UserAgent:       o.UserAgent,
		CallTimeout:     o.CallTimeout,
		PollInitial:     o.PollInitial,
		PollMaxInterval: o.PollMaxInterval,
		PollMultiplier:  o.PollMultiplier,
		PollJitter:      o.PollJitter,
		PollMaxAttempts: o.PollMaxAttempts,
		PollBudget:      o.PollBudget,
		Policy:          ksef.StatusPolicy{Pending: pending, Success: success},
		RatePerSec:      o.RatePerSec,
		RateBurst:       o.RateBurst,
	}, nil
}

// Client builds the authority client with the RSA token encrypter
func (o Options) Client() (*ksef.Client, error) {
	if o.PublicKeyFile == "" {
		return nil, perr.Configf("KSEF_PUBLIC_KEY_FILE is not set")
	}
	pub, err := ksef.LoadPublicKey(o.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	enc, err := ksef.NewRSAEncrypter(pub)
	if err != nil {
		return nil, err
	}
	co, err := o.ClientOptions()
	if err != nil {
		return nil, err
	}
	return ksef.NewClient(co, enc)
}
