// Package config reads service settings from prefixed environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ksefconnect/internal/platform/logger"
)

// Conf is a prefixed view over the environment, e.g. New().Prefix("CORE_API_")
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// MustString panics when the variable is unset or blank. Only boot code calls it.
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns def for an unset or blank variable
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

func (c Conf) MayInt(key string, def int) int { return parse(c, key, def, strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return parse(c, key, def, strconv.ParseBool) }

func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parse(c, key, def, time.ParseDuration)
}

func (c Conf) MayFloat64(key string, def float64) float64 {
	return parse(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayCSV splits a comma separated list, dropping blank items
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// parse falls back to def on unset values, and on bad ones after a warning
func parse[T any](c Conf, key string, def T, fn func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).Msg("unparseable env, using default")
		return def
	}
	return v
}
