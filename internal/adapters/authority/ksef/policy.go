package ksef

import (
	"slices"
	"strconv"
	"strings"

	perr "ksefconnect/internal/platform/errors"
)

// Phase is the category a status code falls into
type Phase uint8

const (
	// PhasePending means the authority is still processing, keep polling
	PhasePending Phase = iota
	// PhaseSuccess means the submission was accepted and can be redeemed
	PhaseSuccess
	// PhaseFailed means the authority refused the submission
	PhaseFailed
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	default:
		return "failed"
	}
}

// StatusPolicy maps authority status codes onto phases.
// Codes outside Pending and Success are terminal failures.
type StatusPolicy struct {
	Pending []int
	Success []int
}

// DefaultStatusPolicy matches the authority's documented codes: 100 in progress, 200 done
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{Pending: []int{100}, Success: []int{200}}
}

// Classify returns the phase for code
func (p StatusPolicy) Classify(code int) Phase {
	switch {
	case slices.Contains(p.Success, code):
		return PhaseSuccess
	case slices.Contains(p.Pending, code):
		return PhasePending
	default:
		return PhaseFailed
	}
}

// Validate rejects empty or overlapping code sets
func (p StatusPolicy) Validate() error {
	if len(p.Success) == 0 {
		return perr.Configf("ksef: status policy needs at least one success code")
	}
	for _, c := range p.Pending {
		if slices.Contains(p.Success, c) {
			return perr.Configf("ksef: status code %d is both pending and success", c)
		}
	}
	return nil
}

// ParseCodes parses a comma separated list of status codes
func ParseCodes(csv string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "ksef: bad status code %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
