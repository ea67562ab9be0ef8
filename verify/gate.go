// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/ldr-counter/metrics"
)

// FreshnessWindow is the maximum age of a proof token at redemption
const FreshnessWindow = 2 * time.Minute

var (
	ErrMissingProof    = errors.New("verification token missing")
	ErrProofRejected   = errors.New("verification token rejected")
	ErrProofExpired    = errors.New("verification token expired")
	ErrOriginMismatch  = errors.New("verification origin mismatch")
	ErrGateUnavailable = errors.New("verification provider unavailable")
)

// RejectedError carries the provider's reason codes for a failed proof.
// It matches ErrProofRejected with errors.Is.
type RejectedError struct {
	Codes []string
}

func (e *RejectedError) Error() string {
	if len(e.Codes) == 0 {
		return ErrProofRejected.Error()
	}
	return ErrProofRejected.Error() + ": " + strings.Join(e.Codes, ", ")
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrProofRejected
}

// Verdict is the outcome of one verification, consumed within the request
type Verdict struct {
	Verified      bool
	OriginMatches bool
	IssuedAt      time.Time
	Hostname      string
	ErrorCodes    []string
}

// Gate wraps a Verifier with expiry and origin checks
type Gate struct {
	verifier       Verifier
	expectedOrigin string
	timeout        time.Duration
	now            func() time.Time
}

// NewGate creates a gate. An empty expectedOrigin disables the origin check.
func NewGate(verifier Verifier, expectedOrigin string, timeout time.Duration) *Gate {
	return &Gate{
		verifier:       verifier,
		expectedOrigin: expectedOrigin,
		timeout:        timeout,
		now:            time.Now,
	}
}

// WithClock replaces the gate's time source
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Verify redeems proofToken for the requester at requesterOrigin.
// On failure the returned Verdict is still filled with whatever the provider reported.
func (g *Gate) Verify(ctx context.Context, proofToken, requesterOrigin string) (Verdict, error) {
	if proofToken == "" {
		metrics.VerificationFailuresTotal.WithLabelValues("missing").Inc()
		return Verdict{}, ErrMissingProof
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.verifier.SiteVerify(ctx, proofToken, requesterOrigin)
	if err != nil {
		slog.Error("verification call failed", "error", err)
		metrics.VerificationFailuresTotal.WithLabelValues("unavailable").Inc()
		return Verdict{}, fmt.Errorf("%w: %v", ErrGateUnavailable, err)
	}

	verdict := Verdict{
		Verified:      resp.Success,
		OriginMatches: true,
		Hostname:      resp.Hostname,
		ErrorCodes:    resp.ErrorCodes,
	}

	if !resp.Success {
		slog.Warn("verification rejected", "codes", resp.ErrorCodes)
		metrics.VerificationFailuresTotal.WithLabelValues("rejected").Inc()
		return verdict, &RejectedError{Codes: resp.ErrorCodes}
	}

	if resp.ChallengeTS != "" {
		issuedAt, err := time.Parse(time.RFC3339, resp.ChallengeTS)
		if err != nil {
			slog.Error("unparseable challenge timestamp", "challenge_ts", resp.ChallengeTS)
			metrics.VerificationFailuresTotal.WithLabelValues("unavailable").Inc()
			return verdict, fmt.Errorf("%w: bad challenge_ts %q", ErrGateUnavailable, resp.ChallengeTS)
		}
		verdict.IssuedAt = issuedAt

		if g.now().Sub(issuedAt) > FreshnessWindow {
			metrics.VerificationFailuresTotal.WithLabelValues("expired").Inc()
			return verdict, ErrProofExpired
		}
	}

	if g.expectedOrigin != "" && resp.Hostname != "" && !strings.EqualFold(resp.Hostname, g.expectedOrigin) {
		verdict.OriginMatches = false
		slog.Warn("verification origin mismatch", "hostname", resp.Hostname, "expected", g.expectedOrigin)
		metrics.VerificationFailuresTotal.WithLabelValues("origin").Inc()
		return verdict, ErrOriginMismatch
	}

	return verdict, nil
}
