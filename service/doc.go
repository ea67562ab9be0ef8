// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package service composes verification, the cooldown ledger, the counter,
the story store and broadcasting into the two public actions.

# RegisterParticipation

	gate → ledger (24h per identity) → counter increment → broadcast counter

# SubmitStory

	validate → gate → ledger (24h per identity) → [append story → broadcast feed] → counter increment → broadcast counter

A survey counts once. The increment after a successful submission reuses
the verification and reservation already made instead of passing through
the gate again; that path is unexported and cannot be selected by a
request.

# Failure Policy

Steps run strictly in order. The ledger is reserved before anything is
written, and a later failure does not release it: a failed request can
under-count but never double-count. Broadcast failures are logged only.

# Errors

  - verify.ErrMissingProof, ErrProofRejected, ErrProofExpired,
    ErrOriginMismatch, ErrGateUnavailable (from the gate, unchanged)
  - ErrAlreadyParticipated / ErrAlreadySubmitted inside *CooldownError
  - ErrValidation inside *ValidationError
  - ErrStoreUnavailable
*/
package service
