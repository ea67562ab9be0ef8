// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package verify checks human-verification proofs.

# Provider

RecaptchaClient posts the token, the secret and the requester address to
the siteverify endpoint:

	client := verify.NewRecaptchaClient(secret, cliparse.DefaultVerifyURL, 5*time.Second)

Any transport failure, non-200 status or undecodable body is an error.

# Gate

Gate turns a provider answer into a Verdict or one of:

  - ErrMissingProof: empty token
  - ErrProofRejected: provider said no (RejectedError carries the codes)
  - ErrProofExpired: challenge older than FreshnessWindow (2 minutes)
  - ErrOriginMismatch: provider hostname differs from the expected one
  - ErrGateUnavailable: the provider could not be reached or understood

	gate := verify.NewGate(client, "example.com", 5*time.Second)
	verdict, err := gate.Verify(ctx, token, requesterIP)

The gate has no side effects and never retries.
*/
package verify
