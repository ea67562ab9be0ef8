// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity derives and anonymizes requester identities.

# Derivation

	id := identity.FromRequest(r)

Uses the first X-Forwarded-For hop, then X-Real-IP, then the literal
"unknown". The raw value is forwarded to the human-verification provider
and never stored.

# Hashing

	key := identity.Hash(id, salt)

HMAC-SHA256, hex encoded. The submission ledger is keyed by this value.
*/
package identity
