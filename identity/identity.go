// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// Unknown is used when the transport supplies no client address
const Unknown = "unknown"

// FromRequest derives the requester identity.
// Checks X-Forwarded-For (first hop), then X-Real-IP, then falls back to Unknown.
func FromRequest(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	// Check X-Real-IP (nginx)
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return Unknown
}

// Hash creates a one-way hash of an identity for storage
// Includes salt to prevent rainbow table attacks on IP addresses
func Hash(id, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}
