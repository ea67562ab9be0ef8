// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:    "single forwarded address",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:    "1.2.3.4",
		},
		{
			name:    "forwarded chain takes first hop",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1, 10.0.0.2"},
			want:    "1.2.3.4",
		},
		{
			name:    "forwarded wins over real ip",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "5.6.7.8"},
			want:    "1.2.3.4",
		},
		{
			name:    "real ip",
			headers: map[string]string{"X-Real-IP": "5.6.7.8"},
			want:    "5.6.7.8",
		},
		{
			name:    "blank forwarded falls through",
			headers: map[string]string{"X-Forwarded-For": " , 10.0.0.1", "X-Real-IP": "5.6.7.8"},
			want:    "5.6.7.8",
		},
		{
			name:       "no headers ignores remote addr",
			remoteAddr: "9.9.9.9:1234",
			want:       Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := FromRequest(req); got != tt.want {
				t.Errorf("FromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash("1.2.3.4", "salt")

	if len(h1) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h1))
	}

	// Should be deterministic
	if h1 != Hash("1.2.3.4", "salt") {
		t.Error("Hash() is not deterministic")
	}

	if h1 == Hash("1.2.3.5", "salt") {
		t.Error("Hash() produced same value for different identities")
	}

	if h1 == Hash("1.2.3.4", "other-salt") {
		t.Error("Hash() produced same value for different salts")
	}

	if h1 == "1.2.3.4" {
		t.Error("Hash() returned the raw identity")
	}
}
