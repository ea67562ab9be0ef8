// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/ldr-counter/cliparse"
	"github.com/danielhkuo/ldr-counter/db"
	"github.com/danielhkuo/ldr-counter/verify"
)

// SetupTestDB creates a fresh SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DatabaseSQLite, filepath.Join(t.TempDir(), "ldr-test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupPostgresDB connects to TEST_POSTGRES_URL with the full schema and
// empty tables. Skips the test when the variable is unset.
func SetupPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	conn, err := db.Open(db.DatabasePostgres, url)
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	for _, stmt := range []string{
		"DELETE FROM submission",
		"DELETE FROM story",
		"UPDATE counters SET count = 0",
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to reset %q: %v", stmt, err)
		}
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      "file:ldr-test.db",
		DatabaseType:     db.DatabaseSQLite,
		LogLevel:         "info",
		RecaptchaSecret:  "test-secret",
		RecaptchaSiteKey: "test-site-key",
		ExpectedHostname: "ldr.test",
		VerifyURL:        cliparse.DefaultVerifyURL,
		VerifyTimeout:    time.Second,
		StoreTimeout:     time.Second,
		PusherAppID:      "test-app",
		PusherKey:        "test-key",
		PusherSecret:     "test-pusher-secret",
		PusherCluster:    "us2",
		PusherUseTLS:     true,
		PublishTimeout:   time.Second,
		IdentitySalt:     "test-identity-salt",
	}
}

// StubVerifier answers every token from a fixed table.
// Tokens not in the table are rejected with "invalid-input-response".
type StubVerifier struct {
	mu        sync.Mutex
	responses map[string]*verify.SiteVerifyResponse
	calls     int
}

func NewStubVerifier() *StubVerifier {
	return &StubVerifier{responses: map[string]*verify.SiteVerifyResponse{}}
}

// Accept registers token as valid for hostname "ldr.test", issued now
func (s *StubVerifier) Accept(token string) *StubVerifier {
	return s.Respond(token, &verify.SiteVerifyResponse{
		Success:     true,
		ChallengeTS: time.Now().UTC().Format(time.RFC3339),
		Hostname:    "ldr.test",
	})
}

func (s *StubVerifier) Respond(token string, resp *verify.SiteVerifyResponse) *StubVerifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[token] = resp
	return s
}

func (s *StubVerifier) SiteVerify(ctx context.Context, token, remoteIP string) (*verify.SiteVerifyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if resp, ok := s.responses[token]; ok {
		return resp, nil
	}
	return &verify.SiteVerifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}}, nil
}

// Calls returns how many times the provider was contacted
func (s *StubVerifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Event is one recorded broadcast
type Event struct {
	Channel string
	Name    string
	Data    interface{}
}

// RecordingTrigger captures broadcasts instead of sending them.
// Set Err to make every Trigger fail.
type RecordingTrigger struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *RecordingTrigger) Trigger(channel string, eventName string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Channel: channel, Name: eventName, Data: data})
	return r.Err
}

// Events returns a copy of everything triggered so far
func (r *RecordingTrigger) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OnChannel returns the recorded events for one channel
func (r *RecordingTrigger) OnChannel(channel string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
