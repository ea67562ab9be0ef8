// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs

	handler := middleware.WithRequestID(mux)

Reuses an incoming X-Request-ID header (up to 128 bytes) or generates a
UUID, stores it in the request context and echoes it on the response.

# Request Logging

	mux.HandleFunc("GET /counter", middleware.WithLogging(handler))

Logs request start (method, path, request_id) and completion (status,
duration_ms).

# Metrics

	mux.HandleFunc("GET /counter", middleware.WithMetrics("counter", handler))

Records http_requests_total and http_request_duration_seconds.

# CORS Middleware

Reflects the request Origin and exposes Retry-After and X-Request-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody decodes at most MaxBodyBytes. ParseOptionalJSONBody also
accepts an empty body.
*/
package middleware
