// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the LDR counter API.

# Route Registration

NewRouter builds an http.ServeMux with all endpoints and wraps it with
request IDs and CORS:

	handler := router.NewRouter(svc, cfg)

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus exposition

Counter:

	GET  /counter - Current count
	POST /counter - Register participation

Stories:

	GET  /stories - Latest shared stories
	POST /stories - Submit the survey, optionally sharing one answer

Client:

	GET /client-config - Public reCAPTCHA and Pusher keys

Older clients use /api/counter, /api/get-counter, /api/increment-counter
and /api/submit-survey; these map to the same handlers.

Every API route is wrapped with middleware.WithLogging and
middleware.WithMetrics.
*/
package router
