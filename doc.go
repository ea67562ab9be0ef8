// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the LDR counter API server.

The server keeps a shared counter of people in long-distance relationships,
collects an anonymous survey and shows a feed of shared stories. Every
write is gated by reCAPTCHA and limited to once per 24 hours per requester.
New counts and stories are pushed to browsers over Pusher Channels.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... RECAPTCHA_SECRET_KEY=... go run .

Or with flags:

	go run . -p 3318 -d ldr.db -t sqlite

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file path
  - RECAPTCHA_SECRET_KEY, RECAPTCHA_SITE_KEY: verification keys
  - PUSHER_APP_ID, PUSHER_KEY, PUSHER_SECRET, PUSHER_CLUSTER: broadcast credentials
  - IDENTITY_SALT: Secret for hashing requester addresses

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (inferred from the URL)
  - EXPECTED_HOSTNAME: hostname verification tokens must be issued for
  - VERIFY_TIMEOUT, STORE_TIMEOUT: per-call deadlines (default: 5s)
  - LOG_LEVEL: debug, info, warn or error

# Architecture

  - handlers: HTTP request handlers (counter, stories, client config)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request IDs, metrics, JSON helpers
  - service: Participation and survey orchestration
  - verify: reCAPTCHA verification gate
  - store: Counter, cooldown ledger and story storage
  - broadcast: Pusher publishing
  - identity: Requester identity and hashing
  - metrics: Prometheus collectors
  - models: Request/response types
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
