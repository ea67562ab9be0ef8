// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Values are resolved in order: CLI flag, environment variable, .env file,
default. The .env file is read with godotenv and never overrides variables
that are already set. Use -env-file to point at a different file.

# CLI Flags and Environment Variables

	-p                   PORT                  (default 3318)
	-d                   DATABASE_URL          (required)
	-t                   DATABASE_TYPE         (postgres or sqlite; inferred from URL)
	-log-level           LOG_LEVEL             (default info)
	-recaptcha-secret    RECAPTCHA_SECRET_KEY  (required)
	-recaptcha-site-key  RECAPTCHA_SITE_KEY    (required)
	-expected-hostname   EXPECTED_HOSTNAME     (empty skips the hostname check)
	-verify-url          RECAPTCHA_VERIFY_URL  (default Google siteverify)
	-verify-timeout      VERIFY_TIMEOUT        (default 5s)
	-store-timeout       STORE_TIMEOUT         (default 5s)
	-pusher-app-id       PUSHER_APP_ID         (required)
	-pusher-key          PUSHER_KEY            (required)
	-pusher-secret       PUSHER_SECRET         (required)
	-pusher-cluster      PUSHER_CLUSTER        (required)
	-pusher-tls          PUSHER_USE_TLS        (default true)
	-publish-timeout     PUBLISH_TIMEOUT       (default 5s)
	-identity-salt       IDENTITY_SALT         (required)

# Validation

ParseFlags returns an error naming the first missing secret. There is no
fallback that disables human verification or broadcasting.
*/
package cliparse
