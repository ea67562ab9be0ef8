// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the LDR counter API.

# Handler Types

  - CounterHandler: read and increment the shared counter
  - StoryHandler: story feed and survey submission
  - ConfigHandler: public client keys

Counter and story handlers wrap a *service.Service:

	counterHandler := handlers.NewCounterHandler(svc)

# Endpoints

	GET  /counter        → { count }
	POST /counter        → { success, count }      body { captchaToken? }
	GET  /stories        → { stories: [...] }      at most six, newest first
	POST /stories        → { success }             body { answers, shareStory, selectedQuestion?, captchaToken }
	GET  /client-config  → { recaptchaSiteKey, pusherKey, pusherCluster }

The requester identity is taken from X-Forwarded-For or X-Real-IP.

# Status Codes

	400  invalid JSON, invalid story, missing or failed verification
	429  cooldown active; Retry-After is set in seconds
	500  verification provider or storage unavailable

Rejected verifications include the provider's reason codes in "codes".
*/
package handlers
