// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ldr-counter/middleware"
	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/service"
	"github.com/danielhkuo/ldr-counter/verify"
)

const verificationFailed = "Verification failed. Please complete the challenge and try again."

// writeServiceError maps a service error to its status code and body
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rejected   *verify.RejectedError
		cooldown   *service.CooldownError
		validation *service.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validation.Message)

	case errors.Is(err, verify.ErrMissingProof):
		middleware.ErrorResponse(w, http.StatusBadRequest, "captchaToken is required")

	case errors.As(err, &rejected):
		middleware.JSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Message: verificationFailed,
			Codes:   rejected.Codes,
		})

	case errors.Is(err, verify.ErrProofExpired), errors.Is(err, verify.ErrOriginMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, verificationFailed)

	case errors.As(err, &cooldown):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(cooldown.RetryAt)))
		middleware.ErrorResponse(w, http.StatusTooManyRequests, cooldownMessage(cooldown))

	default:
		slog.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
	}
}

func cooldownMessage(e *service.CooldownError) string {
	prefix := "You have already participated."
	if errors.Is(e, service.ErrAlreadySubmitted) {
		prefix = "You have already submitted a response."
	}
	return prefix + " Try again " + humanize.Time(e.RetryAt) + "."
}

func retryAfterSeconds(at time.Time) int {
	secs := int(math.Ceil(time.Until(at).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
