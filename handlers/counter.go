// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ldr-counter/identity"
	"github.com/danielhkuo/ldr-counter/middleware"
	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/service"
)

type CounterHandler struct {
	svc *service.Service
}

func NewCounterHandler(svc *service.Service) *CounterHandler {
	return &CounterHandler{svc: svc}
}

// GetCounter handles GET /counter
func (h *CounterHandler) GetCounter(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Count(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CounterResponse{Count: count})
}

// PostCounter handles POST /counter. The body is optional; without a token
// the request fails verification.
func (h *CounterHandler) PostCounter(w http.ResponseWriter, r *http.Request) {
	var req models.IncrementCounterRequest
	if err := middleware.ParseOptionalJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	count, err := h.svc.RegisterParticipation(r.Context(), service.ParticipationRequest{
		ProofToken:      req.CaptchaToken,
		RequesterOrigin: identity.FromRequest(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.IncrementCounterResponse{
		Success: true,
		Count:   count,
	})
}
