// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ldr-counter/identity"
	"github.com/danielhkuo/ldr-counter/middleware"
	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/service"
)

type StoryHandler struct {
	svc *service.Service
}

func NewStoryHandler(svc *service.Service) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// GetStories handles GET /stories
func (h *StoryHandler) GetStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.svc.Stories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StoriesResponse{
		Stories: models.StoryViews(stories),
	})
}

// PostStories handles POST /stories
func (h *StoryHandler) PostStories(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.svc.SubmitStory(r.Context(), service.StoryRequest{
		ProofToken:      req.CaptchaToken,
		RequesterOrigin: identity.FromRequest(r),
		Answers:         req.Answers,
		ShareStory:      req.ShareStory,
		SelectedPrompt:  req.SelectedQuestion,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("survey submitted", "shared", req.ShareStory, "request_id", middleware.RequestID(r.Context()))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitSurveyResponse{Success: true})
}
