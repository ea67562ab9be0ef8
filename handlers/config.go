// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ldr-counter/cliparse"
	"github.com/danielhkuo/ldr-counter/middleware"
	"github.com/danielhkuo/ldr-counter/models"
)

type ConfigHandler struct {
	cfg cliparse.Config
}

func NewConfigHandler(cfg cliparse.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GetClientConfig handles GET /client-config. Only public keys are returned.
func (h *ConfigHandler) GetClientConfig(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ClientConfigResponse{
		RecaptchaSiteKey: h.cfg.RecaptchaSiteKey,
		PusherKey:        h.cfg.PusherKey,
		PusherCluster:    h.cfg.PusherCluster,
	})
}
