// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ldr-counter/cliparse"
	"github.com/danielhkuo/ldr-counter/handlers"
	"github.com/danielhkuo/ldr-counter/middleware"
	"github.com/danielhkuo/ldr-counter/service"
)

// instrument applies request logging and metrics under the given name
func instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	return middleware.WithLogging(middleware.WithMetrics(name, h))
}

func NewRouter(svc *service.Service, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	counterHandler := handlers.NewCounterHandler(svc)
	storyHandler := handlers.NewStoryHandler(svc)
	configHandler := handlers.NewConfigHandler(cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Counter
	mux.HandleFunc("GET /counter", instrument("get_counter", counterHandler.GetCounter))
	mux.HandleFunc("POST /counter", instrument("post_counter", counterHandler.PostCounter))

	// Stories and survey submission
	mux.HandleFunc("GET /stories", instrument("get_stories", storyHandler.GetStories))
	mux.HandleFunc("POST /stories", instrument("post_stories", storyHandler.PostStories))

	mux.HandleFunc("GET /client-config", instrument("client_config", configHandler.GetClientConfig))

	// Legacy route names still used by deployed clients
	mux.HandleFunc("GET /api/counter", instrument("get_counter", counterHandler.GetCounter))
	mux.HandleFunc("POST /api/counter", instrument("post_counter", counterHandler.PostCounter))
	mux.HandleFunc("GET /api/get-counter", instrument("get_counter", counterHandler.GetCounter))
	mux.HandleFunc("POST /api/increment-counter", instrument("post_counter", counterHandler.PostCounter))
	mux.HandleFunc("GET /api/submit-survey", instrument("get_stories", storyHandler.GetStories))
	mux.HandleFunc("POST /api/submit-survey", instrument("post_stories", storyHandler.PostStories))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ldr-counter API v1"))
	})

	return middleware.WithRequestID(middleware.CORS(mux))
}
