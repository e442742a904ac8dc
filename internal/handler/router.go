package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paiban/shiftplan/internal/middleware"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// RouterOptions 路由选项
type RouterOptions struct {
	APIKey      string
	Requests    middleware.RequestObserver
	Metrics     http.Handler
	MetricsPath string
	Timeout     time.Duration
	RateLimiter *middleware.RateLimiter
}

// NewRouter 组装中间件和路由
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging(opts.Requests))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "shiftplan"})
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKey(opts.APIKey))
		r.Use(middleware.RateLimit(opts.RateLimiter))
		if opts.Timeout > 0 {
			r.Use(withTimeout(opts.Timeout))
		}

		r.Get("/tools", h.ListTools)
		r.Get("/constraints", h.ListConstraints)
		r.Post("/constraints", h.ResolveConstraints)
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/generate", h.Generate)
			r.Post("/validate", h.Validate)
			r.Post("/score", h.Score)
			r.Post("/explain", h.Explain)
		})
		r.Route("/stats", func(r chi.Router) {
			r.Post("/workload", h.Workload)
			r.Post("/coverage", h.Coverage)
		})
		if h.runs != nil {
			r.Get("/runs", h.ListRuns)
			r.Get("/runs/{id}", h.GetRun)
		}
	})
	return r
}
