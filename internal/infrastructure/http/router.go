package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/handlers"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	HealthHandler        *handlers.HealthHandler
	RequestsHandler      *handlers.RequestsHandler
	DocumentsHandler     *handlers.DocumentsHandler
	ClientsHandler       *handlers.ClientsHandler
	NotificationsHandler *handlers.NotificationsHandler
	DashboardHandler     *handlers.DashboardHandler
	UsersHandler         *handlers.UsersHandler
	AdminHandler         *handlers.AdminHandler
	Authenticator        *middleware.Authenticator
	RequireAdmin         func(http.Handler) http.Handler // X-Portal-Admin-Secret for /admin/*
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	CORS                 func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	TenantRateLimit      func(http.Handler) http.Handler
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]string{"status": "ok"})
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	authn := cfg.Authenticator.Handler
	internalOnly := middleware.RequireRoles(domain.RoleAdmin, domain.RoleStaff)
	tenantLimit := cfg.TenantRateLimit
	if tenantLimit == nil {
		tenantLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(chimid.AllowContentType("application/json"))
		r.Post("/login", cfg.AuthHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(authn, tenantLimit)
			r.Get("/me", cfg.AuthHandler.Me)
			r.With(internalOnly).Post("/register", cfg.AuthHandler.Register)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authn, tenantLimit)

		if cfg.RequestsHandler != nil {
			r.Route("/requests", func(r chi.Router) {
				r.Use(chimid.AllowContentType("application/json"))
				r.Get("/", cfg.RequestsHandler.List)
				r.Post("/", cfg.RequestsHandler.Create)
				r.Get("/{id}", cfg.RequestsHandler.Get)
				r.Post("/{id}/comments", cfg.RequestsHandler.AddComment)
				r.With(internalOnly).Patch("/{id}/status", cfg.RequestsHandler.UpdateStatus)
			})
		}
		if cfg.DocumentsHandler != nil {
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", cfg.DocumentsHandler.List)
				r.With(internalOnly, chimid.AllowContentType("multipart/form-data")).Post("/", cfg.DocumentsHandler.Upload)
				r.Get("/{id}", cfg.DocumentsHandler.Get)
				r.Get("/{id}/download", cfg.DocumentsHandler.Download)
			})
		}
		if cfg.ClientsHandler != nil {
			r.Route("/clients", func(r chi.Router) {
				r.Use(internalOnly, chimid.AllowContentType("application/json"))
				r.Get("/", cfg.ClientsHandler.List)
				r.Post("/", cfg.ClientsHandler.Create)
				r.Get("/{id}", cfg.ClientsHandler.Get)
				r.Put("/{id}", cfg.ClientsHandler.Update)
				r.Delete("/{id}", cfg.ClientsHandler.Deactivate)
			})
		}
		if cfg.NotificationsHandler != nil {
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", cfg.NotificationsHandler.List)
				r.Get("/unread/count", cfg.NotificationsHandler.UnreadCount)
				r.Get("/{id}", cfg.NotificationsHandler.Get)
				r.Post("/{id}/read", cfg.NotificationsHandler.MarkRead)
			})
		}
		if cfg.DashboardHandler != nil {
			r.Get("/dashboard/stats", cfg.DashboardHandler.Stats)
		}
		if cfg.UsersHandler != nil {
			r.With(middleware.RequireRoles(domain.RoleAdmin), chimid.AllowContentType("application/json")).
				Patch("/users/{id}", cfg.UsersHandler.Update)
		}
	})

	if cfg.AdminHandler != nil && cfg.RequireAdmin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.RequireAdmin, chimid.AllowContentType("application/json"))
			r.Post("/users", cfg.AdminHandler.ProvisionUser)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", chimid.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
