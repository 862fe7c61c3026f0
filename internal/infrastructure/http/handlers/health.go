package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves /health with optional DB and Redis checks. Without either
// (in-memory mode) it always reports ok.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis redis.UniversalClient
}

// NewHealthHandler creates a health handler; pool and redisClient may be nil.
func NewHealthHandler(pool *pgxpool.Pool, redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true
	check := func(name string, err error) {
		if err != nil {
			checks[name] = "down: " + err.Error()
			allOK = false
			return
		}
		checks[name] = "ok"
	}
	if h.pool != nil {
		check("database", h.pool.Ping(ctx))
	}
	if h.redis != nil {
		check("redis", h.redis.Ping(ctx).Err())
	}

	if !allOK {
		writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Checks:  checks,
			Message: "one or more checks failed",
		})
		return
	}
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}
