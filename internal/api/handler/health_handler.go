package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler exposes the liveness and readiness probes.
type HealthHandler struct {
	db  *mongo.Database
	rdb *redis.Client
}

func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Liveness reports that the process is up. No dependencies are touched.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness pings Mongo and Redis. Redis degradation is reported but does not
// fail the probe: the login throttle fails open, so the API stays usable.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{"mongo": "ok", "redis": "ok"}
	status := http.StatusOK

	if err := h.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		deps["mongo"] = "down"
		status = http.StatusServiceUnavailable
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = "degraded"
		}
	}

	return c.JSON(status, map[string]any{
		"status":       httpStatusWord(status),
		"dependencies": deps,
	})
}

func httpStatusWord(status int) string {
	if status == http.StatusOK {
		return "ready"
	}
	return "not_ready"
}
