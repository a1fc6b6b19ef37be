package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"lendora-backend/internal/infrastructure/cache"
	"lendora-backend/internal/usecase/loan"
)

type Handler struct {
	loans *loan.Usecase
	rdb   *redis.Client
}

func NewHandler(loans *loan.Usecase, rdb *redis.Client) *Handler {
	return &Handler{loans: loans, rdb: rdb}
}

func (h *Handler) Health(c echo.Context) error {
	resp := map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.loans != nil {
		resp["busy"] = h.loans.Busy()
	}
	switch {
	case h.rdb == nil:
		resp["redis"] = "disabled"
	case cache.Healthy(c.Request().Context(), h.rdb, 500*time.Millisecond):
		resp["redis"] = "ok"
	default:
		resp["redis"] = "down"
	}
	return c.JSON(http.StatusOK, resp)
}
