package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

const dashboardCacheKey = "dashboard:counts"

// DashboardHandler serves aggregate counts for the main dashboard. A
// background warmer refreshes the Redis copy on a timer; requests read
// the cached copy and only hit the database when Redis is cold or down.
type DashboardHandler struct {
	Dash *repository.DashboardRepo
	RDB  *redis.Client
	TTL  time.Duration
}

func NewDashboardHandler(dash *repository.DashboardRepo, rdb *redis.Client, ttl time.Duration) *DashboardHandler {
	if dash == nil {
		panic("nil repository passed to NewDashboardHandler")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardHandler{Dash: dash, RDB: rdb, TTL: ttl}
}

// Get handles GET /v1/dashboard.
func (h *DashboardHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	if h.RDB != nil {
		if bs, err := h.RDB.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var counts model.DashboardCounts
			if json.Unmarshal(bs, &counts) == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSON(http.StatusOK, counts)
			}
		}
	}

	counts, err := h.Warm(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSON(http.StatusOK, counts)
}

// Warm re-reads the aggregates from the database and refreshes the Redis
// copy. The cache TTL is twice the refresh interval so a slow warmer
// does not leave requests without a cached value.
func (h *DashboardHandler) Warm(ctx context.Context) (*model.DashboardCounts, error) {
	counts, err := h.Dash.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if h.RDB != nil {
		if bs, err := json.Marshal(counts); err == nil {
			_ = h.RDB.SetEx(ctx, dashboardCacheKey, bs, 2*h.TTL).Err()
		}
	}
	return counts, nil
}
