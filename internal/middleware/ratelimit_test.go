package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pocket-jobs/internal/config"
)

func runLimited(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RateLimit(cfg, rdb)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// A window shorter than one second must be rounded up, not divide the epoch
// bucket by zero.  The client points at a closed port so Redis errors and
// the limiter fails open.
func TestRateLimitSubSecondWindow(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()

	cfg := config.RateLimitConfig{
		Enabled:     true,
		Window:      500 * time.Millisecond,
		MaxRequests: 10,
		Prefix:      "rl",
	}
	rec := runLimited(t, cfg, rdb)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200, got %d", rec.Code)
	}
}

func TestRateLimitDisabledPassthrough(t *testing.T) {
	rec := runLimited(t, config.RateLimitConfig{Enabled: false}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
