package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// An empty or whitespace-only query must be rejected before any store
// access, so a nil repository is safe here.
func TestSearchRequiresQuery(t *testing.T) {
	e := echo.New()
	h := NewSearchHandler(nil)

	for _, q := range []string{"", "q=", "q=%20%20"} {
		req := httptest.NewRequest("GET", "/api/search?"+q, nil)
		rec := httptest.NewRecorder()
		if err := h.Search(e.NewContext(req, rec)); err != nil {
			t.Fatalf("query %q: unexpected error: %v", q, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q: got status %d, want %d", q, rec.Code, http.StatusBadRequest)
		}
		if !strings.Contains(rec.Body.String(), `"success":false`) {
			t.Fatalf("query %q: expected error envelope, got %s", q, rec.Body.String())
		}
	}
}
