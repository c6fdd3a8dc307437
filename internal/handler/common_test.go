package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/middleware"
)

func TestOwnerOrRole(t *testing.T) {
	owner := middleware.Identity{ID: 7, Role: "user"}
	stranger := middleware.Identity{ID: 8, Role: "user"}
	admin := middleware.Identity{ID: 9, Role: "admin"}

	if !ownerOrRole(7, owner) {
		t.Fatalf("owner must pass without privileged roles")
	}
	if ownerOrRole(7, stranger) {
		t.Fatalf("non-owner must fail without privileged roles")
	}
	if ownerOrRole(7, stranger, "admin") {
		t.Fatalf("non-owner without the role must fail")
	}
	if !ownerOrRole(7, admin, "admin") {
		t.Fatalf("admin must pass when admin is privileged")
	}
	if ownerOrRole(7, admin) {
		t.Fatalf("admin must fail when no role is privileged")
	}
}

func TestParsePagination(t *testing.T) {
	e := echo.New()
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-2&limit=-5", 1, 20},
		{"page=2&limit=500", 2, 100},
		{"page=abc&limit=xyz", 1, 20},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/api/jobs?"+tc.query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		page, limit := parsePagination(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("query %q: got page=%d limit=%d, want page=%d limit=%d",
				tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
