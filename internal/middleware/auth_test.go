package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

type stubUsers struct {
	users map[uint64]repository.User
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (repository.User, error) {
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

func runAuth(t *testing.T, secret, header string, users UserFinder) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(secret, users)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c
}

func TestJWTAuthResolvesIdentity(t *testing.T) {
	users := &stubUsers{users: map[uint64]repository.User{
		5: {ID: 5, Email: "a@b.c", FirstName: "Ada", LastName: "L", Role: "user"},
	}}
	tok, err := utils.NewToken("s3cret", 5, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	rec, c := runAuth(t, "s3cret", "Bearer "+tok.Token, users)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	ident, ok := IdentityFrom(c)
	if !ok {
		t.Fatalf("identity not attached")
	}
	if ident.ID != 5 || ident.Email != "a@b.c" || ident.Role != "user" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, "s3cret", "", &stubUsers{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	rec, _ := runAuth(t, "s3cret", "Token abc", &stubUsers{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewToken("s3cret", 5, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	rec, _ := runAuth(t, "s3cret", "Bearer "+tok.Token, &stubUsers{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthDeletedUser(t *testing.T) {
	tok, err := utils.NewToken("s3cret", 99, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	rec, _ := runAuth(t, "s3cret", "Bearer "+tok.Token, &stubUsers{users: map[uint64]repository.User{}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
