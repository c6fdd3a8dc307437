package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pocket-jobs/internal/config"
	"github.com/iliyamo/pocket-jobs/internal/repository"
	"github.com/iliyamo/pocket-jobs/internal/utils"
)

type stubUserStore struct {
	users map[string]repository.User // keyed by email
}

func (s *stubUserStore) Create(context.Context, string, string, string, string, string, int) (uint64, error) {
	return 0, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := s.users[email]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id uint64) (repository.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (s *stubUserStore) UpdateProfile(context.Context, uint64, *string, *string, *string) (repository.User, error) {
	return repository.User{}, nil
}

func (s *stubUserStore) UpdatePassword(context.Context, uint64, string) error { return nil }
func (s *stubUserStore) Delete(context.Context, uint64) error                 { return nil }

type stubSessionStore struct {
	rows   map[uint64]repository.Session
	nextID uint64
}

func newStubSessions() *stubSessionStore {
	return &stubSessionStore{rows: map[uint64]repository.Session{}}
}

func (s *stubSessionStore) Create(_ context.Context, userID uint64, token, refreshToken string, expiresAt time.Time) error {
	s.nextID++
	s.rows[s.nextID] = repository.Session{
		ID: s.nextID, UserID: userID, Token: token, RefreshToken: refreshToken, ExpiresAt: expiresAt,
	}
	return nil
}

func (s *stubSessionStore) FindByRefresh(_ context.Context, refreshToken string, userID uint64) (repository.Session, error) {
	for _, row := range s.rows {
		if row.RefreshToken == refreshToken && row.UserID == userID {
			return row, nil
		}
	}
	return repository.Session{}, repository.ErrSessionNotFound
}

func (s *stubSessionStore) Rotate(_ context.Context, id uint64, token, refreshToken string, expiresAt time.Time) error {
	row := s.rows[id]
	row.Token, row.RefreshToken, row.ExpiresAt = token, refreshToken, expiresAt
	s.rows[id] = row
	return nil
}

func (s *stubSessionStore) DeleteByToken(_ context.Context, token string) error {
	for id, row := range s.rows {
		if row.Token == token {
			delete(s.rows, id)
		}
	}
	return nil
}

func (s *stubSessionStore) DeleteByID(_ context.Context, id uint64) error {
	delete(s.rows, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTLDays:    7,
		RefreshTTLDays:   30,
		BcryptCost:       4,
	}
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// A banned account is rejected at login even when the password is correct.
func TestLoginBannedAccount(t *testing.T) {
	hash, err := utils.HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	users := &stubUserStore{users: map[string]repository.User{
		"banned@example.com": {
			ID: 3, Email: "banned@example.com", PasswordHash: hash,
			FirstName: "B", LastName: "User", Role: "user", IsBanned: true,
		},
	}}
	h := NewAuthHandler(testConfig(), users, newStubSessions())

	rec := postJSON(t, h.Login, "/api/auth/login",
		`{"email":"banned@example.com","password":"secret123"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "account banned") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// Refreshing against an expired session reports the expiry and deletes the
// row, so a retry with the same token is rejected as invalid.
func TestRefreshExpiredSessionDeletesRow(t *testing.T) {
	cfg := testConfig()
	refresh, err := utils.NewToken(cfg.JWTRefreshSecret, 42, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	sessions := newStubSessions()
	sessions.rows[1] = repository.Session{
		ID: 1, UserID: 42, Token: "old-access", RefreshToken: refresh.Token,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	h := NewAuthHandler(cfg, &stubUserStore{}, sessions)
	body := `{"refreshToken":"` + refresh.Token + `"}`

	rec := postJSON(t, h.Refresh, "/api/auth/refresh", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "refresh token expired") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if len(sessions.rows) != 0 {
		t.Fatalf("expired session row not deleted")
	}

	rec = postJSON(t, h.Refresh, "/api/auth/refresh", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("retry: expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid refresh token") {
		t.Fatalf("retry should be invalid, got: %s", rec.Body.String())
	}
}

// A valid refresh rotates the session row in place rather than inserting a
// second one.
func TestRefreshRotatesInPlace(t *testing.T) {
	cfg := testConfig()
	refresh, err := utils.NewToken(cfg.JWTRefreshSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	sessions := newStubSessions()
	sessions.rows[1] = repository.Session{
		ID: 1, UserID: 42, Token: "old-access", RefreshToken: refresh.Token,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	h := NewAuthHandler(cfg, &stubUserStore{}, sessions)

	rec := postJSON(t, h.Refresh, "/api/auth/refresh", `{"refreshToken":"`+refresh.Token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(sessions.rows) != 1 {
		t.Fatalf("expected one session row after rotation, got %d", len(sessions.rows))
	}
	row := sessions.rows[1]
	if row.RefreshToken == refresh.Token || row.Token == "old-access" {
		t.Fatalf("session row was not rotated")
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" || envelope.Data.RefreshToken != row.RefreshToken {
		t.Fatalf("response does not carry the rotated pair")
	}
}
