package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Session mirrors the 'sessions' table.  One row per issued token pair;
// a user may hold several concurrent sessions across devices.
type Session struct {
	ID           uint64
	UserID       uint64
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

var ErrSessionNotFound = errors.New("session not found")

// Create inserts a session row for a freshly issued token pair.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, token, refreshToken string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, refresh_token, expires_at) VALUES (?,?,?,?)",
		userID, token, refreshToken, expiresAt)
	return err
}

// FindByRefresh returns the session matching a refresh token and its owning
// user.  A refresh token maps to exactly one session row.
func (r *SessionRepo) FindByRefresh(ctx context.Context, refreshToken string, userID uint64) (Session, error) {
	var s Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,refresh_token,expires_at,created_at FROM sessions WHERE refresh_token=? AND user_id=? LIMIT 1",
		refreshToken, userID).
		Scan(&s.ID, &s.UserID, &s.Token, &s.RefreshToken, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrSessionNotFound
	}
	return s, err
}

// Rotate overwrites a session in place with a new token pair and expiry.
func (r *SessionRepo) Rotate(ctx context.Context, id uint64, token, refreshToken string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET token=?, refresh_token=?, expires_at=? WHERE id=?",
		token, refreshToken, expiresAt, id)
	return err
}

// DeleteByToken removes the session carrying the given access token.  Used
// by logout; deleting a token that no longer exists is not an error.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token=?", token)
	return err
}

// DeleteByID removes a single session row, e.g. when refresh detects expiry.
func (r *SessionRepo) DeleteByID(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}
