package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkpost/inkpost-go/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists login sessions keyed by their opaque token.
// Expired rows are treated as absent and removed by DeleteExpired.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	query := `INSERT INTO sessions (token, user_id, user_name, user_email, expires_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.Token, s.UserID, s.UserName, s.UserEmail, s.ExpiresAt,
	)
	return err
}

// Get retrieves a live session by token. Expired sessions are not returned.
func (r *SessionRepository) Get(ctx context.Context, token string) (*model.Session, error) {
	query := `SELECT token, user_id, user_name, user_email, created_at, expires_at
		FROM sessions WHERE token = ? AND expires_at > ?`

	s := &model.Session{}
	err := r.db.QueryRowContext(ctx, query, token, time.Now().UTC()).Scan(
		&s.Token, &s.UserID, &s.UserName, &s.UserEmail, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s, nil
}

// Delete removes a session. Deleting an unknown token is not an error,
// which makes logout idempotent.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpired removes sessions past their absolute lifetime and reports
// how many rows were swept.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
