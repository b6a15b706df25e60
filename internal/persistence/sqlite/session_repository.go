package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Molina8/bodamariayaitor/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSession stores a new session token for an admin user.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.AdminID == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(session.Token) == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO sessions (id, admin_id, token, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		session.ID,
		session.AdminID,
		session.Token,
		session.ExpiresAt.Format(time.RFC3339),
		nullableTime(session.RevokedAt),
		session.CreatedAt.Format(time.RFC3339),
		session.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}

	return session, nil
}

// GetSession retrieves a session by its token value.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, admin_id, token, expires_at, revoked_at, created_at, updated_at
		FROM sessions
		WHERE token = ?
	`

	var (
		session      persistence.Session
		expiresAtStr string
		revokedAt    sql.NullString
		createdAtStr string
		updatedAtStr string
	)

	err := r.helper.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.AdminID,
		&session.Token,
		&expiresAtStr,
		&revokedAt,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return persistence.Session{}, r.mapper.MapError(err)
	}

	if revokedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, revokedAt.String)
		if err != nil {
			return persistence.Session{}, fmt.Errorf("failed to parse revoked_at: %w", err)
		}
		session.RevokedAt = &parsed
	}
	if session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if session.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return session, nil
}

// RevokeSession marks a session as revoked without deleting the row.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		UPDATE sessions
		SET revoked_at = ?, updated_at = ?
		WHERE token = ? AND revoked_at IS NULL
	`

	now := time.Now().UTC()
	result, err := r.helper.Exec(ctx, query,
		revokedAt.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339),
		token,
	)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.Session{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.Session{}, persistence.ErrNotFound
	}

	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions removes sessions whose expiry predates the reference time.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	query := `DELETE FROM sessions WHERE expires_at < ?`

	if _, err := r.helper.Exec(ctx, query, reference.UTC().Format(time.RFC3339)); err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func nullableTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.UTC().Format(time.RFC3339), Valid: true}
}
