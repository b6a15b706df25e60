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

// AdminRepository implements persistence.AdminRepository using SQLite.
type AdminRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAdminRepository creates a new SQLite admin repository.
func NewAdminRepository(pool *ConnectionPool) *AdminRepository {
	return &AdminRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateAdmin inserts a new admin account.
func (r *AdminRepository) CreateAdmin(ctx context.Context, admin persistence.AdminUser) error {
	if admin.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if admin.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	query := `
		INSERT INTO admin_users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		admin.ID,
		normalizeEmail(admin.Email),
		admin.PasswordHash,
		admin.CreatedAt.Format(time.RFC3339),
		admin.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetAdminByEmail retrieves an admin account by email address.
func (r *AdminRepository) GetAdminByEmail(ctx context.Context, email string) (persistence.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, created_at, updated_at
		FROM admin_users
		WHERE email = ?
	`

	var (
		admin        persistence.AdminUser
		createdAtStr string
		updatedAtStr string
	)

	err := r.helper.QueryRow(ctx, query, normalizeEmail(email)).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.AdminUser{}, persistence.ErrNotFound
		}
		return persistence.AdminUser{}, r.mapper.MapError(err)
	}

	if admin.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.AdminUser{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if admin.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.AdminUser{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
