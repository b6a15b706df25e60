package persistence

import (
	"context"
	"time"
)

// GuestRepository stores RSVP submissions. Guests are insert-only: the site
// offers no edit or delete flow once a submission has been accepted.
type GuestRepository interface {
	CreateGuest(ctx context.Context, guest Guest) (Guest, error)
	GetGuestBySubmissionKey(ctx context.Context, key string) (Guest, error)
	ListGuests(ctx context.Context) ([]Guest, error)
}

// AdminRepository exposes the admin account lookups required by the session gate.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin AdminUser) error
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
