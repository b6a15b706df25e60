package persistence

import "time"

// Guest represents one stored RSVP submission together with its embedded
// companions. The id and creation timestamp are assigned on insert and never
// change afterwards; no update path exists for guests.
type Guest struct {
	ID                  int64
	SubmissionKey       string
	Name                string
	Email               string
	Phone               string
	DietaryRestrictions *string
	FavoriteMusic       *string
	BusService          bool
	BusRoute            *string
	Companions          []Companion
	CreatedAt           time.Time
}

// Companion is an additional attendee embedded in a guest row. It has no
// identity of its own and is only ever written as part of its parent's insert.
type Companion struct {
	Name                string  `json:"name"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	FavoriteMusic       *string `json:"favorite_music"`
}

// AdminUser represents an account allowed to access the guest roster.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for an admin user.
type Session struct {
	ID        string
	AdminID   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
