package application

import "time"

// Bus route identifiers form a closed set: the two pickup points offered to
// guests. Values match what the RSVP form submits.
const (
	BusRouteAyuntamiento = "ayuntamiento"
	BusRouteHotelNelva   = "hotel-nelva"
)

// KnownBusRoute reports whether the identifier names one of the offered stops.
func KnownBusRoute(route string) bool {
	return route == BusRouteAyuntamiento || route == BusRouteHotelNelva
}

// BusRouteLabel returns the human readable stop name for a route identifier.
func BusRouteLabel(route string) string {
	switch route {
	case BusRouteAyuntamiento:
		return "Ayuntamiento"
	case BusRouteHotelNelva:
		return "Hotel Nelva"
	}
	return route
}

// Companion is an additional attendee registered as part of a guest's
// submission. Optional fields are nil when the guest left them blank.
type Companion struct {
	Name                string
	DietaryRestrictions *string
	FavoriteMusic       *string
}

// Guest is one accepted RSVP submission.
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

// Headcount returns the number of attendees this submission brings: the guest
// plus every companion.
func (g Guest) Headcount() int {
	return 1 + len(g.Companions)
}

// AdminUser represents an account allowed to view the guest roster.
type AdminUser struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminCredentials bundles an admin account with its stored password hash.
type AdminCredentials struct {
	Admin        AdminUser
	PasswordHash string
}

// Session represents an issued authentication session.
type Session struct {
	ID        string
	AdminID   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Principal identifies the authenticated admin attached to a request.
type Principal struct {
	AdminID string
	Email   string
}

// AuthenticateParams carries a credential submission.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is returned on successful authentication.
type AuthenticateResult struct {
	Admin   AdminUser
	Session Session
}
