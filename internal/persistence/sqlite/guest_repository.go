package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Molina8/bodamariayaitor/internal/persistence"
)

// GuestRepository implements persistence.GuestRepository using SQLite.
//
// Companions are stored as a JSON array column: they are embedded sub-records
// owned entirely by their parent row, never queried on their own.
type GuestRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewGuestRepository creates a new SQLite guest repository.
func NewGuestRepository(pool *ConnectionPool) *GuestRepository {
	return &GuestRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateGuest inserts a new guest row and returns it with the assigned id and
// creation timestamp.
func (r *GuestRepository) CreateGuest(ctx context.Context, guest persistence.Guest) (persistence.Guest, error) {
	if strings.TrimSpace(guest.Name) == "" {
		return persistence.Guest{}, persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(guest.SubmissionKey) == "" {
		return persistence.Guest{}, persistence.ErrConstraintViolation
	}

	companions := guest.Companions
	if companions == nil {
		companions = []persistence.Companion{}
	}
	companionsJSON, err := json.Marshal(companions)
	if err != nil {
		return persistence.Guest{}, fmt.Errorf("failed to encode companions: %w", err)
	}

	guest.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO guests (submission_key, name, email, phone, dietary_restrictions, favorite_music, bus_service, bus_route, companions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.helper.Exec(ctx, query,
		guest.SubmissionKey,
		guest.Name,
		guest.Email,
		guest.Phone,
		nullableText(guest.DietaryRestrictions),
		nullableText(guest.FavoriteMusic),
		guest.BusService,
		nullableText(guest.BusRoute),
		string(companionsJSON),
		guest.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Guest{}, r.mapper.MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Guest{}, fmt.Errorf("failed to read inserted guest id: %w", err)
	}
	guest.ID = id
	guest.Companions = companions

	return guest, nil
}

// GetGuestBySubmissionKey retrieves a guest by its idempotency key.
func (r *GuestRepository) GetGuestBySubmissionKey(ctx context.Context, key string) (persistence.Guest, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return persistence.Guest{}, persistence.ErrNotFound
	}

	query := guestSelectColumns + " FROM guests WHERE submission_key = ?"
	guest, err := r.scanGuest(r.helper.QueryRow(ctx, query, key))
	if err != nil {
		return persistence.Guest{}, r.mapper.MapError(err)
	}
	return guest, nil
}

// ListGuests returns every guest ordered by creation time descending, most
// recent submission first. Insertion id breaks ties between rows created in
// the same second.
func (r *GuestRepository) ListGuests(ctx context.Context) ([]persistence.Guest, error) {
	query := guestSelectColumns + " FROM guests ORDER BY created_at DESC, id DESC"

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	guests := make([]persistence.Guest, 0)
	for rows.Next() {
		guest, err := r.scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return guests, nil
}

const guestSelectColumns = `
	SELECT id, submission_key, name, email, phone, dietary_restrictions, favorite_music, bus_service, bus_route, companions, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *GuestRepository) scanGuest(row rowScanner) (persistence.Guest, error) {
	var (
		guest          persistence.Guest
		dietary        sql.NullString
		music          sql.NullString
		busRoute       sql.NullString
		companionsJSON string
		createdAtStr   string
	)

	if err := row.Scan(
		&guest.ID,
		&guest.SubmissionKey,
		&guest.Name,
		&guest.Email,
		&guest.Phone,
		&dietary,
		&music,
		&guest.BusService,
		&busRoute,
		&companionsJSON,
		&createdAtStr,
	); err != nil {
		return persistence.Guest{}, err
	}

	guest.DietaryRestrictions = textPtr(dietary)
	guest.FavoriteMusic = textPtr(music)
	guest.BusRoute = textPtr(busRoute)

	if err := json.Unmarshal([]byte(companionsJSON), &guest.Companions); err != nil {
		return persistence.Guest{}, fmt.Errorf("failed to decode companions for guest %d: %w", guest.ID, err)
	}
	if guest.Companions == nil {
		guest.Companions = []persistence.Companion{}
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return persistence.Guest{}, fmt.Errorf("failed to parse created_at for guest %d: %w", guest.ID, err)
	}
	guest.CreatedAt = createdAt

	return guest, nil
}

func nullableText(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func textPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	text := value.String
	return &text
}
