package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// RosterStore lists stored guests for the admin view.
type RosterStore interface {
	ListGuests(ctx context.Context) ([]Guest, error)
}

// Roster is the full, currently loaded set of guests together with the
// aggregate headcount.
type Roster struct {
	Guests    []Guest
	Headcount int
}

// RosterService reads the stored submissions for the admin panel and renders
// the CSV export.
type RosterService struct {
	guests RosterStore
	logger *slog.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(guests RosterStore) *RosterService {
	return NewRosterServiceWithLogger(guests, nil)
}

// NewRosterServiceWithLogger constructs a RosterService with a specified logger.
func NewRosterServiceWithLogger(guests RosterStore, logger *slog.Logger) *RosterService {
	return &RosterService{guests: guests, logger: defaultLogger(logger)}
}

// List fetches every guest, most recent submission first, and computes the
// total headcount: one per guest plus one per companion.
func (s *RosterService) List(ctx context.Context) (Roster, error) {
	if s == nil || s.guests == nil {
		return Roster{}, fmt.Errorf("roster store not configured")
	}

	logger := serviceLogger(ctx, s.logger, "RosterService", "List")

	guests, err := s.guests.ListGuests(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list guests", "error", err)
		return Roster{}, fmt.Errorf("failed to list guests: %w", err)
	}

	headcount := 0
	for _, guest := range guests {
		headcount += guest.Headcount()
	}

	logger.InfoContext(ctx, "roster loaded", "records", len(guests), "headcount", headcount)

	return Roster{Guests: guests, Headcount: headcount}, nil
}

// csvHeader is the fixed header row of the roster export, matching the
// columns shown in the admin panel.
var csvHeader = []string{"Nombre", "Email", "Teléfono", "Autobús", "Parada", "Restricciones", "Canción", "Acompañantes"}

// csvPlaceholder renders absent optional values in the export.
const csvPlaceholder = "-"

// WriteCSV renders the given guests as a CSV document: the fixed header row
// followed by one row per guest. With zero guests only the header is written.
func WriteCSV(w io.Writer, guests []Guest) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, guest := range guests {
		if err := writer.Write(csvRow(guest)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRow(guest Guest) []string {
	busService := "No"
	if guest.BusService {
		busService = "Sí"
	}

	names := make([]string, 0, len(guest.Companions))
	for _, companion := range guest.Companions {
		names = append(names, companion.Name)
	}
	companions := strings.Join(names, ", ")
	if companions == "" {
		companions = csvPlaceholder
	}

	return []string{
		guest.Name,
		guest.Email,
		guest.Phone,
		busService,
		orPlaceholder(guest.BusRoute),
		orPlaceholder(guest.DietaryRestrictions),
		orPlaceholder(guest.FavoriteMusic),
		companions,
	}
}

func orPlaceholder(value *string) string {
	if value == nil || *value == "" {
		return csvPlaceholder
	}
	return *value
}
