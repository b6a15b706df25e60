package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// GuestStore captures the persistence interactions of the submission flow.
type GuestStore interface {
	CreateGuest(ctx context.Context, guest Guest) (Guest, error)
	GetGuestBySubmissionKey(ctx context.Context, key string) (Guest, error)
}

// ConfirmationSender delivers the transactional emails that follow a
// successful insert.
type ConfirmationSender interface {
	SendGuestConfirmation(ctx context.Context, guest Guest) error
	SendOrganizerNotice(ctx context.Context, guest Guest) error
}

// SubmitRSVPParams carries one completed form submission.
type SubmitRSVPParams struct {
	Name                string
	Email               string
	Phone               string
	DietaryRestrictions string
	FavoriteMusic       string
	BusService          bool
	BusRoute            string
	Companions          []CompanionInput
	// SubmissionKey deduplicates racing submissions of the same form. When
	// empty the service generates one, so every call is covered by the
	// unique index on the column.
	SubmissionKey string
}

// RSVPService coordinates the submission flow: validate, persist exactly one
// row, then send exactly one confirmation email.
type RSVPService struct {
	guests          GuestStore
	mailer          ConfirmationSender
	keyGenerator    func() string
	notifyOrganizer bool
	logger          *slog.Logger
}

// NewRSVPService constructs an RSVPService with the provided dependencies.
func NewRSVPService(guests GuestStore, mailer ConfirmationSender, keyGenerator func() string, notifyOrganizer bool) *RSVPService {
	return NewRSVPServiceWithLogger(guests, mailer, keyGenerator, notifyOrganizer, nil)
}

// NewRSVPServiceWithLogger constructs an RSVPService with a specified logger.
func NewRSVPServiceWithLogger(guests GuestStore, mailer ConfirmationSender, keyGenerator func() string, notifyOrganizer bool, logger *slog.Logger) *RSVPService {
	if keyGenerator == nil {
		keyGenerator = func() string { return "" }
	}
	return &RSVPService{
		guests:          guests,
		mailer:          mailer,
		keyGenerator:    keyGenerator,
		notifyOrganizer: notifyOrganizer,
		logger:          defaultLogger(logger),
	}
}

func (s *RSVPService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RSVPService", operation, attrs...)
}

// Submit validates and persists one RSVP submission and sends the guest
// confirmation email.
//
// On persistence failure nothing is sent and the error is returned. On
// notification failure the stored guest is returned together with an error
// wrapping ErrConfirmationFailed: the row exists, but the caller must still
// report the submission as failed.
func (s *RSVPService) Submit(ctx context.Context, params SubmitRSVPParams) (guest Guest, err error) {
	if s == nil || s.guests == nil {
		err = fmt.Errorf("guest store not configured")
		return
	}

	logger := s.loggerWith(ctx, "Submit", "email", strings.TrimSpace(params.Email))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "rsvp submission failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"guest_id", guest.ID,
			"companions", len(guest.Companions),
			"bus_service", guest.BusService,
		).InfoContext(ctx, "rsvp submission accepted")
	}()

	if vErr := validateSubmission(params); vErr.HasErrors() {
		err = vErr
		return
	}

	candidate := normalizeSubmission(params)

	if candidate.SubmissionKey == "" {
		candidate.SubmissionKey = s.keyGenerator()
	}
	if candidate.SubmissionKey == "" {
		err = fmt.Errorf("submission key generator returned empty key")
		return
	}

	// Replays of an already-stored submission return the existing row without
	// inserting again or re-sending email.
	existing, lookupErr := s.guests.GetGuestBySubmissionKey(ctx, candidate.SubmissionKey)
	if lookupErr == nil {
		logger.InfoContext(ctx, "duplicate submission ignored", "guest_id", existing.ID)
		guest = existing
		return
	}
	if !errors.Is(lookupErr, ErrNotFound) {
		err = fmt.Errorf("failed to check submission key: %w", lookupErr)
		return
	}

	stored, createErr := s.guests.CreateGuest(ctx, candidate)
	if createErr != nil {
		// A concurrent submit with the same key can slip between the lookup
		// and the insert. The loser treats the unique-index rejection like a
		// replay: return the row the winner stored, without sending email.
		if errors.Is(createErr, ErrAlreadyExists) {
			existing, refetchErr := s.guests.GetGuestBySubmissionKey(ctx, candidate.SubmissionKey)
			if refetchErr != nil {
				err = fmt.Errorf("failed to load racing submission: %w", refetchErr)
				return
			}
			logger.InfoContext(ctx, "duplicate submission ignored", "guest_id", existing.ID)
			guest = existing
			return
		}
		err = fmt.Errorf("failed to store rsvp: %w", createErr)
		return
	}

	if s.mailer != nil {
		if s.notifyOrganizer {
			if sendErr := s.mailer.SendOrganizerNotice(ctx, stored); sendErr != nil {
				guest = stored
				err = fmt.Errorf("%w: organizer notice: %v", ErrConfirmationFailed, sendErr)
				return
			}
		}
		if sendErr := s.mailer.SendGuestConfirmation(ctx, stored); sendErr != nil {
			guest = stored
			err = fmt.Errorf("%w: %v", ErrConfirmationFailed, sendErr)
			return
		}
	}

	guest = stored
	return
}

func validateSubmission(params SubmitRSVPParams) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(params.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(params.Email) == "" {
		vErr.add("email", "email is required")
	}
	if strings.TrimSpace(params.Phone) == "" {
		vErr.add("phone", "phone is required")
	}

	if params.BusService {
		route := strings.TrimSpace(params.BusRoute)
		if route == "" {
			vErr.add("bus_route", "bus route is required")
		} else if !KnownBusRoute(route) {
			vErr.add("bus_route", "bus route is invalid")
		}
	}

	for i, companion := range params.Companions {
		if strings.TrimSpace(companion.Name) == "" {
			vErr.add(fmt.Sprintf("companions[%d].name", i), "companion name is required")
		}
	}

	return vErr
}

// normalizeSubmission maps form values onto the stored shape: optional blanks
// become nil markers and the bus route is dropped whenever the bus service is
// off, regardless of any stale selection left in the form.
func normalizeSubmission(params SubmitRSVPParams) Guest {
	guest := Guest{
		SubmissionKey:       strings.TrimSpace(params.SubmissionKey),
		Name:                strings.TrimSpace(params.Name),
		Email:               strings.TrimSpace(params.Email),
		Phone:               strings.TrimSpace(params.Phone),
		DietaryRestrictions: optionalText(params.DietaryRestrictions),
		FavoriteMusic:       optionalText(params.FavoriteMusic),
		BusService:          params.BusService,
		Companions:          make([]Companion, 0, len(params.Companions)),
	}

	if params.BusService {
		route := strings.TrimSpace(params.BusRoute)
		guest.BusRoute = &route
	}

	for _, companion := range params.Companions {
		guest.Companions = append(guest.Companions, Companion{
			Name:                strings.TrimSpace(companion.Name),
			DietaryRestrictions: optionalText(companion.DietaryRestrictions),
			FavoriteMusic:       optionalText(companion.FavoriteMusic),
		})
	}

	return guest
}

// optionalText returns nil for blank values so that absent optional fields
// are stored as nulls, never empty strings.
func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
