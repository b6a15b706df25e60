package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRSVPService_Submit(t *testing.T) {
	t.Parallel()

	t.Run("stores a submission and sends one confirmation", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, func() string { return "key-1" }, false)

		guest, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:       "Ana Ruiz",
			Email:      "ana@example.com",
			Phone:      "600123456",
			BusService: true,
			BusRoute:   BusRouteHotelNelva,
			Companions: []CompanionInput{{Name: "Luis Ruiz"}},
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if guest.SubmissionKey != "key-1" {
			t.Fatalf("expected generated submission key, got %q", guest.SubmissionKey)
		}
		if guest.BusRoute == nil || *guest.BusRoute != BusRouteHotelNelva {
			t.Fatalf("expected bus route %q, got %v", BusRouteHotelNelva, guest.BusRoute)
		}
		if guest.Headcount() != 2 {
			t.Fatalf("expected headcount 2, got %d", guest.Headcount())
		}
		if len(store.created) != 1 {
			t.Fatalf("expected exactly one insert, got %d", len(store.created))
		}
		if len(mailer.confirmations) != 1 {
			t.Fatalf("expected exactly one confirmation email, got %d", len(mailer.confirmations))
		}
		if len(mailer.notices) != 0 {
			t.Fatalf("expected no organizer notice, got %d", len(mailer.notices))
		}
	})

	t.Run("drops the bus route when the bus service is off", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		svc := NewRSVPService(store, &mailerStub{}, func() string { return "key-1" }, false)

		guest, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:       "Ana Ruiz",
			Email:      "ana@example.com",
			Phone:      "600123456",
			BusService: false,
			BusRoute:   BusRouteAyuntamiento,
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if guest.BusRoute != nil {
			t.Fatalf("expected bus route to be cleared, got %q", *guest.BusRoute)
		}
	})

	t.Run("stores blank optional fields as nulls", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		svc := NewRSVPService(store, &mailerStub{}, func() string { return "key-1" }, false)

		guest, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:                "Ana Ruiz",
			Email:               "ana@example.com",
			Phone:               "600123456",
			DietaryRestrictions: "   ",
			FavoriteMusic:       "Paquito el Chocolatero",
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if guest.DietaryRestrictions != nil {
			t.Fatalf("expected blank dietary restrictions to be nil, got %q", *guest.DietaryRestrictions)
		}
		if guest.FavoriteMusic == nil || *guest.FavoriteMusic != "Paquito el Chocolatero" {
			t.Fatalf("expected favorite music to survive, got %v", guest.FavoriteMusic)
		}
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, func() string { return "key-1" }, false)

		_, err := svc.Submit(context.Background(), SubmitRSVPParams{Email: "ana@example.com"})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "phone"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected field error for %q, got %v", field, vErr.FieldErrors)
			}
		}
		if len(store.created) != 0 {
			t.Fatalf("expected no insert on validation failure, got %d", len(store.created))
		}
		if len(mailer.confirmations) != 0 {
			t.Fatalf("expected no email on validation failure, got %d", len(mailer.confirmations))
		}
	})

	t.Run("rejects an unknown bus route", func(t *testing.T) {
		t.Parallel()

		svc := NewRSVPService(newGuestStoreStub(), &mailerStub{}, func() string { return "key-1" }, false)

		_, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:       "Ana Ruiz",
			Email:      "ana@example.com",
			Phone:      "600123456",
			BusService: true,
			BusRoute:   "estacion-norte",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["bus_route"]; !ok {
			t.Fatalf("expected bus_route field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("requires a bus route when the bus service is requested", func(t *testing.T) {
		t.Parallel()

		svc := NewRSVPService(newGuestStoreStub(), &mailerStub{}, func() string { return "key-1" }, false)

		_, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:       "Ana Ruiz",
			Email:      "ana@example.com",
			Phone:      "600123456",
			BusService: true,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["bus_route"]; !ok {
			t.Fatalf("expected bus_route field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects companions without a name", func(t *testing.T) {
		t.Parallel()

		svc := NewRSVPService(newGuestStoreStub(), &mailerStub{}, func() string { return "key-1" }, false)

		_, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:       "Ana Ruiz",
			Email:      "ana@example.com",
			Phone:      "600123456",
			Companions: []CompanionInput{{Name: "Luis"}, {Name: "  "}},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["companions[1].name"]; !ok {
			t.Fatalf("expected companions[1].name field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("returns the stored guest when a submission key replays", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, nil, false)

		params := SubmitRSVPParams{
			Name:          "Ana Ruiz",
			Email:         "ana@example.com",
			Phone:         "600123456",
			SubmissionKey: "form-abc",
		}

		first, err := svc.Submit(context.Background(), params)
		if err != nil {
			t.Fatalf("first Submit failed: %v", err)
		}
		second, err := svc.Submit(context.Background(), params)
		if err != nil {
			t.Fatalf("replayed Submit failed: %v", err)
		}

		if second.ID != first.ID {
			t.Fatalf("expected replay to return the stored row %d, got %d", first.ID, second.ID)
		}
		if len(store.created) != 1 {
			t.Fatalf("expected one insert for two submits, got %d", len(store.created))
		}
		if len(mailer.confirmations) != 1 {
			t.Fatalf("expected one email for two submits, got %d", len(mailer.confirmations))
		}
	})

	t.Run("returns the stored guest when a concurrent submit wins the insert", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, nil, false)

		params := SubmitRSVPParams{
			Name:          "Ana Ruiz",
			Email:         "ana@example.com",
			Phone:         "600123456",
			SubmissionKey: "form-abc",
		}

		first, err := svc.Submit(context.Background(), params)
		if err != nil {
			t.Fatalf("first Submit failed: %v", err)
		}

		// The loser of the race misses the key lookup but its insert is
		// rejected by the unique index.
		store.lookupMisses = 1
		second, err := svc.Submit(context.Background(), params)
		if err != nil {
			t.Fatalf("racing Submit failed: %v", err)
		}

		if second.ID != first.ID {
			t.Fatalf("expected the winner's row %d, got %d", first.ID, second.ID)
		}
		if len(store.created) != 1 {
			t.Fatalf("expected one insert for two submits, got %d", len(store.created))
		}
		if len(mailer.confirmations) != 1 {
			t.Fatalf("expected one email for two submits, got %d", len(mailer.confirmations))
		}
	})

	t.Run("keeps the row and reports failure when email delivery fails", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{confirmationErr: errors.New("smtp down")}
		svc := NewRSVPService(store, mailer, func() string { return "key-1" }, false)

		guest, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:  "Ana Ruiz",
			Email: "ana@example.com",
			Phone: "600123456",
		})

		if !errors.Is(err, ErrConfirmationFailed) {
			t.Fatalf("expected ErrConfirmationFailed, got %v", err)
		}
		if guest.ID == 0 {
			t.Fatalf("expected the stored guest to be returned alongside the error")
		}
		if len(store.created) != 1 {
			t.Fatalf("expected the insert to survive the email failure, got %d", len(store.created))
		}
	})

	t.Run("sends the organizer notice when enabled", func(t *testing.T) {
		t.Parallel()

		store := newGuestStoreStub()
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, func() string { return "key-1" }, true)

		if _, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:  "Ana Ruiz",
			Email: "ana@example.com",
			Phone: "600123456",
		}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if len(mailer.notices) != 1 {
			t.Fatalf("expected one organizer notice, got %d", len(mailer.notices))
		}
		if len(mailer.confirmations) != 1 {
			t.Fatalf("expected one confirmation, got %d", len(mailer.confirmations))
		}
	})

	t.Run("propagates store failures without sending email", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("disk full")
		store := newGuestStoreStub()
		store.createErr = expected
		mailer := &mailerStub{}
		svc := NewRSVPService(store, mailer, func() string { return "key-1" }, false)

		_, err := svc.Submit(context.Background(), SubmitRSVPParams{
			Name:  "Ana Ruiz",
			Email: "ana@example.com",
			Phone: "600123456",
		})

		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
		if len(mailer.confirmations) != 0 {
			t.Fatalf("expected no email after a failed insert, got %d", len(mailer.confirmations))
		}
	})
}

// guestStoreStub provides an in-memory GuestStore for tests. lookupMisses
// makes that many key lookups report ErrNotFound even for stored rows, to
// simulate a concurrent submit winning the insert between lookup and create.
type guestStoreStub struct {
	byKey   map[string]Guest
	ordered []Guest
	created []Guest
	nextID  int64

	createErr    error
	listErr      error
	lookupMisses int
}

func newGuestStoreStub() *guestStoreStub {
	return &guestStoreStub{byKey: make(map[string]Guest)}
}

func (s *guestStoreStub) CreateGuest(ctx context.Context, guest Guest) (Guest, error) {
	if s.createErr != nil {
		return Guest{}, s.createErr
	}
	if _, ok := s.byKey[guest.SubmissionKey]; ok {
		return Guest{}, fmt.Errorf("%w: guests.submission_key", ErrAlreadyExists)
	}
	s.nextID++
	guest.ID = s.nextID
	s.byKey[guest.SubmissionKey] = guest
	s.ordered = append(s.ordered, guest)
	s.created = append(s.created, guest)
	return guest, nil
}

func (s *guestStoreStub) GetGuestBySubmissionKey(ctx context.Context, key string) (Guest, error) {
	if s.lookupMisses > 0 {
		s.lookupMisses--
		return Guest{}, ErrNotFound
	}
	guest, ok := s.byKey[key]
	if !ok {
		return Guest{}, ErrNotFound
	}
	return guest, nil
}

func (s *guestStoreStub) ListGuests(ctx context.Context) ([]Guest, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	guests := make([]Guest, 0, len(s.ordered))
	for i := len(s.ordered) - 1; i >= 0; i-- {
		guests = append(guests, s.ordered[i])
	}
	return guests, nil
}

// mailerStub records sent emails for tests.
type mailerStub struct {
	confirmations []Guest
	notices       []Guest

	confirmationErr error
	noticeErr       error
}

func (m *mailerStub) SendGuestConfirmation(ctx context.Context, guest Guest) error {
	if m.confirmationErr != nil {
		return m.confirmationErr
	}
	m.confirmations = append(m.confirmations, guest)
	return nil
}

func (m *mailerStub) SendOrganizerNotice(ctx context.Context, guest Guest) error {
	if m.noticeErr != nil {
		return m.noticeErr
	}
	m.notices = append(m.notices, guest)
	return nil
}
