package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Molina8/bodamariayaitor/internal/application"
	"github.com/Molina8/bodamariayaitor/internal/config"
	"github.com/Molina8/bodamariayaitor/internal/email"
	httptransport "github.com/Molina8/bodamariayaitor/internal/http"
	"github.com/Molina8/bodamariayaitor/internal/persistence"
	"github.com/Molina8/bodamariayaitor/internal/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	if err := seedAdmin(context.Background(), storage.Admins, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	tokenGenerator := uuid.NewString
	now := time.Now

	event := application.DefaultEventDetails()
	schedule := application.DefaultBusSchedule()

	mailClient := email.NewClient(email.Config{
		BaseURL:   cfg.EmailJSBaseURL,
		ServiceID: cfg.EmailJSServiceID,
		PublicKey: cfg.EmailJSPublicKey,
	}, nil, logger)
	mailer := email.NewMailer(mailClient, email.Templates{
		GuestConfirmation: cfg.EmailJSTemplateID,
		OrganizerNotice:   cfg.EmailJSOrganizerTemplateID,
	}, event, cfg.OrganizerEmail)

	guestStore := newGuestStoreAdapter(storage.Guests)
	adminStore := newAdminStoreAdapter(storage.Admins)
	sessionStore := newSessionStoreAdapter(storage.Sessions)

	rsvpService := application.NewRSVPServiceWithLogger(guestStore, mailer, uuid.NewString, cfg.NotifyOrganizer, logger)
	rosterService := application.NewRosterServiceWithLogger(guestStore, logger)
	authService := application.NewAuthServiceWithLogger(adminStore, sessionStore, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		RSVP:           httptransport.NewRSVPHandler(rsvpService, logger),
		Roster:         httptransport.NewRosterHandler(rosterService, logger),
		Event:          httptransport.NewEventHandler(event, schedule, logger),
		RequireSession: httptransport.RequireSession(authService, logger),
	})
	handler := httptransport.RequestLogger(logger)(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("wedding site listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// seedAdmin creates the bootstrap admin account when it does not exist yet.
func seedAdmin(ctx context.Context, admins *sqlite.AdminRepository, adminEmail, adminPassword string) error {
	_, err := admins.GetAdminByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := application.CreatePasswordHash(adminPassword, application.DefaultArgon2idParams)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return admins.CreateAdmin(ctx, persistence.AdminUser{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: hash,
	})
}

type guestStoreAdapter struct {
	repo persistence.GuestRepository
}

func newGuestStoreAdapter(repo persistence.GuestRepository) *guestStoreAdapter {
	return &guestStoreAdapter{repo: repo}
}

func (a *guestStoreAdapter) CreateGuest(ctx context.Context, guest application.Guest) (application.Guest, error) {
	stored, err := a.repo.CreateGuest(ctx, toPersistenceGuest(guest))
	if err != nil {
		return application.Guest{}, mapPersistenceError(err)
	}
	return toApplicationGuest(stored), nil
}

func (a *guestStoreAdapter) GetGuestBySubmissionKey(ctx context.Context, key string) (application.Guest, error) {
	stored, err := a.repo.GetGuestBySubmissionKey(ctx, key)
	if err != nil {
		return application.Guest{}, mapPersistenceError(err)
	}
	return toApplicationGuest(stored), nil
}

func (a *guestStoreAdapter) ListGuests(ctx context.Context) ([]application.Guest, error) {
	models, err := a.repo.ListGuests(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	guests := make([]application.Guest, 0, len(models))
	for _, model := range models {
		guests = append(guests, toApplicationGuest(model))
	}
	return guests, nil
}

type adminStoreAdapter struct {
	repo persistence.AdminRepository
}

func newAdminStoreAdapter(repo persistence.AdminRepository) *adminStoreAdapter {
	return &adminStoreAdapter{repo: repo}
}

func (a *adminStoreAdapter) GetAdminCredentialsByEmail(ctx context.Context, adminEmail string) (application.AdminCredentials, error) {
	stored, err := a.repo.GetAdminByEmail(ctx, adminEmail)
	if err != nil {
		return application.AdminCredentials{}, mapPersistenceError(err)
	}
	return application.AdminCredentials{
		Admin: application.AdminUser{
			ID:        stored.ID,
			Email:     stored.Email,
			CreatedAt: stored.CreatedAt,
			UpdatedAt: stored.UpdatedAt,
		},
		PasswordHash: stored.PasswordHash,
	}, nil
}

type sessionStoreAdapter struct {
	repo persistence.SessionRepository
}

func newSessionStoreAdapter(repo persistence.SessionRepository) *sessionStoreAdapter {
	return &sessionStoreAdapter{repo: repo}
}

func (a *sessionStoreAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

func mapPersistenceError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrAlreadyExists):
		return application.ErrAlreadyExists
	}
	return err
}

func toPersistenceGuest(guest application.Guest) persistence.Guest {
	companions := make([]persistence.Companion, 0, len(guest.Companions))
	for _, companion := range guest.Companions {
		companions = append(companions, persistence.Companion{
			Name:                companion.Name,
			DietaryRestrictions: cloneString(companion.DietaryRestrictions),
			FavoriteMusic:       cloneString(companion.FavoriteMusic),
		})
	}
	return persistence.Guest{
		ID:                  guest.ID,
		SubmissionKey:       guest.SubmissionKey,
		Name:                guest.Name,
		Email:               guest.Email,
		Phone:               guest.Phone,
		DietaryRestrictions: cloneString(guest.DietaryRestrictions),
		FavoriteMusic:       cloneString(guest.FavoriteMusic),
		BusService:          guest.BusService,
		BusRoute:            cloneString(guest.BusRoute),
		Companions:          companions,
		CreatedAt:           guest.CreatedAt,
	}
}

func toApplicationGuest(model persistence.Guest) application.Guest {
	companions := make([]application.Companion, 0, len(model.Companions))
	for _, companion := range model.Companions {
		companions = append(companions, application.Companion{
			Name:                companion.Name,
			DietaryRestrictions: cloneString(companion.DietaryRestrictions),
			FavoriteMusic:       cloneString(companion.FavoriteMusic),
		})
	}
	return application.Guest{
		ID:                  model.ID,
		SubmissionKey:       model.SubmissionKey,
		Name:                model.Name,
		Email:               model.Email,
		Phone:               model.Phone,
		DietaryRestrictions: cloneString(model.DietaryRestrictions),
		FavoriteMusic:       cloneString(model.FavoriteMusic),
		BusService:          model.BusService,
		BusRoute:            cloneString(model.BusRoute),
		Companions:          companions,
		CreatedAt:           model.CreatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		AdminID:   session.AdminID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		AdminID:   model.AdminID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
