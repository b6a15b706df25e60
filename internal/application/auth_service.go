package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// AdminStore exposes the credential lookups required by the auth service.
type AdminStore interface {
	GetAdminCredentialsByEmail(ctx context.Context, email string) (AdminCredentials, error)
}

// SessionStore captures the persistence interactions for issued sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService is the session gate guarding the admin roster: it issues
// sessions for valid credentials, validates presented tokens and revokes
// sessions on sign-out.
type AuthService struct {
	admins         AdminStore
	sessions       SessionStore
	verifyPassword PasswordVerifier
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(admins AdminStore, sessions SessionStore, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration) *AuthService {
	return NewAuthServiceWithLogger(admins, sessions, verify, tokenGenerator, now, sessionTTL, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(admins AdminStore, sessions SessionStore, verify PasswordVerifier, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		admins:         admins,
		sessions:       sessions,
		verifyPassword: verify,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token. Invalid
// credentials leave the caller anonymous.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil || s.admins == nil {
		err = fmt.Errorf("admin store not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"admin_id", result.Admin.ID,
			"session_id", result.Session.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	creds, lookupErr := s.admins.GetAdminCredentialsByEmail(ctx, email)
	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			err = ErrInvalidCredentials
			return
		}
		err = lookupErr
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	session := Session{
		ID:        s.tokenGenerator(),
		AdminID:   creds.Admin.ID,
		Token:     s.tokenGenerator(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if session.Token == "" {
		session.Token = session.ID
	}

	if s.sessions != nil {
		if err = s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
			return
		}
		var persisted Session
		persisted, err = s.sessions.CreateSession(ctx, session)
		if err != nil {
			return
		}
		session = persisted
	}

	result = AuthenticateResult{Admin: creds.Admin, Session: session}
	return
}

// ValidateSession resolves a presented token to the authenticated principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil {
		return Principal{}, fmt.Errorf("session store not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}

	now := s.now()
	if session.RevokedAt != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrSessionRevoked)
	}
	if !session.ExpiresAt.After(now) {
		return Principal{}, fmt.Errorf("%w: %w", ErrUnauthorized, ErrSessionExpired)
	}

	return Principal{AdminID: session.AdminID}, nil
}

// RevokeSession signs out the session identified by token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session store not configured")
	}

	logger := s.loggerWith(ctx, "RevokeSession")

	if _, err := s.sessions.RevokeSession(ctx, token, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err)
		return err
	}

	logger.InfoContext(ctx, "session revoked")
	return nil
}
