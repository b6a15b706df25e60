package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WEDDING_ADMIN_EMAIL", "maria@example.com")
	t.Setenv("WEDDING_ADMIN_PASSWORD", "s3creto")
	t.Setenv("WEDDING_EMAILJS_SERVICE_ID", "service_abc")
	t.Setenv("WEDDING_EMAILJS_TEMPLATE_ID", "template_abc")
	t.Setenv("WEDDING_EMAILJS_PUBLIC_KEY", "public_abc")
}

func unsetOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WEDDING_HTTP_PORT",
		"WEDDING_SQLITE_DSN",
		"WEDDING_SESSION_TTL",
		"WEDDING_EMAILJS_BASE_URL",
		"WEDDING_EMAILJS_ORGANIZER_TEMPLATE_ID",
		"WEDDING_ORGANIZER_EMAIL",
		"WEDDING_NOTIFY_ORGANIZER",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when optional variables are missing", func(t *testing.T) {
		setRequired(t)
		unsetOptional(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:wedding.db?_pragma=foreign_keys(1)" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("unexpected default session TTL: %v", cfg.SessionTTL)
		}
		if cfg.EmailJSBaseURL != "https://api.emailjs.com" {
			t.Fatalf("unexpected default EmailJS base URL: %q", cfg.EmailJSBaseURL)
		}
		if cfg.NotifyOrganizer {
			t.Fatalf("expected organizer notice to default off")
		}
	})

	t.Run("reads overrides", func(t *testing.T) {
		setRequired(t)
		unsetOptional(t)
		t.Setenv("WEDDING_HTTP_PORT", "9090")
		t.Setenv("WEDDING_SQLITE_DSN", "file::memory:?cache=shared")
		t.Setenv("WEDDING_SESSION_TTL", "2h")
		t.Setenv("WEDDING_EMAILJS_BASE_URL", "http://127.0.0.1:8025")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file::memory:?cache=shared" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 2*time.Hour {
			t.Fatalf("unexpected session TTL: %v", cfg.SessionTTL)
		}
		if cfg.EmailJSBaseURL != "http://127.0.0.1:8025" {
			t.Fatalf("unexpected base URL: %q", cfg.EmailJSBaseURL)
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		setRequired(t)
		unsetOptional(t)
		t.Setenv("WEDDING_ADMIN_EMAIL", "")
		t.Setenv("WEDDING_EMAILJS_PUBLIC_KEY", "  ")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		if !strings.Contains(err.Error(), "faltan variables de entorno obligatorias") {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
		for _, name := range []string{"WEDDING_ADMIN_EMAIL", "WEDDING_EMAILJS_PUBLIC_KEY"} {
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("expected %s to be reported, got %q", name, err.Error())
			}
		}
	})

	t.Run("errors on malformed values", func(t *testing.T) {
		setRequired(t)
		unsetOptional(t)
		t.Setenv("WEDDING_HTTP_PORT", "puerto")
		t.Setenv("WEDDING_SESSION_TTL", "-1h")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		if !strings.Contains(err.Error(), "las variables de entorno tienen valores no válidos") {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("requires the organizer settings when the notice is enabled", func(t *testing.T) {
		setRequired(t)
		unsetOptional(t)
		t.Setenv("WEDDING_NOTIFY_ORGANIZER", "true")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when organizer settings are missing")
		}
		for _, name := range []string{"WEDDING_EMAILJS_ORGANIZER_TEMPLATE_ID", "WEDDING_ORGANIZER_EMAIL"} {
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("expected %s to be reported, got %q", name, err.Error())
			}
		}

		t.Setenv("WEDDING_EMAILJS_ORGANIZER_TEMPLATE_ID", "template_org")
		t.Setenv("WEDDING_ORGANIZER_EMAIL", "organizador@example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !cfg.NotifyOrganizer || cfg.OrganizerEmail != "organizador@example.com" {
			t.Fatalf("unexpected organizer settings: %+v", cfg)
		}
	})
}
