package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the wedding site.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration

	// Bootstrap admin account, created at startup when absent.
	AdminEmail    string
	AdminPassword string

	// EmailJS identifiers. The base URL is overridable for tests.
	EmailJSBaseURL             string
	EmailJSServiceID           string
	EmailJSTemplateID          string
	EmailJSOrganizerTemplateID string
	EmailJSPublicKey           string

	// Organizer notice: present in the source material but disabled there,
	// so it defaults to off here too.
	NotifyOrganizer bool
	OrganizerEmail  string
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields while validating required
// values and reporting which entries are missing or malformed.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:wedding.db?_pragma=foreign_keys(1)",
		SessionTTL:     24 * time.Hour,
		EmailJSBaseURL: "https://api.emailjs.com",
	}

	missing := make([]string, 0, 4)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("WEDDING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "WEDDING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("WEDDING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("WEDDING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "WEDDING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.AdminEmail = requireEnv("WEDDING_ADMIN_EMAIL", &missing)
	cfg.AdminPassword = requireEnv("WEDDING_ADMIN_PASSWORD", &missing)
	cfg.EmailJSServiceID = requireEnv("WEDDING_EMAILJS_SERVICE_ID", &missing)
	cfg.EmailJSTemplateID = requireEnv("WEDDING_EMAILJS_TEMPLATE_ID", &missing)
	cfg.EmailJSPublicKey = requireEnv("WEDDING_EMAILJS_PUBLIC_KEY", &missing)

	if base := strings.TrimSpace(os.Getenv("WEDDING_EMAILJS_BASE_URL")); base != "" {
		cfg.EmailJSBaseURL = base
	}
	cfg.EmailJSOrganizerTemplateID = strings.TrimSpace(os.Getenv("WEDDING_EMAILJS_ORGANIZER_TEMPLATE_ID"))
	cfg.OrganizerEmail = strings.TrimSpace(os.Getenv("WEDDING_ORGANIZER_EMAIL"))

	if notifyValue := strings.TrimSpace(os.Getenv("WEDDING_NOTIFY_ORGANIZER")); notifyValue != "" {
		notify, err := strconv.ParseBool(notifyValue)
		if err != nil {
			invalid = append(invalid, "WEDDING_NOTIFY_ORGANIZER")
		} else {
			cfg.NotifyOrganizer = notify
		}
	}

	if cfg.NotifyOrganizer {
		if cfg.EmailJSOrganizerTemplateID == "" {
			missing = append(missing, "WEDDING_EMAILJS_ORGANIZER_TEMPLATE_ID")
		}
		if cfg.OrganizerEmail == "" {
			missing = append(missing, "WEDDING_ORGANIZER_EMAIL")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("faltan variables de entorno obligatorias: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("las variables de entorno tienen valores no válidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func requireEnv(name string, missing *[]string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		*missing = append(*missing, name)
	}
	return value
}
