package http

import (
	"net/http"
)

// RouterConfig wires the handlers of the wedding site.
type RouterConfig struct {
	Auth   *AuthHandler
	RSVP   *RSVPHandler
	Roster *RosterHandler
	Event  *EventHandler
	// RequireSession wraps the admin endpoints; when nil they are exposed
	// unguarded, which only tests should do.
	RequireSession func(http.Handler) http.Handler
}

// NewRouter assembles the route table. Everything under /admin/ sits behind
// the session gate; the rest of the site is public.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	guard := cfg.RequireSession
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	if cfg.RSVP != nil {
		mux.HandleFunc("/rsvps", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.RSVP.Create(w, r)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Roster != nil {
		mux.Handle("/admin/guests", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Roster.List(w, r)
		})))
		mux.Handle("/admin/guests/export.csv", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Roster.ExportCSV(w, r)
		})))
	}

	if cfg.Event != nil {
		mux.HandleFunc("/event", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Event.Show(w, r)
		})
		mux.HandleFunc("/calendar.ics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Event.Calendar(w, r)
		})
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", MetricsHandler())

	return mux
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, method := range allowed {
		w.Header().Add("Allow", method)
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
