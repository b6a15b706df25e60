package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

type rosterService interface {
	List(ctx context.Context) (application.Roster, error)
}

// RosterHandler serves the session-gated admin view of submitted RSVPs.
type RosterHandler struct {
	service   rosterService
	responder responder
	logger    *slog.Logger
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(service rosterService, logger *slog.Logger) *RosterHandler {
	base := defaultLogger(logger)
	return &RosterHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RosterHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "RosterHandler", operation, attrs...)
}

type rosterResponse struct {
	TotalGuests int            `json:"total_guests"`
	Guests      []guestPayload `json:"guests"`
}

// List returns every submission, most recent first, with the aggregate headcount.
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")

	roster, err := h.service.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load roster", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	guests := make([]guestPayload, 0, len(roster.Guests))
	for _, guest := range roster.Guests {
		guests = append(guests, toGuestPayload(guest))
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, rosterResponse{
		TotalGuests: roster.Headcount,
		Guests:      guests,
	})
}

// ExportCSV downloads the currently stored roster as invitados.csv.
func (h *RosterHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "ExportCSV")

	roster, err := h.service.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load roster for export", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := application.WriteCSV(&buf, roster.Guests); err != nil {
		logger.ErrorContext(r.Context(), "failed to render csv", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="invitados.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.ErrorContext(r.Context(), "failed to write csv response", "error", err)
	}
}
