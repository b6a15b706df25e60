package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

type rsvpService interface {
	Submit(ctx context.Context, params application.SubmitRSVPParams) (application.Guest, error)
}

// RSVPHandler serves the public submission endpoint.
type RSVPHandler struct {
	service   rsvpService
	responder responder
	logger    *slog.Logger
}

// NewRSVPHandler constructs an RSVPHandler.
func NewRSVPHandler(service rsvpService, logger *slog.Logger) *RSVPHandler {
	base := defaultLogger(logger)
	return &RSVPHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RSVPHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "RSVPHandler", operation, attrs...)
}

type companionPayload struct {
	Name                string `json:"name"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	FavoriteMusic       string `json:"favorite_music"`
}

type rsvpRequest struct {
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	DietaryRestrictions string             `json:"dietary_restrictions"`
	FavoriteMusic       string             `json:"favorite_music"`
	BusService          bool               `json:"bus_service"`
	BusRoute            string             `json:"bus_route"`
	Companions          []companionPayload `json:"companions"`
	SubmissionKey       string             `json:"submission_key"`
}

type guestPayload struct {
	ID                  int64              `json:"id"`
	CreatedAt           string             `json:"created_at"`
	Name                string             `json:"name"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	DietaryRestrictions *string            `json:"dietary_restrictions"`
	FavoriteMusic       *string            `json:"favorite_music"`
	BusService          bool               `json:"bus_service"`
	BusRoute            *string            `json:"bus_route"`
	Companions          []companionDetails `json:"companions"`
}

type companionDetails struct {
	Name                string  `json:"name"`
	DietaryRestrictions *string `json:"dietary_restrictions"`
	FavoriteMusic       *string `json:"favorite_music"`
}

type rsvpResponse struct {
	Message string       `json:"message"`
	Guest   guestPayload `json:"guest"`
}

// Create handles one RSVP submission.
func (h *RSVPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode rsvp request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	// The client may also pass the key in a header, following the usual
	// idempotency-key convention.
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		req.SubmissionKey = key
	}

	companions := make([]application.CompanionInput, 0, len(req.Companions))
	for _, companion := range req.Companions {
		companions = append(companions, application.CompanionInput{
			Name:                companion.Name,
			DietaryRestrictions: companion.DietaryRestrictions,
			FavoriteMusic:       companion.FavoriteMusic,
		})
	}

	logger := h.log(r.Context(), "Create", "companions", len(companions))

	guest, err := h.service.Submit(r.Context(), application.SubmitRSVPParams{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		DietaryRestrictions: req.DietaryRestrictions,
		FavoriteMusic:       req.FavoriteMusic,
		BusService:          req.BusService,
		BusRoute:            req.BusRoute,
		Companions:          companions,
		SubmissionKey:       req.SubmissionKey,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "rsvp submission failed", "error", err, "error_kind", application.ErrorKind(err))
		if errors.Is(err, application.ErrConfirmationFailed) {
			countSubmission("email_failed")
		} else {
			countSubmission("rejected")
		}
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	countSubmission("accepted")
	logger.With("guest_id", guest.ID).InfoContext(r.Context(), "rsvp accepted")

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, rsvpResponse{
		Message: "¡Gracias por confirmar tu asistencia!",
		Guest:   toGuestPayload(guest),
	})
}

func toGuestPayload(guest application.Guest) guestPayload {
	companions := make([]companionDetails, 0, len(guest.Companions))
	for _, companion := range guest.Companions {
		companions = append(companions, companionDetails{
			Name:                companion.Name,
			DietaryRestrictions: companion.DietaryRestrictions,
			FavoriteMusic:       companion.FavoriteMusic,
		})
	}

	return guestPayload{
		ID:                  guest.ID,
		CreatedAt:           guest.CreatedAt.UTC().Format(time.RFC3339),
		Name:                guest.Name,
		Email:               guest.Email,
		Phone:               guest.Phone,
		DietaryRestrictions: guest.DietaryRestrictions,
		FavoriteMusic:       guest.FavoriteMusic,
		BusService:          guest.BusService,
		BusRoute:            guest.BusRoute,
		Companions:          companions,
	}
}
