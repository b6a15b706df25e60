package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

var (
	errBadRequestBody      = errors.New("El formato de la solicitud no es válido.")
	errMissingSessionToken = errors.New("Debes iniciar sesión para acceder.")
)

// submissionFailedMessage is shown for any failed RSVP submission, whether
// the row was stored or not, matching what the form always told users.
const submissionFailedMessage = "Hubo un error al enviar el formulario. Por favor, intenta nuevamente."

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_INVALID",
			Message:   "La sesión no es válida. Vuelve a iniciar sesión.",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "No se ha encontrado el recurso solicitado."})
	case errors.Is(err, application.ErrConfirmationFailed):
		r.writeJSON(ctx, w, http.StatusBadGateway, errorResponse{
			ErrorCode: "RSVP_EMAIL_FAILED",
			Message:   submissionFailedMessage,
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "Revisa los datos del formulario.",
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "Se ha producido un error en el servidor."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "La solicitud no es correcta."
	case http.StatusUnauthorized:
		return "Debes iniciar sesión para acceder."
	case http.StatusForbidden:
		return "No tienes permiso para realizar esta operación."
	case http.StatusNotFound:
		return "No se ha encontrado el recurso solicitado."
	case http.StatusUnprocessableEntity:
		return "Revisa los datos del formulario."
	default:
		return "Se ha producido un error en el servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "El nombre es obligatorio."
	case "email is required":
		return "El correo electrónico es obligatorio."
	case "phone is required":
		return "El teléfono es obligatorio."
	case "bus route is required":
		return "Selecciona una parada de autobús."
	case "bus route is invalid":
		return "La parada seleccionada no es válida."
	case "companion name is required":
		return "El nombre del acompañante es obligatorio."
	default:
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
