package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Molina8/bodamariayaitor/internal/application"
	"github.com/Molina8/bodamariayaitor/internal/ical"
)

// EventHandler serves the public event information and the calendar download.
type EventHandler struct {
	event     application.EventDetails
	schedule  application.BusSchedule
	responder responder
	logger    *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(event application.EventDetails, schedule application.BusSchedule, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{event: event, schedule: schedule, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EventHandler", operation)
}

type busDeparturePayload struct {
	Location string `json:"location"`
	Time     string `json:"time"`
}

type busSchedulePayload struct {
	Outbound []busDeparturePayload `json:"outbound"`
	Return   []busDeparturePayload `json:"return"`
	Notice   string                `json:"notice"`
}

type eventResponse struct {
	Title             string             `json:"title"`
	CoupleNames       string             `json:"couple_names"`
	Date              string             `json:"date"`
	Time              string             `json:"time"`
	VenueName         string             `json:"venue_name"`
	VenueAddress      string             `json:"venue_address"`
	MapsURL           string             `json:"maps_url"`
	GoogleCalendarURL string             `json:"google_calendar_url"`
	CalendarPath      string             `json:"calendar_path"`
	BusSchedule       busSchedulePayload `json:"bus_schedule"`
}

// Show returns the event payload the landing page renders.
func (h *EventHandler) Show(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{
		Title:             h.event.Title,
		CoupleNames:       h.event.CoupleNames,
		Date:              h.event.DateLabel,
		Time:              h.event.TimeLabel,
		VenueName:         h.event.VenueName,
		VenueAddress:      h.event.VenueAddress,
		MapsURL:           h.event.MapsURL(),
		GoogleCalendarURL: ical.GoogleCalendarURL(h.event),
		CalendarPath:      "/calendar.ics",
		BusSchedule:       toBusSchedulePayload(h.schedule),
	})
}

// Calendar downloads the wedding invite as an iCalendar file.
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ical.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ical.Invite(h.event))); err != nil {
		h.log(r.Context(), "Calendar").ErrorContext(r.Context(), "failed to write calendar response", "error", err)
	}
}

func toBusSchedulePayload(schedule application.BusSchedule) busSchedulePayload {
	outbound := make([]busDeparturePayload, 0, len(schedule.Outbound))
	for _, departure := range schedule.Outbound {
		outbound = append(outbound, busDeparturePayload{Location: departure.Location, Time: departure.Time})
	}
	ret := make([]busDeparturePayload, 0, len(schedule.Return))
	for _, departure := range schedule.Return {
		ret = append(ret, busDeparturePayload{Location: departure.Location, Time: departure.Time})
	}
	return busSchedulePayload{Outbound: outbound, Return: ret, Notice: schedule.Notice}
}
