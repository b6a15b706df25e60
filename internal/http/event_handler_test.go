package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

func TestEventHandler_Show(t *testing.T) {
	t.Parallel()

	handler := NewEventHandler(application.DefaultEventDetails(), application.DefaultBusSchedule(), nil)

	rec := httptest.NewRecorder()
	handler.Show(rec, httptest.NewRequest(http.MethodGet, "/event", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Title != "Boda María & Aitor" || resp.CoupleNames != "María y Aitor" {
		t.Fatalf("unexpected event identity: %+v", resp)
	}
	if resp.Date != "21 de Junio de 2025" || resp.Time != "19:00" {
		t.Fatalf("unexpected event timing: %+v", resp)
	}
	if resp.CalendarPath != "/calendar.ics" {
		t.Fatalf("unexpected calendar path: %q", resp.CalendarPath)
	}
	if !strings.HasPrefix(resp.GoogleCalendarURL, "https://calendar.google.com/") {
		t.Fatalf("unexpected google calendar url: %q", resp.GoogleCalendarURL)
	}
	if len(resp.BusSchedule.Outbound) != 2 || resp.BusSchedule.Notice == "" {
		t.Fatalf("unexpected bus schedule: %+v", resp.BusSchedule)
	}
}

func TestEventHandler_Calendar(t *testing.T) {
	t.Parallel()

	handler := NewEventHandler(application.DefaultEventDetails(), application.DefaultBusSchedule(), nil)

	rec := httptest.NewRecorder()
	handler.Calendar(rec, httptest.NewRequest(http.MethodGet, "/calendar.ics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "boda-maria-aitor.ics") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("expected serialized calendar, got %q", rec.Body.String())
	}
}
