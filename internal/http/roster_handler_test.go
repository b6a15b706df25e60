package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

type rosterServiceStub struct {
	roster application.Roster
	err    error
}

func (s *rosterServiceStub) List(ctx context.Context) (application.Roster, error) {
	if s.err != nil {
		return application.Roster{}, s.err
	}
	return s.roster, nil
}

func TestRosterHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("returns guests with the aggregate headcount", func(t *testing.T) {
		t.Parallel()

		svc := &rosterServiceStub{roster: application.Roster{
			Guests: []application.Guest{
				{ID: 2, Name: "Pedro"},
				{ID: 1, Name: "Ana", Companions: []application.Companion{{Name: "Luis"}}},
			},
			Headcount: 3,
		}}
		handler := NewRosterHandler(svc, nil)

		req := httptest.NewRequest(http.MethodGet, "/admin/guests", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp rosterResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.TotalGuests != 3 {
			t.Fatalf("expected headcount 3, got %d", resp.TotalGuests)
		}
		if len(resp.Guests) != 2 || resp.Guests[0].ID != 2 {
			t.Fatalf("unexpected guests payload: %+v", resp.Guests)
		}
	})

	t.Run("propagates failures as server errors", func(t *testing.T) {
		t.Parallel()

		svc := &rosterServiceStub{err: errors.New("boom")}
		handler := NewRosterHandler(svc, nil)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/guests", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRosterHandler_ExportCSV(t *testing.T) {
	t.Parallel()

	svc := &rosterServiceStub{roster: application.Roster{
		Guests: []application.Guest{
			{Name: "Ana Ruiz", Email: "ana@example.com", Phone: "600123456"},
		},
		Headcount: 1,
	}}
	handler := NewRosterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/guests/export.csv", nil)
	rec := httptest.NewRecorder()

	handler.ExportCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "invitados.csv") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Nombre,Email,") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
}
