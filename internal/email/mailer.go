package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

// Templates names the EmailJS templates the site uses. Organizer may be
// empty when the organizer notice is disabled.
type Templates struct {
	GuestConfirmation string
	OrganizerNotice   string
}

// Mailer builds template parameters for stored guests and delivers them
// through the EmailJS client. It implements application.ConfirmationSender.
type Mailer struct {
	client         *Client
	templates      Templates
	event          application.EventDetails
	organizerEmail string
}

// NewMailer constructs a Mailer for the given event.
func NewMailer(client *Client, templates Templates, event application.EventDetails, organizerEmail string) *Mailer {
	return &Mailer{
		client:         client,
		templates:      templates,
		event:          event,
		organizerEmail: organizerEmail,
	}
}

// SendGuestConfirmation emails the attendance confirmation to the guest.
func (m *Mailer) SendGuestConfirmation(ctx context.Context, guest application.Guest) error {
	return m.client.Send(ctx, m.templates.GuestConfirmation, ConfirmationParams(guest, m.event))
}

// SendOrganizerNotice emails the submission summary to the organizer.
func (m *Mailer) SendOrganizerNotice(ctx context.Context, guest application.Guest) error {
	if m.templates.OrganizerNotice == "" {
		return fmt.Errorf("organizer template not configured")
	}
	return m.client.Send(ctx, m.templates.OrganizerNotice, OrganizerParams(guest, m.organizerEmail))
}

// ConfirmationParams builds the flat variable map of the guest confirmation
// template.
func ConfirmationParams(guest application.Guest, event application.EventDetails) map[string]string {
	return map[string]string{
		"to_name":        guest.Name,
		"to_email":       guest.Email,
		"from_name":      event.CoupleNames,
		"guest_name":     guest.Name,
		"event_date":     event.DateLabel,
		"event_time":     event.TimeLabel,
		"event_location": event.LocationLabel(),
		"maps_url":       event.MapsURL(),
		"companions":     CompanionPhrase(len(guest.Companions)),
		"bus_details":    BusDetails(guest),
	}
}

// OrganizerParams builds the flat variable map of the organizer notice
// template.
func OrganizerParams(guest application.Guest, organizerEmail string) map[string]string {
	busService := "No"
	if guest.BusService && guest.BusRoute != nil {
		busService = fmt.Sprintf("Sí - Parada: %s", application.BusRouteLabel(*guest.BusRoute))
	}

	return map[string]string{
		"to_email":             organizerEmail,
		"from_name":            guest.Name,
		"from_email":           guest.Email,
		"phone":                guest.Phone,
		"dietary_restrictions": orNone(guest.DietaryRestrictions),
		"favorite_music":       orNone(guest.FavoriteMusic),
		"bus_service":          busService,
		"companions":           formatCompanions(guest.Companions),
		"total_guests":         fmt.Sprintf("%d", guest.Headcount()),
	}
}

// CompanionPhrase renders the pluralized companion count of the confirmation
// email: empty for none, "y 1 acompañante", "y N acompañantes" otherwise.
func CompanionPhrase(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "y 1 acompañante"
	default:
		return fmt.Sprintf("y %d acompañantes", count)
	}
}

// BusDetails renders the bus reminder sentence, present only when the guest
// requested the bus service.
func BusDetails(guest application.Guest) string {
	if !guest.BusService || guest.BusRoute == nil {
		return ""
	}
	return fmt.Sprintf("Recuerda que has solicitado servicio de autobús desde la parada: %s",
		application.BusRouteLabel(*guest.BusRoute))
}

func formatCompanions(companions []application.Companion) string {
	if len(companions) == 0 {
		return "Sin acompañantes"
	}

	lines := make([]string, 0, len(companions))
	for i, companion := range companions {
		lines = append(lines, fmt.Sprintf(
			"Acompañante %d:\n- Nombre: %s\n- Restricciones alimentarias: %s\n- Canción favorita: %s",
			i+1,
			companion.Name,
			orNone(companion.DietaryRestrictions),
			orNone(companion.FavoriteMusic),
		))
	}
	return strings.Join(lines, "\n")
}

func orNone(value *string) string {
	if value == nil || *value == "" {
		return "Ninguna"
	}
	return *value
}
