// Package ical renders the downloadable calendar invite for the wedding.
package ical

import (
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Molina8/bodamariayaitor/internal/application"
)

// FileName is the suggested download name of the invite.
const FileName = "boda-maria-aitor.ics"

const eventUID = "boda-maria-aitor@bodamariayaitor"

// Invite serializes the wedding as a single-VEVENT calendar.
func Invite(event application.EventDetails) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//bodamariayaitor//ES")

	vevent := cal.AddEvent(eventUID)
	vevent.SetDtStampTime(event.Start.UTC())
	vevent.SetStartAt(event.Start)
	vevent.SetEndAt(event.End)
	vevent.SetSummary(event.Title)
	vevent.SetDescription(event.Description)
	vevent.SetLocation(event.LocationLabel())

	return cal.Serialize()
}

// GoogleCalendarURL builds the prefilled "add to Google Calendar" link.
func GoogleCalendarURL(event application.EventDetails) string {
	query := url.Values{}
	query.Set("action", "TEMPLATE")
	query.Set("text", event.Title)
	query.Set("details", event.Description)
	query.Set("location", event.VenueAddress)
	query.Set("dates", fmt.Sprintf("%s/%s", googleTime(event.Start), googleTime(event.End)))

	return "https://calendar.google.com/calendar/render?" + query.Encode()
}

func googleTime(t time.Time) string {
	return t.Format("20060102T150405")
}
