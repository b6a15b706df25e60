package application

import (
	"fmt"
	"net/url"
	"time"
)

// EventDetails carries the fixed facts of the celebration: what the emails,
// the calendar file and the public event endpoint render.
type EventDetails struct {
	Title        string
	Description  string
	CoupleNames  string
	DateLabel    string
	TimeLabel    string
	VenueName    string
	VenueAddress string
	Start        time.Time
	End          time.Time
}

// LocationLabel combines venue name and address the way the invitation shows it.
func (e EventDetails) LocationLabel() string {
	if e.VenueName == "" {
		return e.VenueAddress
	}
	return fmt.Sprintf("%s, %s", e.VenueName, e.VenueAddress)
}

// MapsURL returns a Google Maps search link for the venue address.
func (e EventDetails) MapsURL() string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(e.VenueAddress)
}

// DefaultEventDetails returns the wedding this site exists for.
func DefaultEventDetails() EventDetails {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		loc = time.FixedZone("CEST", 2*60*60)
	}

	return EventDetails{
		Title:        "Boda María & Aitor",
		Description:  "Celebración de la boda de María y Aitor en Jardín Siempre Verde",
		CoupleNames:  "María y Aitor",
		DateLabel:    "21 de Junio de 2025",
		TimeLabel:    "19:00",
		VenueName:    "Jardín Siempre Verde",
		VenueAddress: "Cmo. Don Luis, 12, 30110 Murcia",
		Start:        time.Date(2025, time.June, 21, 19, 0, 0, 0, loc),
		End:          time.Date(2025, time.June, 22, 0, 0, 0, 0, loc),
	}
}

// BusDeparture is one scheduled pickup of the transport service.
type BusDeparture struct {
	Location string
	Time     string
}

// BusSchedule describes the outbound and return runs of the bus service.
type BusSchedule struct {
	Outbound []BusDeparture
	Return   []BusDeparture
	Notice   string
}

// DefaultBusSchedule returns the transport plan shown on the landing page.
func DefaultBusSchedule() BusSchedule {
	return BusSchedule{
		Outbound: []BusDeparture{
			{Location: "Plaza Circular", Time: "18:15"},
			{Location: "Hotel Nelva", Time: "18:30"},
		},
		Return: []BusDeparture{
			{Location: "Finca Siempre Verde", Time: "02:30"},
			{Location: "Finca Siempre Verde", Time: "05:00"},
		},
		Notice: "Los horarios son provisionales y se confirmarán próximamente",
	}
}
