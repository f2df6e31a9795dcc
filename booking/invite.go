package booking

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

type InviteOptions struct {
	AppName       string
	Domain        string
	Location      string
	Organizer     string
	OrganizerName string
}

// Invite renders the booking as an iCalendar REQUEST with a single event.
// Times are written as UTC instants.
func Invite(b *Booking, opts InviteOptions, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//" + opts.AppName + "//Booking Invite//EN")

	event := cal.AddEvent(b.ID.String() + "@" + opts.Domain)
	event.SetDtStampTime(now)
	event.SetStartAt(b.StartAt)
	event.SetEndAt(b.EndAt)
	event.SetSummary("Consultation Booking with " + b.Name)
	event.SetDescription(b.Remark)
	event.SetLocation(opts.Location)
	event.SetStatus(ics.ObjectStatusConfirmed)

	if opts.Organizer != "" {
		event.SetOrganizer("mailto:"+opts.Organizer, ics.WithCN(opts.OrganizerName))
	}

	event.AddAttendee(b.Email, ics.WithCN(b.Name), ics.WithRSVP(true))

	return cal.Serialize()
}
