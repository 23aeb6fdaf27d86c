package mailer

import (
	"fmt"

	"clubreg/internal/dto"
)

// Message is a rendered email ready to hand to the sender.
type Message struct {
	Subject string
	Body    string
}

// Render builds the email for a notification kind. The recipient name
// may be empty, in which case the greeting falls back to "there".
func Render(kind, name, eventTitle, eventDate, rsvpURL string) (Message, bool) {
	if name == "" {
		name = "there"
	}

	switch kind {
	case dto.NotifyApplicationReceived:
		return Message{
			Subject: fmt.Sprintf("Application Received: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nWe received your application for %s on %s.\nOur team will review it and get back to you soon.",
				name, eventTitle, eventDate,
			),
		}, true
	case dto.NotifyRegistrationConfirmed:
		return Message{
			Subject: fmt.Sprintf("Registration Received: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour registration for %s on %s is in.\nPlease confirm your attendance here: %s",
				name, eventTitle, eventDate, rsvpURL,
			),
		}, true
	case dto.NotifyAccepted:
		return Message{
			Subject: fmt.Sprintf("You're In: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nGood news: your application for %s on %s was accepted.\nPlease confirm your attendance here: %s",
				name, eventTitle, eventDate, rsvpURL,
			),
		}, true
	case dto.NotifyRejected:
		return Message{
			Subject: fmt.Sprintf("Application Update: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nThank you for applying to %s. Unfortunately we could not offer you a spot this time.\nWe hope to see you at a future event.",
				name, eventTitle,
			),
		}, true
	case dto.NotifyAttendanceConfirmed:
		return Message{
			Subject: fmt.Sprintf("Attendance Confirmed: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour attendance at %s on %s is confirmed.\nSee you there!",
				name, eventTitle, eventDate,
			),
		}, true
	case dto.NotifyAttendanceDeclined:
		return Message{
			Subject: fmt.Sprintf("Sorry You Can't Make It: %s", eventTitle),
			Body: fmt.Sprintf(
				"Hi %s,\n\nWe've noted that you can't attend %s on %s.\nIf your plans change, contact the organizers.",
				name, eventTitle, eventDate,
			),
		}, true
	}
	return Message{}, false
}

// RenderStaffDecline builds the notice sent to subscribed staff when a
// confirmed attendee withdraws.
func RenderStaffDecline(attendeeName, eventTitle, eventDate string) Message {
	if attendeeName == "" {
		attendeeName = "An attendee"
	}
	return Message{
		Subject: fmt.Sprintf("Confirmed Attendee Declined: %s", eventTitle),
		Body: fmt.Sprintf(
			"%s withdrew a confirmed spot for %s on %s.\nA seat may have opened up for the waitlist.",
			attendeeName, eventTitle, eventDate,
		),
	}
}
