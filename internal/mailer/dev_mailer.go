package mailer

import (
	"fmt"
	"time"

	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

// DevMailer prints mail to the logs instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendReservationDecision(toEmail, toName, classroomName, status string, start, end time.Time) error {
	logger.Info("[DEV MAIL] Reservation Decision",
		"to", toEmail,
		"name", toName,
		"classroom", classroomName,
		"status", status,
	)

	fmt.Printf("\n"+
		"=================================================================\n"+
		"RESERVATION DECISION EMAIL (DEV MODE)\n"+
		"=================================================================\n"+
		"To: %s (%s)\n"+
		"Subject: Your reservation for %s was %s\n"+
		"\n"+
		"Slot: %s - %s\n"+
		"=================================================================\n\n",
		toEmail, toName, classroomName, status,
		start.Format(time.RFC1123), end.Format(time.RFC1123))

	return nil
}
