package mailer

import "time"

// Service sends reservation lifecycle mail to users.
type Service interface {
	SendReservationDecision(toEmail, toName, classroomName, status string, start, end time.Time) error
}
