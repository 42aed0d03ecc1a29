package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendReservationDecision(toEmail, toName, classroomName, status string, start, end time.Time) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Your reservation for %s was %s", classroomName, strings.ToLower(status))
	html := fmt.Sprintf(`
		<h2>Reservation %s</h2>
		<p>Hi %s,</p>
		<p>Your reservation for <strong>%s</strong> (%s - %s) was <strong>%s</strong>.</p>
	`, status, toName, classroomName, start.Format(time.RFC1123), end.Format(time.RFC1123), strings.ToLower(status))

	text := fmt.Sprintf("Hi %s,\n\nYour reservation for %s (%s - %s) was %s.\n",
		toName, classroomName, start.Format(time.RFC1123), end.Format(time.RFC1123), strings.ToLower(status))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetHTML(html)
	msg.SetText(text)

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
