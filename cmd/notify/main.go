package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/PAUBookIt/book-it-backend/internal/mailer"
	"github.com/PAUBookIt/book-it-backend/pkg/config"
	"github.com/PAUBookIt/book-it-backend/pkg/events"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

// The notify worker consumes reservation.decided events and mails the
// reservation owner. It runs as a queue subscriber so multiple replicas
// share the load without duplicating mail.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	mail := selectMailer(cfg)

	err = eventBus.QueueSubscribe(events.ReservationDecided, "notify-workers", func(msg *events.Message) {
		var evt events.ReservationDecidedEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			logger.Error("Failed to decode reservation.decided event", "error", err)
			return
		}

		if err := mail.SendReservationDecision(evt.UserEmail, evt.UserName, evt.ClassroomName, evt.Status, evt.StartTime, evt.EndTime); err != nil {
			logger.Error("Failed to send decision email",
				"error", err,
				"reservation_id", evt.ReservationID,
				"to", evt.UserEmail,
			)
			return
		}

		logger.Info("Decision email sent",
			"reservation_id", evt.ReservationID,
			"status", evt.Status,
			"to", evt.UserEmail,
		)
	})
	if err != nil {
		logger.Error("Failed to subscribe", "subject", events.ReservationDecided, "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker started", "subject", events.ReservationDecided)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notify worker...")
}

func selectMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Mailer: dev mode, printing to logs")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		logger.Info("Mailer: MailerSend")
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, "BookIt", cfg.Email.SMTPFrom)
	default:
		logger.Info("Mailer: SMTP", "host", cfg.Email.SMTPHost, "port", cfg.Email.SMTPPort)
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	}
}
