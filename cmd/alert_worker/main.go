package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/erpmodern/auth-service/config"
	"github.com/erpmodern/auth-service/pkg/mailer"
)

func main() {
	cfg := config.Load()
	if !cfg.AlertSendEnabled {
		log.Println("ALERT_SEND_ENABLED=false; alert worker disabled (no emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQAlertQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQAlertQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQAlertQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.AlertJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if job.To == "" {
				log.Printf("alert job without recipient, dropping (type=%s user=%s)", job.Type, job.Username)
				_ = msg.Nack(false, false)
				continue
			}

			subject, text := composeAlert(job)

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, job.To, subject, text); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("alert worker listening on queue=%s", cfg.RabbitMQAlertQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func composeAlert(job mailer.AlertJob) (subject, text string) {
	switch job.Type {
	case mailer.JobAccountLocked:
		subject = fmt.Sprintf("Account locked: %s", job.Username)
		text = fmt.Sprintf(
			"The account %q was locked after repeated failed sign-in attempts.\n\n"+
				"Locked until: %s\nDetected at:  %s\n\n"+
				"If this was not you, review recent activity and reset the password.",
			job.Username,
			job.LockedUntil.Format(time.RFC1123),
			job.OccurredAt.Format(time.RFC1123),
		)
	default:
		subject = fmt.Sprintf("Security alert (%s): %s", job.Type, job.Username)
		text = fmt.Sprintf("Security event %q recorded for account %q at %s.",
			job.Type, job.Username, job.OccurredAt.Format(time.RFC1123))
	}
	return subject, text
}
