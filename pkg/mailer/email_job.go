package mailer

import "time"

// Job types placed on the security-alert queue.
const (
	JobAccountLocked = "account_locked"
)

// AlertJob is the JSON payload put on the RabbitMQ queue for the alert
// worker. Produced by the authentication service on security-relevant
// transitions, consumed by cmd/alert_worker.
type AlertJob struct {
	Type        string    `json:"type"`
	To          string    `json:"to"`
	Username    string    `json:"username"`
	LockedUntil time.Time `json:"locked_until,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
