package mq

// Queue names and message definitions

// immediate queue from the web handlers to the mail workflow
// deliver message to ask the mail workflow to send a password reset email
const (
	PasswordResetMailQueue = "mail.password_reset.immediate"
)

type PasswordResetMailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// Attempt counts failed deliveries so far.
	Attempt int `json:"attempt"`
}

// delay queue from the mail workflow back to itself
// a mail that failed to send waits here, then is dead-lettered to the immediate queue again
const (
	PasswordResetMailRetryQueue      = "mail.password_reset.retry.delay"
	PasswordResetMailRetryExchange   = "mail.retry.exchange"
	PasswordResetMailRetryRoutingKey = "mail.password_reset.retry"

	MailRetryDelayMillis = 60 * 1000
)
