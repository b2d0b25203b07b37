package workflow

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/mail"
	"github.com/qs-lzh/movie-list/internal/mq"
)

// MaxMailAttempts bounds how many times one mail is tried before it is dropped.
const MaxMailAttempts = 3

type MailWorkflow struct {
	sender mail.Sender
	logger *zap.Logger
}

func NewMailWorkflow(sender mail.Sender, logger *zap.Logger) *MailWorkflow {
	return &MailWorkflow{
		sender: sender,
		logger: logger.Named("mail_workflow"),
	}
}

func (w *MailWorkflow) Start(mqConn *amqp.Connection) error {
	if err := w.ConsumePasswordResetMail(mqConn); err != nil {
		return err
	}
	return nil
}

func (w *MailWorkflow) ConsumePasswordResetMail(conn *amqp.Connection) error {
	ch, err := mq.NewChannel(conn)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(mq.PasswordResetMailQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handlePasswordResetMail(context.Background(), ch, msg); err != nil {
				w.logger.Error("failed to handle password reset mail", zap.Error(err))
			}
		}
	}()

	return nil
}

// handlePasswordResetMail sends one queued mail. A failed send is parked on
// the retry delay queue until MaxMailAttempts is reached.
func (w *MailWorkflow) handlePasswordResetMail(ctx context.Context, p mq.Publisher, msg amqp.Delivery) error {
	var message mq.PasswordResetMailMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		msg.Nack(false, false)
		return err
	}

	sendErr := w.sender.Send(ctx, mail.Message{
		To:      message.To,
		Subject: message.Subject,
		Body:    message.Body,
	})
	if sendErr == nil {
		msg.Ack(false)
		return nil
	}

	message.Attempt++
	if message.Attempt >= MaxMailAttempts {
		w.logger.Warn("dropping password reset mail",
			zap.String("to", message.To),
			zap.Int("attempts", message.Attempt))
		msg.Nack(false, false)
		return sendErr
	}

	if err := mq.SendDelayMessage(ctx, p, mq.PasswordResetMailRetryQueue, message); err != nil {
		msg.Nack(false, true)
		return err
	}
	msg.Ack(false)
	return sendErr
}
