package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/qs-lzh/movie-list/internal/mail"
	"github.com/qs-lzh/movie-list/internal/mq"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fakePublisher struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, msg.Body)
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, msg mq.PasswordResetMailMessage) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandlePasswordResetMail_Sent(t *testing.T) {
	sender := &fakeSender{}
	w := NewMailWorkflow(sender, zap.NewNop())
	ack := &fakeAcknowledger{}

	err := w.handlePasswordResetMail(context.Background(), &fakePublisher{}, delivery(t, ack, mq.PasswordResetMailMessage{
		To: "a@b.com", Subject: "Reset", Body: "link",
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, []mail.Message{{To: "a@b.com", Subject: "Reset", Body: "link"}}, sender.sent)
}

func TestHandlePasswordResetMail_RetryLater(t *testing.T) {
	w := NewMailWorkflow(&fakeSender{err: errors.New("smtp down")}, zap.NewNop())
	ack := &fakeAcknowledger{}
	pub := &fakePublisher{}

	err := w.handlePasswordResetMail(context.Background(), pub, delivery(t, ack, mq.PasswordResetMailMessage{To: "a@b.com"}))
	require.Error(t, err)

	assert.Equal(t, 1, ack.acked)
	require.Equal(t, []string{mq.PasswordResetMailRetryQueue}, pub.keys)

	var retried mq.PasswordResetMailMessage
	require.NoError(t, json.Unmarshal(pub.bodies[0], &retried))
	assert.Equal(t, 1, retried.Attempt)
}

func TestHandlePasswordResetMail_GiveUp(t *testing.T) {
	w := NewMailWorkflow(&fakeSender{err: errors.New("smtp down")}, zap.NewNop())
	ack := &fakeAcknowledger{}
	pub := &fakePublisher{}

	err := w.handlePasswordResetMail(context.Background(), pub, delivery(t, ack, mq.PasswordResetMailMessage{
		To: "a@b.com", Attempt: MaxMailAttempts - 1,
	}))
	require.Error(t, err)

	assert.Empty(t, pub.keys)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandlePasswordResetMail_RetryPublishFails(t *testing.T) {
	w := NewMailWorkflow(&fakeSender{err: errors.New("smtp down")}, zap.NewNop())
	ack := &fakeAcknowledger{}

	err := w.handlePasswordResetMail(context.Background(), &fakePublisher{err: errors.New("closed")},
		delivery(t, ack, mq.PasswordResetMailMessage{To: "a@b.com"}))
	require.Error(t, err)

	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestHandlePasswordResetMail_Malformed(t *testing.T) {
	w := NewMailWorkflow(&fakeSender{}, zap.NewNop())
	ack := &fakeAcknowledger{}

	err := w.handlePasswordResetMail(context.Background(), &fakePublisher{}, amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
	require.Error(t, err)

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}
