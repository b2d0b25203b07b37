package mq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

func InitQueues(mqConn *amqp.Connection) error {
	ch, err := NewChannel(mqConn)
	if err != nil {
		return err
	}
	defer ch.Close()

	// setup all needed queues(list in constants)
	if err := SetupImmediateQueue(ch, PasswordResetMailQueue); err != nil {
		return err
	}
	return SetupDelayQueue(ch, PasswordResetMailRetryQueue, PasswordResetMailRetryExchange,
		PasswordResetMailQueue, PasswordResetMailRetryRoutingKey, MailRetryDelayMillis)
}

func NewMQConn(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func NewChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func SetupImmediateQueue(ch *amqp.Channel, immediateQueueName string) error {
	_, err := ch.QueueDeclare(immediateQueueName, true, false, false, false, nil)
	return err
}

// the delay queue consists three part: delay queue, dead-letter exchange, target queue
// produce to the delay queue, and consume from the target queue
func SetupDelayQueue(ch *amqp.Channel, delayQueueName, exchangeName, targetQueueName, routingKey string, ttlMillis int32) error {
	delayArgs := amqp.Table{
		"x-message-ttl":             ttlMillis,
		"x-dead-letter-exchange":    exchangeName,
		"x-dead-letter-routing-key": routingKey,
	}

	if _, err := ch.QueueDeclare(
		delayQueueName, true, false, false, false, delayArgs); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(exchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(targetQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.QueueBind(targetQueueName, routingKey, exchangeName, false, nil)
}
