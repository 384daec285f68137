package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/streadway/amqp"

	"resumelens/resume-analyzer/internal/models"
)

const AnalysisCompletedRoutingKey = "analysis.completed"

type Notifier interface {
	PublishAnalysisCompleted(event models.AnalysisCompletedEvent) error
	Close() error
}

type amqpNotifier struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPNotifier dials the broker and declares a durable topic exchange.
func NewAMQPNotifier(url, exchange string) (Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("✅ RabbitMQ connected, publishing to exchange '%s'\n", exchange)

	return &amqpNotifier{
		conn:     conn,
		exchange: exchange,
	}, nil
}

func (n *amqpNotifier) PublishAnalysisCompleted(event models.AnalysisCompletedEvent) error {
	ch, err := n.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return ch.Publish(
		n.exchange,
		AnalysisCompletedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (n *amqpNotifier) Close() error {
	return n.conn.Close()
}
