// Package events publica los eventos de alquiler en un exchange topic de RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/jhoicas/rentmojo-api/internal/application/ports"
)

var (
	_ ports.EventPublisher = (*AMQPPublisher)(nil)
	_ ports.EventPublisher = Nop{}
)

// channel lo que el publicador usa de *amqp.Channel.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publica cada evento con su tipo como routing key.
// *amqp.Channel no admite publicaciones concurrentes, por eso el mutex.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      zerolog.Logger
}

// Connect abre la conexión con reintentos y declara el exchange (topic, durable).
func Connect(url, exchange string, retries int, delay time.Duration, log zerolog.Logger) (*AMQPPublisher, error) {
	const op = "events.Connect"
	var (
		conn *amqp.Connection
		err  error
	)
	for i, n := 0, max(retries, 1); i < n; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: channel: %w", op, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: exchange %s: %w", op, exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// Publish serializa el evento como JSON persistente. Los fallos se registran y se devuelven.
func (p *AMQPPublisher) Publish(_ context.Context, e ports.RentalEvent) error {
	const op = "events.Publish"
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.mu.Lock()
	err = p.ch.Publish(p.exchange, e.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		MessageId:    e.RentalID + ":" + e.Type + ":" + e.OccurredAt.Format(time.RFC3339Nano),
	})
	p.mu.Unlock()
	if err != nil {
		p.log.Error().Err(err).Str("event", e.Type).Str("rental_id", e.RentalID).Msg("publicar evento")
		return fmt.Errorf("%s: %w", op, err)
	}
	p.log.Debug().Str("event", e.Type).Str("rental_id", e.RentalID).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop publicador desactivado (sin AMQP_URL).
type Nop struct{}

func (Nop) Publish(context.Context, ports.RentalEvent) error { return nil }
