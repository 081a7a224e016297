// Package rabbitmq publishes committed ledger entries to a durable topic
// exchange for downstream consumers (notifications, analytics). Publishing is
// best-effort: the caller never fails a transfer over a broker outage.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"digital-wallet-backend/internal/core/domain"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// Publisher implements ports.EventPublisher over a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      zerolog.Logger
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(amqpURL, exchange string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()   //nolint:errcheck
		conn.Close() //nolint:errcheck
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      log.With().Str("component", "ledger_event_publisher").Logger(),
	}, nil
}

// PublishLedgerEntry publishes an entry under a routing key of the form
// ledger.<entry_type>.<status>.
func (p *Publisher) PublishLedgerEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	routingKey := fmt.Sprintf("ledger.%s.%s", entry.EntryType, entry.Status)
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			MessageId:   entry.Reference,
			Body:        body,
		},
	)
	if err != nil {
		// One-shot retry on a fresh channel; broker restarts kill channels.
		if ch, chErr := p.conn.Channel(); chErr == nil {
			p.channel = ch
			err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp091.Publishing{
				ContentType: "application/json",
				Timestamp:   time.Now(),
				MessageId:   entry.Reference,
				Body:        body,
			})
		}
	}
	if err != nil {
		return fmt.Errorf("publishing ledger entry %s: %w", entry.Reference, err)
	}

	p.log.Debug().
		Str("reference", entry.Reference).
		Str("routing_key", routingKey).
		Msg("ledger entry published")
	return nil
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close() //nolint:errcheck
	}
	if p.conn != nil {
		p.conn.Close() //nolint:errcheck
	}
}

// NoopPublisher is used when no broker is configured. Publishes are dropped
// silently; Close is a no-op.
type NoopPublisher struct{}

func (NoopPublisher) PublishLedgerEntry(context.Context, *domain.LedgerEntry) error { return nil }
func (NoopPublisher) Close()                                                        {}
