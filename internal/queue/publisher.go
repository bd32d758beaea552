package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends screening events to the topic exchange. An amqp channel
// is not safe for concurrent publishing, so sends are serialised.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
	log  *zap.Logger
	now  func() time.Time
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	p := newPublisher(ch, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{ch: ch, log: log.Named("publisher"), now: time.Now}
}

func (p *Publisher) ScreeningCreated(ctx context.Context, s model.Screening) error {
	return p.publish(ctx, RoutingScreeningCreated, s)
}

func (p *Publisher) ScreeningDeleted(ctx context.Context, s model.Screening) error {
	return p.publish(ctx, RoutingScreeningDeleted, s)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, s model.Screening) error {
	at := p.now().UTC()
	body, err := json.Marshal(ScreeningEvent{Type: routingKey, Screening: s, OccurredAt: at})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    at,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.log.Debug("published", zap.String("routing_key", routingKey), zap.Uint64("screening_id", s.ID))
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
