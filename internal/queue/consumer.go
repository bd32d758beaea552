package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/model"
)

// ReservationRecorder stores ledger entries. Recording the same reservation
// twice must be harmless.
type ReservationRecorder interface {
	Record(ctx context.Context, r model.Reservation) error
}

// BookingConsumer feeds confirmed bookings into the reservation ledger.
type BookingConsumer struct {
	url      string
	recorder ReservationRecorder
	log      *zap.Logger
}

func NewBookingConsumer(url string, recorder ReservationRecorder, log *zap.Logger) *BookingConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingConsumer{url: url, recorder: recorder, log: log.Named("booking-consumer")}
}

// Run connects to the broker and consumes booking.confirmed until ctx is
// cancelled, reconnecting with exponential backoff (capped at 30s) whenever
// the connection drops.
func (bc *BookingConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(bc.url)
		if err != nil {
			bc.log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = bc.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		bc.log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (bc *BookingConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		bc.log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, BookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	bc.log.Info("consuming", zap.String("queue", BookingQueueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			bc.deliver(ctx, d)
		}
	}
}

// acknowledger is the part of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (bc *BookingConsumer) deliver(ctx context.Context, d amqp.Delivery) {
	settle(bc.handle(ctx, d.Body), d, bc.log)
}

func settle(err error, d acknowledger, log *zap.Logger) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, errRetry):
		log.Warn("record reservation failed, requeueing", zap.Error(err))
		_ = d.Nack(false, true)
	default:
		// Malformed messages would fail the same way on every redelivery.
		log.Error("drop booking message", zap.Error(err))
		_ = d.Nack(false, false)
	}
}

var errRetry = errors.New("retryable")

// handle records one booking.confirmed message. Storage failures are
// wrapped with errRetry; anything else marks the message as unusable.
func (bc *BookingConsumer) handle(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	res, err := ev.Reservation()
	if err != nil {
		return fmt.Errorf("reservation %d: %w", ev.ReservationID, err)
	}
	if err := bc.recorder.Record(ctx, res); err != nil {
		return fmt.Errorf("%w: %w", errRetry, err)
	}
	bc.log.Info("reservation recorded",
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("screening_id", res.ScreeningID),
		zap.Int("seats", res.Seats))
	return nil
}
