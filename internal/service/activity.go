// Package service holds the use cases that sit between HTTP handlers and
// the repositories: activity recording, the owner dashboard, tenant
// browsing and account removal.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/queue"
)

// ActivityRecorder is notified of every listing change.  Recording is best
// effort: failures are logged and never fail the request that caused them.
type ActivityRecorder interface {
	Record(ctx context.Context, ev queue.ListingActivityEvent)
}

// ActivityStore is the part of repository.ActivityRepo the recorders use.
type ActivityStore interface {
	Append(ctx context.Context, ownerEmail string, e model.ActivityEntry) error
}

// NewEvent fills the id and timestamp of an event.
func NewEvent(owner, kind, action string) queue.ListingActivityEvent {
	return queue.ListingActivityEvent{
		ID:         uuid.NewString(),
		OwnerEmail: model.NormalizeEmail(owner),
		Kind:       kind,
		Action:     action,
		OccurredAt: time.Now().UnixMilli(),
	}
}

// DirectRecorder appends events straight to the activity store.
type DirectRecorder struct {
	store ActivityStore
	log   *zap.Logger
}

func NewDirectRecorder(store ActivityStore, log *zap.Logger) *DirectRecorder {
	return &DirectRecorder{store: store, log: log}
}

func (r *DirectRecorder) Record(ctx context.Context, ev queue.ListingActivityEvent) {
	if err := r.store.Append(ctx, ev.OwnerEmail, ev.Entry()); err != nil {
		r.log.Warn("record activity failed", zap.Error(err), zap.String("owner", ev.OwnerEmail))
	}
}

// AMQPRecorder publishes events to ListingActivityQueue for the consumer
// to store.  When the broker is unreachable the event goes to fallback so
// the feed does not lose entries.
type AMQPRecorder struct {
	url      string
	fallback ActivityRecorder
	log      *zap.Logger
}

func NewAMQPRecorder(url string, fallback ActivityRecorder, log *zap.Logger) *AMQPRecorder {
	return &AMQPRecorder{url: url, fallback: fallback, log: log}
}

func (r *AMQPRecorder) Record(ctx context.Context, ev queue.ListingActivityEvent) {
	if err := PublishListingActivity(ctx, r.url, ev); err != nil {
		r.log.Warn("publish activity failed; storing directly", zap.Error(err))
		if r.fallback != nil {
			r.fallback.Record(ctx, ev)
		}
	}
}

// PublishListingActivity publishes ev to the "listing.activity" queue.
// Messages are marked as persistent.
func PublishListingActivity(ctx context.Context, url string, ev queue.ListingActivityEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.ListingActivityQueue, // name
		true,                       // durable
		false,                      // autoDelete
		false,                      // exclusive
		false,                      // noWait
		nil,                        // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	return ch.PublishWithContext(ctx, "", queue.ListingActivityQueue, false, false, pub)
}
