// Package service publishes domain activity to RabbitMQ.  Failures are
// logged and counted but never interrupt the request that caused them.
package service

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"

    "github.com/iliyamo/travel-marketplace/internal/queue"
)

// Publisher delivers one event to the broker.
type Publisher interface {
    Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// AMQPPublisher dials the broker per publish and sends a persistent message
// to the durable activity queue.
type AMQPPublisher struct {
    URL string
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue.ActivityQueue, true, false, false, false, nil); err != nil {
        return err
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    return ch.PublishWithContext(ctx,
        "",                  // default exchange
        queue.ActivityQueue, // routing key = queue name
        false,               // mandatory
        false,               // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent, // store on disk
            Timestamp:    time.Now().UTC(),
            Type:         ev.Type,
            Body:         body,
        })
}

// NopPublisher drops every event; used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ActivityEvent) error { return nil }

// PublishRecorder is satisfied by *metrics.Collector.
type PublishRecorder interface {
    RecordEventPublished(eventType string, err error)
}

// Notifier publishes events in the background.
type Notifier struct {
    pub     Publisher
    log     zerolog.Logger
    rec     PublishRecorder
    timeout time.Duration
    wg      sync.WaitGroup
}

// NewNotifier wraps pub.  rec may be nil.
func NewNotifier(pub Publisher, log zerolog.Logger, rec PublishRecorder) *Notifier {
    if pub == nil {
        pub = NopPublisher{}
    }
    return &Notifier{pub: pub, log: log, rec: rec, timeout: 3 * time.Second}
}

// Notify stamps ev and publishes it on a separate goroutine.
func (n *Notifier) Notify(ev queue.ActivityEvent) {
    if ev.OccurredAt.IsZero() {
        ev.OccurredAt = time.Now().UTC()
    }
    n.wg.Add(1)
    go func() {
        defer n.wg.Done()
        ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
        defer cancel()
        err := n.pub.Publish(ctx, ev)
        if err != nil {
            n.log.Warn().Err(err).Str("type", ev.Type).Msg("publish activity event failed")
        }
        if n.rec != nil {
            n.rec.RecordEventPublished(ev.Type, err)
        }
    }()
}

// Wait blocks until every pending publish has finished.
func (n *Notifier) Wait() { n.wg.Wait() }
