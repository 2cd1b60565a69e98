package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// AuditLog appends one JSON line per activity event to w.
type AuditLog struct {
    log zerolog.Logger
}

// NewAuditLog writes through a zerolog logger so every line carries a
// timestamp and the event's fields.
func NewAuditLog(w io.Writer) *AuditLog {
    return &AuditLog{log: zerolog.New(w).With().Timestamp().Logger()}
}

// OpenAuditFile opens (creating as needed) logs/activity.log under dir.
func OpenAuditFile(dir string) (*os.File, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("mkdir %s: %w", dir, err)
    }
    return os.OpenFile(filepath.Join(dir, "activity.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Handle decodes one message body and records it.
func (a *AuditLog) Handle(body []byte) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    a.log.Info().
        Str("type", ev.Type).
        Str("user_id", ev.UserID).
        Str("entity_id", ev.EntityID).
        Int64("amount", ev.Amount).
        Str("note", ev.Note).
        Time("occurred_at", ev.OccurredAt).
        Msg("activity")
    return nil
}

// Consumer drains ActivityQueue into an AuditLog, reconnecting with
// exponential backoff until ctx is cancelled.
type Consumer struct {
    URL   string
    Audit *AuditLog
    Log   zerolog.Logger
}

// Run blocks until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.Warn().Err(err).Dur("retry_in", backoff).Msg("activity-consumer: dial failed")
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(backoff):
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.Warn().Err(err).Msg("activity-consumer: consume loop ended; reconnecting")
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2 * time.Second):
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warn().Err(err).Msg("activity-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(ActivityQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    done := make(chan struct{})
    defer close(done)
    go func() {
        select {
        case <-ctx.Done():
            _ = ch.Close() // ends the deliveries range below
        case <-done:
        }
    }()

    for d := range msgs {
        if err := c.Audit.Handle(d.Body); err != nil {
            c.Log.Error().Err(err).Msg("activity-consumer: handle message failed")
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}
