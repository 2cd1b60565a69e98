// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import "time"

// ActivityQueue is the durable queue every activity event goes to.
const ActivityQueue = "travel.activity"

// Activity event types.
const (
	EventOrderCreated  = "order.created"
	EventOrderRefunded = "order.refunded"
	EventPointsGranted = "points.granted"
	EventPointsUsed    = "points.used"
	EventUserSignedUp  = "user.signed_up"
)

// ActivityEvent is published after a write that downstream consumers
// (audit log, notifications, analytics) care about.  It is self-contained so
// consumers never have to query the primary database.
type ActivityEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	EntityID   string    `json:"entity_id"`
	Amount     int64     `json:"amount,omitempty"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
