package model

import (
	"time"

	"github.com/google/uuid"
)

// Event types recorded in point_events.
const (
	PointEventEarn   = "EARN"
	PointEventUse    = "USE"
	PointEventExpire = "EXPIRE"
	PointEventAdjust = "ADJUST"
)

// PointEvent is a ledger entry crediting (or, with a negative amount,
// debiting) a user's balance.
type PointEvent struct {
	ID        int64      `db:"id" json:"id"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	EventType string     `db:"event_type" json:"event_type"`
	Amount    int64      `db:"amount" json:"amount"`
	Detail    string     `db:"detail" json:"detail"`
	EventDate time.Time  `db:"event_date" json:"event_date"`
	ExpDate   *time.Time `db:"exp_date" json:"exp_date"`
}

func (e *PointEvent) PrimaryKey() int64 { return e.ID }

func (e *PointEvent) BeforeCreate(now time.Time) {
	if e.EventDate.IsZero() {
		e.EventDate = now
	}
}

// PointDetail consumes Point from the event it references.  RelatedEventID,
// when set, points at the event that caused the consumption and may equal
// EventID.
type PointDetail struct {
	ID             int64     `db:"id" json:"id"`
	EventID        int64     `db:"event_id" json:"event_id"`
	RelatedEventID *int64    `db:"related_event_id" json:"related_event_id"`
	PointDate      time.Time `db:"point_date" json:"point_date"`
	Point          int64     `db:"point" json:"point"`
}

func (d *PointDetail) PrimaryKey() int64 { return d.ID }

func (d *PointDetail) BeforeCreate(now time.Time) {
	if d.PointDate.IsZero() {
		d.PointDate = now
	}
}
