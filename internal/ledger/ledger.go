// Package ledger derives point balances from the event and detail tables.
// A balance is never stored; it is recomputed on every read.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// Source supplies the rows a balance is computed from.
type Source interface {
	EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.PointEvent, error)
	DetailsByEvents(ctx context.Context, eventIDs []int64) ([]model.PointDetail, error)
}

// Ledger computes balances over a Source.
type Ledger struct {
	src Source
}

func New(src Source) *Ledger { return &Ledger{src: src} }

// Balance is the sum of the user's event amounts minus the points of every
// detail attached to those events.  The result may be negative.
func (l *Ledger) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	events, err := l.src.EventsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("balance for %s: %w", userID, err)
	}
	if len(events) == 0 {
		return 0, nil
	}
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	details, err := l.src.DetailsByEvents(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("balance for %s: %w", userID, err)
	}
	return Compute(events, details), nil
}

// Compute applies the balance formula to rows already in memory.  Details
// that do not belong to one of events are ignored.
func Compute(events []model.PointEvent, details []model.PointDetail) int64 {
	owned := make(map[int64]struct{}, len(events))
	var total int64
	for _, e := range events {
		owned[e.ID] = struct{}{}
		total += e.Amount
	}
	for _, d := range details {
		if _, ok := owned[d.EventID]; ok {
			total -= d.Point
		}
	}
	return total
}
