package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// PointEventRepo is the point_events CRUD plus the reads the ledger needs.
type PointEventRepo struct {
	*CRUD[model.PointEvent, int64, *model.PointEvent]
}

func NewPointEventRepo(db *sqlx.DB) *PointEventRepo {
	return &PointEventRepo{CRUD: NewCRUD[model.PointEvent, int64](db, PointEventsTable)}
}

// EventsByUser returns every event owned by userID.
func (r *PointEventRepo) EventsByUser(ctx context.Context, userID uuid.UUID) ([]model.PointEvent, error) {
	q := fmt.Sprintf("SELECT %s FROM point_events WHERE user_id = ? ORDER BY id", PointEventsTable.selectList())
	out := []model.PointEvent{}
	if err := r.DB().SelectContext(ctx, &out, q, userID); err != nil {
		return nil, fmt.Errorf("events by user: %w", err)
	}
	return out, nil
}

// DetailsByEvents returns every detail whose event_id is one of eventIDs.
func (r *PointEventRepo) DetailsByEvents(ctx context.Context, eventIDs []int64) ([]model.PointDetail, error) {
	out := []model.PointDetail{}
	if len(eventIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM point_details WHERE event_id IN (?) ORDER BY id",
		PointDetailsTable.selectList()), eventIDs)
	if err != nil {
		return nil, fmt.Errorf("details by events: %w", err)
	}
	if err := r.DB().SelectContext(ctx, &out, r.DB().Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("details by events: %w", err)
	}
	return out, nil
}
