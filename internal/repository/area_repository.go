package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// AreaRepo is the areas CRUD plus the popularity query used by curation.
type AreaRepo struct {
	*CRUD[model.Area, int64, *model.Area]
}

func NewAreaRepo(db *sqlx.DB) *AreaRepo {
	return &AreaRepo{CRUD: NewCRUD[model.Area, int64](db, AreasTable)}
}

// TopByVisitors returns the n most visited areas, ties broken by id.
func (r *AreaRepo) TopByVisitors(ctx context.Context, n int) ([]model.Area, error) {
	q := fmt.Sprintf("SELECT %s FROM areas ORDER BY visitor_count DESC, id ASC LIMIT ?", AreasTable.selectList())
	out := []model.Area{}
	if err := r.DB().SelectContext(ctx, &out, q, n); err != nil {
		return nil, fmt.Errorf("top areas: %w", err)
	}
	return out, nil
}
