package model

import (
	"time"

	"github.com/google/uuid"
)

// UserReview is one user rating another, 1 to 5.
type UserReview struct {
	ID           int64     `db:"id" json:"id"`
	ReviewerID   uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	TargetUserID uuid.UUID `db:"target_user_id" json:"target_user_id"`
	Rating       int       `db:"rating" json:"rating"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (r *UserReview) PrimaryKey() int64         { return r.ID }
func (r *UserReview) BeforeCreate(now time.Time) { r.CreatedAt = now }

// AreaReview is a user's rating of an area, 1 to 5.
type AreaReview struct {
	ID        int64     `db:"id" json:"id"`
	AreaID    int64     `db:"area_id" json:"area_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (r *AreaReview) PrimaryKey() int64         { return r.ID }
func (r *AreaReview) BeforeCreate(now time.Time) { r.CreatedAt = now }
