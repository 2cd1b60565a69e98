package handler

import (
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/repository"
)

type userReviewCreate struct {
    ReviewerID   uuid.UUID `json:"reviewer_id" validate:"required"`
    TargetUserID uuid.UUID `json:"target_user_id" validate:"required"`
    Rating       int       `json:"rating" validate:"required,min=1,max=5"`
    Content      string    `json:"content"`
}

func (r userReviewCreate) Entity() *model.UserReview {
    return &model.UserReview{ReviewerID: r.ReviewerID, TargetUserID: r.TargetUserID, Rating: r.Rating, Content: r.Content}
}

type areaReviewCreate struct {
    AreaID  int64     `json:"area_id" validate:"required,gt=0"`
    UserID  uuid.UUID `json:"user_id" validate:"required"`
    Rating  int       `json:"rating" validate:"required,min=1,max=5"`
    Content string    `json:"content"`
}

func (r areaReviewCreate) Entity() *model.AreaReview {
    return &model.AreaReview{AreaID: r.AreaID, UserID: r.UserID, Rating: r.Rating, Content: r.Content}
}

// reviewPatch is shared by both review kinds.
type reviewPatch struct {
    Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
    Content *string `json:"content"`
}

func (p reviewPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "rating", p.Rating)
    put(m, "content", p.Content)
    return m
}

type hashtagCreate struct {
    AreaID int64  `json:"area_id" validate:"required,gt=0"`
    Tag    string `json:"tag" validate:"required,max=50"`
}

func (r hashtagCreate) Entity() *model.Hashtag {
    return &model.Hashtag{AreaID: r.AreaID, Tag: normalizeTag(r.Tag)}
}

type hashtagPatch struct {
    Tag *string `json:"tag" validate:"omitempty,min=1,max=50"`
}

func (p hashtagPatch) Changes() map[string]any {
    m := repository.Changes{}
    if p.Tag != nil {
        m["tag"] = normalizeTag(*p.Tag)
    }
    return m
}

// normalizeTag drops a leading '#' and surrounding blanks.
func normalizeTag(s string) string {
    return strings.TrimPrefix(strings.TrimSpace(s), "#")
}

type (
    UserReviewResource = Resource[model.UserReview, int64, userReviewCreate, reviewPatch]
    AreaReviewResource = Resource[model.AreaReview, int64, areaReviewCreate, reviewPatch]
    HashtagResource    = Resource[model.Hashtag, int64, hashtagCreate, hashtagPatch]
)

func NewUserReviewResource(repo *repository.UserReviewRepo) *UserReviewResource {
    return &UserReviewResource{
        Name:    "user review",
        Store:   repo,
        ParseID: parseInt64,
        Filters: map[string]QueryFilter{"target_user_id": uuidFilter, "reviewer_id": uuidFilter},
        Prepare: func(_ echo.Context, r *model.UserReview) error {
            if r.ReviewerID == r.TargetUserID {
                return apperr.BadRequest("users cannot review themselves")
            }
            return nil
        },
    }
}

func NewAreaReviewResource(repo *repository.AreaReviewRepo) *AreaReviewResource {
    return &AreaReviewResource{
        Name:    "area review",
        Store:   repo,
        ParseID: parseInt64,
        Filters: map[string]QueryFilter{"area_id": int64Filter, "user_id": uuidFilter},
    }
}

// NewHashtagResource reports a repeated (area_id, tag) pair as a conflict.
func NewHashtagResource(repo *repository.HashtagRepo) *HashtagResource {
    return &HashtagResource{
        Name:    "hashtag",
        Store:   repo,
        ParseID: parseInt64,
        Filters: map[string]QueryFilter{"area_id": int64Filter, "tag": func(raw string) (any, error) { return normalizeTag(raw), nil }},
    }
}
