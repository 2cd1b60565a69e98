// Package curation picks one of the most visited areas and describes it.
package curation

import (
    "context"
    "errors"
    "math/rand/v2"

    "github.com/rs/zerolog"

    "github.com/iliyamo/travel-marketplace/internal/model"
)

// TopN is how many of the most visited areas are candidates.
const TopN = 5

// ErrNoAreas means the catalog is empty.
var ErrNoAreas = errors.New("no areas to curate")

// AreaSource is satisfied by *repository.AreaRepo.
type AreaSource interface {
    TopByVisitors(ctx context.Context, n int) ([]model.Area, error)
}

// Pick is one curated area.
type Pick struct {
    Area     model.Area `json:"area"`
    Curation string     `json:"curation"`
}

type Service struct {
    areas  AreaSource
    writer Writer
    log    zerolog.Logger
    intn   func(n int) int
}

func NewService(areas AreaSource, writer Writer, log zerolog.Logger) *Service {
    if writer == nil {
        writer = NopWriter{}
    }
    return &Service{areas: areas, writer: writer, log: log, intn: rand.IntN}
}

// Pick chooses at random among the TopN areas.  A writer failure is logged
// and yields an empty text; the area is still returned.
func (s *Service) Pick(ctx context.Context) (Pick, error) {
    top, err := s.areas.TopByVisitors(ctx, TopN)
    if err != nil {
        return Pick{}, err
    }
    if len(top) == 0 {
        return Pick{}, ErrNoAreas
    }
    area := top[s.intn(len(top))]

    text, err := s.writer.Write(ctx, area)
    if err != nil {
        s.log.Warn().Err(err).Int64("area_id", area.ID).Msg("curation text unavailable")
        text = ""
    }
    return Pick{Area: area, Curation: text}, nil
}
