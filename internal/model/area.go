package model

import "time"

// Area is a tourist destination in the catalog.
type Area struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Address      string    `db:"address" json:"address"`
	Website      string    `db:"website" json:"website"`
	ContactNum   string    `db:"contact_num" json:"contact_num"`
	OpenTime     string    `db:"open_time" json:"open_time"`
	VisitorCount int64     `db:"visitor_count" json:"visitor_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (a *Area) PrimaryKey() int64         { return a.ID }
func (a *Area) BeforeCreate(now time.Time) { a.CreatedAt = now }

// AreaImage is a picture attached to an Area; it goes away with its area.
type AreaImage struct {
	ID        int64     `db:"id" json:"id"`
	AreaID    int64     `db:"area_id" json:"area_id"`
	AreaImg   string    `db:"area_img" json:"area_img"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (i *AreaImage) PrimaryKey() int64         { return i.ID }
func (i *AreaImage) BeforeCreate(now time.Time) { i.CreatedAt = now }

// Hashtag labels an Area.  (area_id, tag) is unique.
type Hashtag struct {
	ID        int64     `db:"id" json:"id"`
	AreaID    int64     `db:"area_id" json:"area_id"`
	Tag       string    `db:"tag" json:"tag"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (h *Hashtag) PrimaryKey() int64         { return h.ID }
func (h *Hashtag) BeforeCreate(now time.Time) { h.CreatedAt = now }
