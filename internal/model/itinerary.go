package model

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryRequest is a traveller's questionnaire attached to an order.
// Deleting one only flips IsDeleted; the row stays in the table.
type ItineraryRequest struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ListingID      uuid.UUID  `db:"listing_id" json:"listing_id"`
	OrderID        uuid.UUID  `db:"order_id" json:"order_id"`
	RequestUserID  uuid.UUID  `db:"request_user_id" json:"request_user_id"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Birthday       Date       `db:"birthday" json:"birthday"`
	PersonUnder    int        `db:"person_under" json:"person_under"`
	PersonOver     int        `db:"person_over" json:"person_over"`
	ContactMethod  string     `db:"contact_method" json:"contact_method"`
	Contact        string     `db:"contact" json:"contact"`
	TravelStart    Date       `db:"travel_start" json:"travel_start"`
	TravelEnd      Date       `db:"travel_end" json:"travel_end"`
	TravelPurpose  string     `db:"travel_purpose" json:"travel_purpose"`
	TravelPri      StringList `db:"travel_pri" json:"travel_pri"`
	TransportPri   StringList `db:"transport_pri" json:"transport_pri"`
	TravelRestrict string     `db:"travel_restrict" json:"travel_restrict"`
	TravelAddi     string     `db:"travel_addi" json:"travel_addi"`
	IsDeleted      bool       `db:"is_deleted" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (r *ItineraryRequest) PrimaryKey() uuid.UUID { return r.ID }

func (r *ItineraryRequest) BeforeCreate(now time.Time) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.IsDeleted = false
	r.CreatedAt = now
}

// Itinerary is the plan produced for a user, optionally from a request.
type Itinerary struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	UserID    uuid.UUID     `db:"user_id" json:"user_id"`
	RequestID uuid.NullUUID `db:"request_id" json:"request_id"`
	Title     string        `db:"title" json:"title"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

func (i *Itinerary) PrimaryKey() uuid.UUID { return i.ID }

func (i *Itinerary) BeforeCreate(now time.Time) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.CreatedAt = now
}

// PlaceContainer is one stop of an itinerary day.
type PlaceContainer struct {
	ID          int64     `db:"id" json:"id"`
	ItineraryID uuid.UUID `db:"itinerary_id" json:"itinerary_id"`
	Date        Date      `db:"date" json:"date"`
	PlaceName   string    `db:"place_name" json:"place_name"`
	Memo        string    `db:"memo" json:"memo"`
	OrderIndex  int       `db:"order_index" json:"order_index"`
}

func (p *PlaceContainer) PrimaryKey() int64 { return p.ID }

// TransportContainer is one leg of travel between stops.
type TransportContainer struct {
	ID            int64     `db:"id" json:"id"`
	ItineraryID   uuid.UUID `db:"itinerary_id" json:"itinerary_id"`
	Date          Date      `db:"date" json:"date"`
	TransportType string    `db:"transport_type" json:"transport_type"`
	Departure     string    `db:"departure" json:"departure"`
	Arrival       string    `db:"arrival" json:"arrival"`
	Memo          string    `db:"memo" json:"memo"`
}

func (t *TransportContainer) PrimaryKey() int64 { return t.ID }
