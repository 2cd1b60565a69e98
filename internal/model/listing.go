package model

import (
	"time"

	"github.com/google/uuid"
)

// Listing is a product offered by a seller.  Promotion bounds are optional.
type Listing struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	SellerID       uuid.UUID  `db:"seller_id" json:"seller_id"`
	IsClosed       bool       `db:"is_closed" json:"is_closed"`
	Detail         string     `db:"detail" json:"detail"`
	SellerInfo     string     `db:"seller_info" json:"seller_info"`
	PromotionStart *time.Time `db:"promotion_start" json:"promotion_start"`
	PromotionEnd   *time.Time `db:"promotion_end" json:"promotion_end"`
	Amount         int64      `db:"amount" json:"amount"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

func (l *Listing) PrimaryKey() uuid.UUID { return l.ID }

func (l *Listing) BeforeCreate(now time.Time) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = now
}

// Order records a buyer purchasing a listing.
type Order struct {
	ID         uuid.UUID `db:"id" json:"id"`
	BuyerID    uuid.UUID `db:"buyer_id" json:"buyer_id"`
	ListingID  uuid.UUID `db:"listing_id" json:"listing_id"`
	Amount     int64     `db:"amount" json:"amount"`
	IsRefunded bool      `db:"is_refunded" json:"is_refunded"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (o *Order) PrimaryKey() uuid.UUID { return o.ID }

func (o *Order) BeforeCreate(now time.Time) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = now
}
