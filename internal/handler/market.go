package handler

import (
    "strconv"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/queue"
    "github.com/iliyamo/travel-marketplace/internal/repository"
    "github.com/iliyamo/travel-marketplace/internal/service"
)

type listingCreate struct {
    SellerID       uuid.UUID  `json:"seller_id" validate:"required"`
    IsClosed       bool       `json:"is_closed"`
    Detail         string     `json:"detail"`
    SellerInfo     string     `json:"seller_info"`
    PromotionStart *time.Time `json:"promotion_start"`
    PromotionEnd   *time.Time `json:"promotion_end"`
    Amount         int64      `json:"amount" validate:"gte=0"`
}

func (r listingCreate) Entity() *model.Listing {
    return &model.Listing{
        SellerID:       r.SellerID,
        IsClosed:       r.IsClosed,
        Detail:         r.Detail,
        SellerInfo:     r.SellerInfo,
        PromotionStart: r.PromotionStart,
        PromotionEnd:   r.PromotionEnd,
        Amount:         r.Amount,
    }
}

type listingPatch struct {
    IsClosed       *bool      `json:"is_closed"`
    Detail         *string    `json:"detail"`
    SellerInfo     *string    `json:"seller_info"`
    PromotionStart *time.Time `json:"promotion_start"`
    PromotionEnd   *time.Time `json:"promotion_end"`
    Amount         *int64     `json:"amount" validate:"omitempty,gte=0"`
}

func (p listingPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "is_closed", p.IsClosed)
    put(m, "detail", p.Detail)
    put(m, "seller_info", p.SellerInfo)
    put(m, "promotion_start", p.PromotionStart)
    put(m, "promotion_end", p.PromotionEnd)
    put(m, "amount", p.Amount)
    return m
}

type orderCreate struct {
    BuyerID   uuid.UUID `json:"buyer_id" validate:"required"`
    ListingID uuid.UUID `json:"listing_id" validate:"required"`
    Amount    int64     `json:"amount" validate:"gte=0"`
}

func (r orderCreate) Entity() *model.Order {
    return &model.Order{BuyerID: r.BuyerID, ListingID: r.ListingID, Amount: r.Amount}
}

type orderPatch struct {
    Amount     *int64 `json:"amount" validate:"omitempty,gte=0"`
    IsRefunded *bool  `json:"is_refunded"`
}

func (p orderPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "amount", p.Amount)
    put(m, "is_refunded", p.IsRefunded)
    return m
}

type (
    ListingResource = Resource[model.Listing, uuid.UUID, listingCreate, listingPatch]
    OrderResource   = Resource[model.Order, uuid.UUID, orderCreate, orderPatch]
)

func NewListingResource(repo *repository.ListingRepo) *ListingResource {
    return &ListingResource{
        Name:    "listing",
        Store:   repo,
        ParseID: parseUUID,
        Filters: map[string]QueryFilter{"seller_id": uuidFilter},
    }
}

// NewOrderResource publishes order.created and order.refunded activity.
func NewOrderResource(repo *repository.OrderRepo, n *service.Notifier) *OrderResource {
    return &OrderResource{
        Name:    "order",
        Store:   repo,
        ParseID: parseUUID,
        Filters: map[string]QueryFilter{"buyer_id": uuidFilter, "listing_id": uuidFilter},
        Created: func(_ echo.Context, o *model.Order) {
            n.Notify(queue.ActivityEvent{
                Type:     queue.EventOrderCreated,
                UserID:   o.BuyerID.String(),
                EntityID: o.ID.String(),
                Amount:   o.Amount,
                Note:     "listing " + o.ListingID.String(),
            })
        },
        Updated: func(_ echo.Context, before, after *model.Order) {
            if before.IsRefunded || !after.IsRefunded {
                return
            }
            n.Notify(queue.ActivityEvent{
                Type:     queue.EventOrderRefunded,
                UserID:   after.BuyerID.String(),
                EntityID: after.ID.String(),
                Amount:   after.Amount,
                Note:     "refund of " + strconv.FormatInt(after.Amount, 10),
            })
        },
    }
}
