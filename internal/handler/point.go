package handler

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/ledger"
    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/queue"
    "github.com/iliyamo/travel-marketplace/internal/repository"
    "github.com/iliyamo/travel-marketplace/internal/service"
)

type eventCreate struct {
    UserID    uuid.UUID  `json:"user_id" validate:"required"`
    EventType string     `json:"event_type" validate:"required,max=30"`
    Amount    int64      `json:"amount"`
    Detail    string     `json:"detail"`
    EventDate *time.Time `json:"event_date"`
    ExpDate   *time.Time `json:"exp_date"`
}

func (r eventCreate) Entity() *model.PointEvent {
    e := &model.PointEvent{
        UserID:    r.UserID,
        EventType: strings.TrimSpace(r.EventType),
        Amount:    r.Amount,
        Detail:    r.Detail,
        ExpDate:   r.ExpDate,
    }
    if r.EventDate != nil {
        e.EventDate = r.EventDate.UTC()
    }
    return e
}

type eventPatch struct {
    EventType *string    `json:"event_type" validate:"omitempty,min=1,max=30"`
    Amount    *int64     `json:"amount"`
    Detail    *string    `json:"detail"`
    EventDate *time.Time `json:"event_date"`
    ExpDate   *time.Time `json:"exp_date"`
}

func (p eventPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "event_type", p.EventType)
    put(m, "amount", p.Amount)
    put(m, "detail", p.Detail)
    put(m, "event_date", p.EventDate)
    put(m, "exp_date", p.ExpDate)
    return m
}

type detailCreate struct {
    EventID        int64      `json:"event_id" validate:"required,gt=0"`
    RelatedEventID *int64     `json:"related_event_id" validate:"omitempty,gt=0"`
    PointDate      *time.Time `json:"point_date"`
    Point          int64      `json:"point"`
}

func (r detailCreate) Entity() *model.PointDetail {
    d := &model.PointDetail{EventID: r.EventID, RelatedEventID: r.RelatedEventID, Point: r.Point}
    if r.PointDate != nil {
        d.PointDate = r.PointDate.UTC()
    }
    return d
}

type detailPatch struct {
    RelatedEventID *int64     `json:"related_event_id" validate:"omitempty,gt=0"`
    PointDate      *time.Time `json:"point_date"`
    Point          *int64     `json:"point"`
}

func (p detailPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "related_event_id", p.RelatedEventID)
    put(m, "point_date", p.PointDate)
    put(m, "point", p.Point)
    return m
}

type (
    EventResource  = Resource[model.PointEvent, int64, eventCreate, eventPatch]
    DetailResource = Resource[model.PointDetail, int64, detailCreate, detailPatch]
)

// BalanceRecorder is satisfied by *metrics.Collector.
type BalanceRecorder interface {
    RecordBalanceLookup()
}

// PointHandler serves point events, point details and balances.
type PointHandler struct {
    Events   *EventResource // writes
    MyEvents *EventResource // reads, restricted to the caller's own events
    Details  *DetailResource

    ledger *ledger.Ledger
    rec    BalanceRecorder
}

type balanceResp struct {
    UserID  uuid.UUID `json:"user_id"`
    Balance int64     `json:"balance"`
}

// NewPointHandler wires the point resources.  rec may be nil.
func NewPointHandler(events *repository.PointEventRepo, details *repository.PointDetailRepo, n *service.Notifier, rec BalanceRecorder) *PointHandler {
    h := &PointHandler{ledger: ledger.New(events), rec: rec}

    h.Events = &EventResource{
        Name:    "point event",
        Store:   events,
        ParseID: parseInt64,
        Filters: map[string]QueryFilter{"user_id": uuidFilter},
        Created: func(_ echo.Context, e *model.PointEvent) {
            typ := queue.EventPointsGranted
            if e.Amount < 0 {
                typ = queue.EventPointsUsed
            }
            n.Notify(queue.ActivityEvent{
                Type:     typ,
                UserID:   e.UserID.String(),
                EntityID: strconv.FormatInt(e.ID, 10),
                Amount:   e.Amount,
                Note:     e.EventType,
            })
        },
    }

    h.MyEvents = &EventResource{
        Name:    "point event",
        Store:   events,
        ParseID: parseInt64,
        Scope: func(c echo.Context) ([]repository.Filter, error) {
            uid, err := getUserID(c)
            if err != nil {
                return nil, err
            }
            return []repository.Filter{repository.Eq("user_id", uid)}, nil
        },
        Authorize: func(c echo.Context, e *model.PointEvent) error {
            uid, err := getUserID(c)
            if err != nil {
                return err
            }
            if e.UserID != uid {
                return apperr.Forbidden("point event belongs to another user")
            }
            return nil
        },
    }

    // A detail must point at existing events.
    h.Details = &DetailResource{
        Name:    "point detail",
        Store:   details,
        ParseID: parseInt64,
        Filters: map[string]QueryFilter{"event_id": int64Filter},
        Prepare: func(c echo.Context, d *model.PointDetail) error {
            ctx, cancel := reqCtx(c)
            defer cancel()
            if _, err := events.Get(ctx, d.EventID); err != nil {
                return mapRepoErr(err, "point event")
            }
            if d.RelatedEventID != nil && *d.RelatedEventID != d.EventID {
                if _, err := events.Get(ctx, *d.RelatedEventID); err != nil {
                    return mapRepoErr(err, "related point event")
                }
            }
            return nil
        },
        Created: func(c echo.Context, d *model.PointDetail) {
            ev := queue.ActivityEvent{
                Type:     queue.EventPointsUsed,
                EntityID: strconv.FormatInt(d.ID, 10),
                Amount:   d.Point,
                Note:     "event " + strconv.FormatInt(d.EventID, 10),
            }
            ctx, cancel := reqCtx(c)
            defer cancel()
            if e, err := events.Get(ctx, d.EventID); err == nil {
                ev.UserID = e.UserID.String()
            }
            n.Notify(ev)
        },
    }
    return h
}

// Balance handles GET /point/user/:user_id/balance.  Routed behind
// CookieAuth and RequireSelf("user_id").
func (h *PointHandler) Balance(c echo.Context) error {
    uid, err := parseUUID(c.Param("user_id"))
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    bal, err := h.ledger.Balance(ctx, uid)
    if err != nil {
        return apperr.Internal(err)
    }
    if h.rec != nil {
        h.rec.RecordBalanceLookup()
    }
    return c.JSON(http.StatusOK, balanceResp{UserID: uid, Balance: bal})
}
