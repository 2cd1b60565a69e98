package handler

import (
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/repository"
)

// ----- itinerary requests -----

type requestCreate struct {
    ListingID      uuid.UUID        `json:"listing_id" validate:"required"`
    OrderID        uuid.UUID        `json:"order_id" validate:"required"`
    FirstName      string           `json:"first_name" validate:"required,max=50"`
    LastName       string           `json:"last_name" validate:"required,max=50"`
    Birthday       model.Date       `json:"birthday"`
    PersonUnder    int              `json:"person_under" validate:"gte=0"`
    PersonOver     int              `json:"person_over" validate:"gte=0"`
    ContactMethod  string           `json:"contact_method"`
    Contact        string           `json:"contact"`
    TravelStart    model.Date       `json:"travel_start"`
    TravelEnd      model.Date       `json:"travel_end"`
    TravelPurpose  string           `json:"travel_purpose"`
    TravelPri      model.StringList `json:"travel_pri"`
    TransportPri   model.StringList `json:"transport_pri"`
    TravelRestrict string           `json:"travel_restrict"`
    TravelAddi     string           `json:"travel_addi"`
}

func (r requestCreate) Entity() *model.ItineraryRequest {
    return &model.ItineraryRequest{
        ListingID:      r.ListingID,
        OrderID:        r.OrderID,
        FirstName:      r.FirstName,
        LastName:       r.LastName,
        Birthday:       r.Birthday,
        PersonUnder:    r.PersonUnder,
        PersonOver:     r.PersonOver,
        ContactMethod:  r.ContactMethod,
        Contact:        r.Contact,
        TravelStart:    r.TravelStart,
        TravelEnd:      r.TravelEnd,
        TravelPurpose:  r.TravelPurpose,
        TravelPri:      r.TravelPri,
        TransportPri:   r.TransportPri,
        TravelRestrict: r.TravelRestrict,
        TravelAddi:     r.TravelAddi,
    }
}

type requestPatch struct {
    FirstName      *string           `json:"first_name" validate:"omitempty,max=50"`
    LastName       *string           `json:"last_name" validate:"omitempty,max=50"`
    Birthday       *model.Date       `json:"birthday"`
    PersonUnder    *int              `json:"person_under" validate:"omitempty,gte=0"`
    PersonOver     *int              `json:"person_over" validate:"omitempty,gte=0"`
    ContactMethod  *string           `json:"contact_method"`
    Contact        *string           `json:"contact"`
    TravelStart    *model.Date       `json:"travel_start"`
    TravelEnd      *model.Date       `json:"travel_end"`
    TravelPurpose  *string           `json:"travel_purpose"`
    TravelPri      *model.StringList `json:"travel_pri"`
    TransportPri   *model.StringList `json:"transport_pri"`
    TravelRestrict *string           `json:"travel_restrict"`
    TravelAddi     *string           `json:"travel_addi"`
}

func (p requestPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "first_name", p.FirstName)
    put(m, "last_name", p.LastName)
    put(m, "birthday", p.Birthday)
    put(m, "person_under", p.PersonUnder)
    put(m, "person_over", p.PersonOver)
    put(m, "contact_method", p.ContactMethod)
    put(m, "contact", p.Contact)
    put(m, "travel_start", p.TravelStart)
    put(m, "travel_end", p.TravelEnd)
    put(m, "travel_purpose", p.TravelPurpose)
    put(m, "travel_pri", p.TravelPri)
    put(m, "transport_pri", p.TransportPri)
    put(m, "travel_restrict", p.TravelRestrict)
    put(m, "travel_addi", p.TravelAddi)
    return m
}

type RequestResource = Resource[model.ItineraryRequest, uuid.UUID, requestCreate, requestPatch]

// NewRequestResource scopes every operation to the authenticated owner.
// Routes must sit behind CookieAuth.  Deleting hides the request.
func NewRequestResource(repo *repository.ItineraryRequestRepo) *RequestResource {
    return &RequestResource{
        Name:    "itinerary request",
        Store:   repo,
        ParseID: parseUUID,
        Scope: func(c echo.Context) ([]repository.Filter, error) {
            uid, err := getUserID(c)
            if err != nil {
                return nil, err
            }
            return []repository.Filter{repository.Eq("request_user_id", uid)}, nil
        },
        Prepare: func(c echo.Context, r *model.ItineraryRequest) error {
            uid, err := getUserID(c)
            if err != nil {
                return err
            }
            if !r.TravelStart.IsZero() && !r.TravelEnd.IsZero() && r.TravelEnd.Before(r.TravelStart.Time) {
                return apperr.BadRequest("travel_end is before travel_start")
            }
            r.RequestUserID = uid
            return nil
        },
        Authorize: func(c echo.Context, r *model.ItineraryRequest) error {
            uid, err := getUserID(c)
            if err != nil {
                return err
            }
            if r.RequestUserID != uid {
                return apperr.Forbidden("itinerary request belongs to another user")
            }
            return nil
        },
    }
}

// ----- itineraries -----

type itineraryCreate struct {
    UserID    uuid.UUID  `json:"user_id" validate:"required"`
    RequestID *uuid.UUID `json:"request_id"`
    Title     string     `json:"title" validate:"required,max=200"`
}

func (r itineraryCreate) Entity() *model.Itinerary {
    it := &model.Itinerary{UserID: r.UserID, Title: r.Title}
    if r.RequestID != nil {
        it.RequestID = uuid.NullUUID{UUID: *r.RequestID, Valid: true}
    }
    return it
}

type itineraryPatch struct {
    Title     *string    `json:"title" validate:"omitempty,min=1,max=200"`
    RequestID *uuid.UUID `json:"request_id"`
}

func (p itineraryPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "title", p.Title)
    if p.RequestID != nil {
        m["request_id"] = uuid.NullUUID{UUID: *p.RequestID, Valid: true}
    }
    return m
}

type ItineraryResource = Resource[model.Itinerary, uuid.UUID, itineraryCreate, itineraryPatch]

// NewItineraryResource rejects links to requests that are missing or hidden.
func NewItineraryResource(repo *repository.ItineraryRepo, requests *repository.ItineraryRequestRepo) *ItineraryResource {
    return &ItineraryResource{
        Name:    "itinerary",
        Store:   repo,
        ParseID: parseUUID,
        Filters: map[string]QueryFilter{"user_id": uuidFilter, "request_id": uuidFilter},
        Prepare: func(c echo.Context, it *model.Itinerary) error {
            if !it.RequestID.Valid {
                return nil
            }
            ctx, cancel := reqCtx(c)
            defer cancel()
            _, err := requests.Get(ctx, it.RequestID.UUID)
            return mapRepoErr(err, "itinerary request")
        },
    }
}

// ----- containers -----

type placeCreate struct {
    Date       model.Date `json:"date"`
    PlaceName  string     `json:"place_name" validate:"required,max=200"`
    Memo       string     `json:"memo"`
    OrderIndex int        `json:"order_index" validate:"gte=0"`
}

func (r placeCreate) Entity() *model.PlaceContainer {
    return &model.PlaceContainer{Date: r.Date, PlaceName: r.PlaceName, Memo: r.Memo, OrderIndex: r.OrderIndex}
}

type placePatch struct {
    Date       *model.Date `json:"date"`
    PlaceName  *string     `json:"place_name" validate:"omitempty,min=1,max=200"`
    Memo       *string     `json:"memo"`
    OrderIndex *int        `json:"order_index" validate:"omitempty,gte=0"`
}

func (p placePatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "date", p.Date)
    put(m, "place_name", p.PlaceName)
    put(m, "memo", p.Memo)
    put(m, "order_index", p.OrderIndex)
    return m
}

type transportCreate struct {
    Date          model.Date `json:"date"`
    TransportType string     `json:"transport_type" validate:"required,max=50"`
    Departure     string     `json:"departure"`
    Arrival       string     `json:"arrival"`
    Memo          string     `json:"memo"`
}

func (r transportCreate) Entity() *model.TransportContainer {
    return &model.TransportContainer{
        Date:          r.Date,
        TransportType: r.TransportType,
        Departure:     r.Departure,
        Arrival:       r.Arrival,
        Memo:          r.Memo,
    }
}

type transportPatch struct {
    Date          *model.Date `json:"date"`
    TransportType *string     `json:"transport_type" validate:"omitempty,min=1,max=50"`
    Departure     *string     `json:"departure"`
    Arrival       *string     `json:"arrival"`
    Memo          *string     `json:"memo"`
}

func (p transportPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "date", p.Date)
    put(m, "transport_type", p.TransportType)
    put(m, "departure", p.Departure)
    put(m, "arrival", p.Arrival)
    put(m, "memo", p.Memo)
    return m
}

type (
    PlaceResource     = Resource[model.PlaceContainer, int64, placeCreate, placePatch]
    TransportResource = Resource[model.TransportContainer, int64, transportCreate, transportPatch]
)

// parentItinerary resolves the :id path parameter to an existing itinerary.
func parentItinerary(c echo.Context, itineraries *repository.ItineraryRepo) (uuid.UUID, error) {
    id, err := parseUUID(c.Param("id"))
    if err != nil {
        return uuid.Nil, err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    if _, err := itineraries.Get(ctx, id); err != nil {
        return uuid.Nil, mapRepoErr(err, "itinerary")
    }
    return id, nil
}

// NewPlaceResource lists and creates under /itinerary/:id/places and
// addresses single containers by :cid.
func NewPlaceResource(repo *repository.PlaceContainerRepo, itineraries *repository.ItineraryRepo) *PlaceResource {
    return &PlaceResource{
        Name:    "place container",
        Store:   repo,
        Param:   "cid",
        ParseID: parseInt64,
        Scope: func(c echo.Context) ([]repository.Filter, error) {
            id, err := parentItinerary(c, itineraries)
            if err != nil {
                return nil, err
            }
            return []repository.Filter{repository.Eq("itinerary_id", id)}, nil
        },
        Prepare: func(c echo.Context, p *model.PlaceContainer) error {
            id, err := parentItinerary(c, itineraries)
            p.ItineraryID = id
            return err
        },
    }
}

func NewTransportResource(repo *repository.TransportContainerRepo, itineraries *repository.ItineraryRepo) *TransportResource {
    return &TransportResource{
        Name:    "transport container",
        Store:   repo,
        Param:   "cid",
        ParseID: parseInt64,
        Scope: func(c echo.Context) ([]repository.Filter, error) {
            id, err := parentItinerary(c, itineraries)
            if err != nil {
                return nil, err
            }
            return []repository.Filter{repository.Eq("itinerary_id", id)}, nil
        },
        Prepare: func(c echo.Context, t *model.TransportContainer) error {
            id, err := parentItinerary(c, itineraries)
            t.ItineraryID = id
            return err
        },
    }
}
