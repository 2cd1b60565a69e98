package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// Table descriptors.  Column order is the insert order and must match the
// db tags of the model structs.
var (
	UsersTable = Table{
		Name:    "users",
		Columns: []string{"email", "password", "nickname", "first_name", "last_name", "bio", "profile_img", "created_at"},
	}
	AreasTable = Table{
		Name:          "areas",
		Columns:       []string{"name", "address", "website", "contact_num", "open_time", "visitor_count", "created_at"},
		AutoIncrement: true,
	}
	AreaImagesTable = Table{
		Name:          "area_images",
		Columns:       []string{"area_id", "area_img", "created_at"},
		AutoIncrement: true,
	}
	ListingsTable = Table{
		Name:    "listings",
		Columns: []string{"seller_id", "is_closed", "detail", "seller_info", "promotion_start", "promotion_end", "amount", "created_at"},
		OrderBy: "created_at",
	}
	OrdersTable = Table{
		Name:    "orders",
		Columns: []string{"buyer_id", "listing_id", "amount", "is_refunded", "created_at"},
		OrderBy: "created_at",
	}
	ItineraryRequestsTable = Table{
		Name: "itinerary_requests",
		Columns: []string{"listing_id", "order_id", "request_user_id", "first_name", "last_name", "birthday",
			"person_under", "person_over", "contact_method", "contact", "travel_start", "travel_end",
			"travel_purpose", "travel_pri", "transport_pri", "travel_restrict", "travel_addi", "is_deleted", "created_at"},
		SoftDelete: "is_deleted",
		OrderBy:    "created_at",
	}
	ItinerariesTable = Table{
		Name:    "itineraries",
		Columns: []string{"user_id", "request_id", "title", "created_at"},
		OrderBy: "created_at",
	}
	PlaceContainersTable = Table{
		Name:          "place_containers",
		Columns:       []string{"itinerary_id", "date", "place_name", "memo", "order_index"},
		AutoIncrement: true,
		OrderBy:       "date, order_index",
	}
	TransportContainersTable = Table{
		Name:          "transport_containers",
		Columns:       []string{"itinerary_id", "date", "transport_type", "departure", "arrival", "memo"},
		AutoIncrement: true,
		OrderBy:       "date",
	}
	PointEventsTable = Table{
		Name:          "point_events",
		Columns:       []string{"user_id", "event_type", "amount", "detail", "event_date", "exp_date"},
		AutoIncrement: true,
	}
	PointDetailsTable = Table{
		Name:          "point_details",
		Columns:       []string{"event_id", "related_event_id", "point_date", "point"},
		AutoIncrement: true,
	}
	UserReviewsTable = Table{
		Name:          "user_reviews",
		Columns:       []string{"reviewer_id", "target_user_id", "rating", "content", "created_at"},
		AutoIncrement: true,
	}
	AreaReviewsTable = Table{
		Name:          "area_reviews",
		Columns:       []string{"area_id", "user_id", "rating", "content", "created_at"},
		AutoIncrement: true,
	}
	HashtagsTable = Table{
		Name:          "hashtags",
		Columns:       []string{"area_id", "tag", "created_at"},
		AutoIncrement: true,
	}
)

type (
	AreaImageRepo          = CRUD[model.AreaImage, int64, *model.AreaImage]
	ListingRepo            = CRUD[model.Listing, uuid.UUID, *model.Listing]
	OrderRepo              = CRUD[model.Order, uuid.UUID, *model.Order]
	ItineraryRequestRepo   = CRUD[model.ItineraryRequest, uuid.UUID, *model.ItineraryRequest]
	ItineraryRepo          = CRUD[model.Itinerary, uuid.UUID, *model.Itinerary]
	PlaceContainerRepo     = CRUD[model.PlaceContainer, int64, *model.PlaceContainer]
	TransportContainerRepo = CRUD[model.TransportContainer, int64, *model.TransportContainer]
	PointDetailRepo        = CRUD[model.PointDetail, int64, *model.PointDetail]
	UserReviewRepo         = CRUD[model.UserReview, int64, *model.UserReview]
	AreaReviewRepo         = CRUD[model.AreaReview, int64, *model.AreaReview]
	HashtagRepo            = CRUD[model.Hashtag, int64, *model.Hashtag]
)

func NewAreaImageRepo(db *sqlx.DB) *AreaImageRepo {
	return NewCRUD[model.AreaImage, int64](db, AreaImagesTable)
}

func NewListingRepo(db *sqlx.DB) *ListingRepo {
	return NewCRUD[model.Listing, uuid.UUID](db, ListingsTable)
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return NewCRUD[model.Order, uuid.UUID](db, OrdersTable)
}

func NewItineraryRequestRepo(db *sqlx.DB) *ItineraryRequestRepo {
	return NewCRUD[model.ItineraryRequest, uuid.UUID](db, ItineraryRequestsTable)
}

func NewItineraryRepo(db *sqlx.DB) *ItineraryRepo {
	return NewCRUD[model.Itinerary, uuid.UUID](db, ItinerariesTable)
}

func NewPlaceContainerRepo(db *sqlx.DB) *PlaceContainerRepo {
	return NewCRUD[model.PlaceContainer, int64](db, PlaceContainersTable)
}

func NewTransportContainerRepo(db *sqlx.DB) *TransportContainerRepo {
	return NewCRUD[model.TransportContainer, int64](db, TransportContainersTable)
}

func NewPointDetailRepo(db *sqlx.DB) *PointDetailRepo {
	return NewCRUD[model.PointDetail, int64](db, PointDetailsTable)
}

func NewUserReviewRepo(db *sqlx.DB) *UserReviewRepo {
	return NewCRUD[model.UserReview, int64](db, UserReviewsTable)
}

func NewAreaReviewRepo(db *sqlx.DB) *AreaReviewRepo {
	return NewCRUD[model.AreaReview, int64](db, AreaReviewsTable)
}

func NewHashtagRepo(db *sqlx.DB) *HashtagRepo {
	return NewCRUD[model.Hashtag, int64](db, HashtagsTable)
}
