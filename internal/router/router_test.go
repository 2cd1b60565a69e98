package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-marketplace/internal/apperr"
	"github.com/iliyamo/travel-marketplace/internal/config"
	"github.com/iliyamo/travel-marketplace/internal/database/dbtest"
	"github.com/iliyamo/travel-marketplace/internal/metrics"
	"github.com/iliyamo/travel-marketplace/internal/middleware"
	"github.com/iliyamo/travel-marketplace/internal/utils"
)

type testServer struct {
	e  *echo.Echo
	db *sqlx.DB
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	tokens, err := utils.NewTokenService("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	e := New(Deps{
		Cfg:      config.Config{BcryptCost: bcrypt.MinCost},
		DB:       db,
		Tokens:   tokens,
		Metrics:  metrics.NewCollector(reg),
		Gatherer: reg,
		Log:      zerolog.Nop(),
	})
	return &testServer{e: e, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, APIPrefix+path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[middleware.ErrorBody](t, rec)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Detail)
}

type account struct {
	ID     string
	Cookie *http.Cookie
}

// signupAndLogin creates an account named nick and returns its session.
func (s *testServer) signupAndLogin(t *testing.T, nick string) account {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/user/signup", map[string]any{
		"email": nick + "@example.com", "password": "password123", "nickname": nick,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[map[string]any](t, rec)
	_, leaked := user["password"]
	assert.False(t, leaked)

	rec = s.do(t, http.MethodPost, "/user/login", map[string]any{
		"identifier": nick + "@example.com", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return account{ID: user["id"].(string), Cookie: cookie}
}

func (s *testServer) create(t *testing.T, path string, body any, cookie *http.Cookie) map[string]any {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)
}

func TestPing(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/ping", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"ping": "pong"}, decode[map[string]string](t, rec))
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	s := newServer(t)
	assertError(t, s.do(t, http.MethodGet, "/nope", nil, nil), http.StatusNotFound, apperr.CodeNotFound)
}

func TestSignupAndLogin(t *testing.T) {
	s := newServer(t)
	acc := s.signupAndLogin(t, "alice")

	assert.True(t, strings.HasPrefix(acc.Cookie.Value, utils.BearerPrefix))
	assert.True(t, acc.Cookie.HttpOnly)

	t.Run("duplicate email", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/signup", map[string]any{
			"email": "ALICE@example.com", "password": "password123", "nickname": "other",
		}, nil)
		assertError(t, rec, http.StatusConflict, apperr.CodeConflict)
	})
	t.Run("invalid body", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/signup", map[string]any{"email": "not-an-email"}, nil)
		assertError(t, rec, http.StatusBadRequest, apperr.CodeBadRequest)
	})
	t.Run("login by nickname", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/login", map[string]any{"identifier": "alice", "password": "password123"}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/login", map[string]any{"identifier": "alice", "password": "wrong-password"}, nil)
		assertError(t, rec, http.StatusUnauthorized, apperr.CodeUnauthorized)
	})
	t.Run("unknown identifier", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/login", map[string]any{"identifier": "nobody", "password": "password123"}, nil)
		assertError(t, rec, http.StatusUnauthorized, apperr.CodeUnauthorized)
	})
	t.Run("logout clears cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/user/logout", nil, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "", cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	})
}

func TestUserProfileEdit(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")
	bob := s.signupAndLogin(t, "bob")

	rec := s.do(t, http.MethodPatch, "/user/"+bob.ID, map[string]any{"bio": "hacked"}, alice.Cookie)
	assertError(t, rec, http.StatusForbidden, apperr.CodeForbidden)

	rec = s.do(t, http.MethodPatch, "/user/"+alice.ID, map[string]any{"bio": "hello"}, nil)
	assertError(t, rec, http.StatusBadRequest, apperr.CodeBadRequest)

	rec = s.do(t, http.MethodPatch, "/user/"+alice.ID, map[string]any{"bio": "hello"}, &http.Cookie{Name: middleware.AccessTokenCookie, Value: "Bearer junk"})
	assertError(t, rec, http.StatusUnauthorized, apperr.CodeUnauthorized)

	rec = s.do(t, http.MethodPatch, "/user/"+alice.ID, map[string]any{"bio": "hello"}, alice.Cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "hello", got["bio"])
	assert.Equal(t, "alice", got["nickname"])

	rec = s.do(t, http.MethodPatch, "/user/"+alice.ID, map[string]any{"nickname": "bob"}, alice.Cookie)
	assertError(t, rec, http.StatusConflict, apperr.CodeConflict)

	rec = s.do(t, http.MethodGet, "/user/list?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)
}

func TestUserDeleteCascades(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")
	s.create(t, "/point/events", map[string]any{"user_id": alice.ID, "event_type": "EARN", "amount": 10}, nil)

	rec := s.do(t, http.MethodDelete, "/user/"+alice.ID, nil, alice.Cookie)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	assertError(t, s.do(t, http.MethodGet, "/user/"+alice.ID, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
	var n int
	require.NoError(t, s.db.Get(&n, "SELECT COUNT(*) FROM point_events"))
	assert.Zero(t, n)
}

func TestPointBalance(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")
	bob := s.signupAndLogin(t, "bob")

	balance := func() int64 {
		rec := s.do(t, http.MethodGet, "/point/user/"+alice.ID+"/balance", nil, alice.Cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[struct {
			UserID  string `json:"user_id"`
			Balance int64  `json:"balance"`
		}](t, rec)
		assert.Equal(t, alice.ID, got.UserID)
		return got.Balance
	}

	assert.Equal(t, int64(0), balance())

	ev := s.create(t, "/point/events", map[string]any{"user_id": alice.ID, "event_type": "EARN", "amount": 100}, nil)
	assert.Equal(t, int64(100), balance())

	eventID := int64(ev["id"].(float64))
	s.create(t, "/point/details", map[string]any{"event_id": eventID, "related_event_id": eventID, "point": 50}, nil)
	assert.Equal(t, int64(50), balance())

	rec := s.do(t, http.MethodGet, "/point/user/"+alice.ID+"/balance", nil, bob.Cookie)
	assertError(t, rec, http.StatusForbidden, apperr.CodeForbidden)

	rec = s.do(t, http.MethodPost, "/point/details", map[string]any{"event_id": 9999, "point": 1}, nil)
	assertError(t, rec, http.StatusNotFound, apperr.CodeNotFound)
}

func TestPointEventsAreOwnerOnly(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")
	bob := s.signupAndLogin(t, "bob")

	ev := s.create(t, "/point/events", map[string]any{"user_id": alice.ID, "event_type": "EARN", "amount": 5}, nil)
	s.create(t, "/point/events", map[string]any{"user_id": bob.ID, "event_type": "EARN", "amount": 7}, nil)
	path := fmt.Sprintf("/point/events/%d", int64(ev["id"].(float64)))

	rec := s.do(t, http.MethodGet, path, nil, alice.Cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assertError(t, s.do(t, http.MethodGet, path, nil, bob.Cookie), http.StatusForbidden, apperr.CodeForbidden)
	assertError(t, s.do(t, http.MethodGet, path, nil, nil), http.StatusBadRequest, apperr.CodeBadRequest)

	rec = s.do(t, http.MethodGet, "/point/events", nil, alice.Cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0]["user_id"])
}

// purchase creates a listing sold by seller and an order for buyer.
func (s *testServer) purchase(t *testing.T, seller, buyer account) (listingID, orderID string) {
	t.Helper()
	listing := s.create(t, "/listing/", map[string]any{"seller_id": seller.ID, "detail": "Jeju 3 days", "amount": 300}, nil)
	order := s.create(t, "/order/", map[string]any{"buyer_id": buyer.ID, "listing_id": listing["id"], "amount": 300}, nil)
	return listing["id"].(string), order["id"].(string)
}

func TestItineraryRequestSoftDelete(t *testing.T) {
	s := newServer(t)
	seller := s.signupAndLogin(t, "seller")
	alice := s.signupAndLogin(t, "alice")
	listingID, orderID := s.purchase(t, seller, alice)

	created := s.create(t, "/itinerary/request/", map[string]any{
		"listing_id": listingID, "order_id": orderID,
		"first_name": "Alice", "last_name": "Kim",
		"travel_start": "2025-05-01", "travel_end": "2025-05-04",
		"travel_pri": []string{"food", "nature"},
	}, alice.Cookie)
	assert.Equal(t, alice.ID, created["request_user_id"])
	assert.Equal(t, []any{"food", "nature"}, created["travel_pri"])
	path := "/itinerary/request/" + created["id"].(string)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, nil, alice.Cookie).Code)
	assertError(t, s.do(t, http.MethodGet, path, nil, seller.Cookie), http.StatusForbidden, apperr.CodeForbidden)
	assertError(t, s.do(t, http.MethodDelete, path, nil, seller.Cookie), http.StatusForbidden, apperr.CodeForbidden)

	rec := s.do(t, http.MethodPatch, path, map[string]any{"travel_purpose": "honeymoon"}, alice.Cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "honeymoon", decode[map[string]any](t, rec)["travel_purpose"])

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, nil, alice.Cookie).Code)
	assertError(t, s.do(t, http.MethodGet, path, nil, alice.Cookie), http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodPost, path+"/delete", nil, alice.Cookie), http.StatusNotFound, apperr.CodeNotFound)

	var deleted bool
	require.NoError(t, s.db.Get(&deleted, "SELECT is_deleted FROM itinerary_requests WHERE id = ?", created["id"]))
	assert.True(t, deleted)

	rec = s.do(t, http.MethodGet, "/itinerary/request/", nil, alice.Cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestItineraryContainersCascade(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")

	it := s.create(t, "/itinerary/", map[string]any{"user_id": alice.ID, "title": "Seoul weekend"}, nil)
	id := it["id"].(string)
	assert.Nil(t, it["request_id"])

	place := s.create(t, "/itinerary/"+id+"/places", map[string]any{"date": "2025-05-01", "place_name": "Gyeongbokgung", "order_index": 1}, nil)
	assert.Equal(t, "2025-05-01", place["date"])
	transport := s.create(t, "/itinerary/"+id+"/transports", map[string]any{"date": "2025-05-01", "transport_type": "subway"}, nil)

	rec := s.do(t, http.MethodGet, "/itinerary/"+id+"/places", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	placePath := fmt.Sprintf("/itinerary/places/%d", int64(place["id"].(float64)))
	rec = s.do(t, http.MethodPatch, placePath, map[string]any{"memo": "go early"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Gyeongbokgung", decode[map[string]any](t, rec)["place_name"])

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/itinerary/"+id, nil, nil).Code)
	assertError(t, s.do(t, http.MethodGet, placePath, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodGet, fmt.Sprintf("/itinerary/transports/%d", int64(transport["id"].(float64))), nil, nil),
		http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodGet, "/itinerary/"+id+"/places", nil, nil), http.StatusNotFound, apperr.CodeNotFound)
}

func TestAreaImagesAndCascade(t *testing.T) {
	s := newServer(t)
	area := s.create(t, "/area/add", map[string]any{"name": "Haeundae Beach", "visitor_count": 950}, nil)
	areaPath := fmt.Sprintf("/area/%d", int64(area["id"].(float64)))

	img := s.create(t, areaPath+"/images", map[string]any{"area_img": "https://img.example/1.jpg"}, nil)
	imgPath := fmt.Sprintf("/area/images/%d", int64(img["id"].(float64)))
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, imgPath, nil, nil).Code)

	s.create(t, "/hashtag/", map[string]any{"area_id": area["id"], "tag": "#beach"}, nil)
	rec := s.do(t, http.MethodPost, "/hashtag/", map[string]any{"area_id": area["id"], "tag": "beach"}, nil)
	assertError(t, rec, http.StatusConflict, apperr.CodeConflict)

	rec = s.do(t, http.MethodPatch, areaPath, map[string]any{"open_time": "24h"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "24h", updated["open_time"])
	assert.Equal(t, "Haeundae Beach", updated["name"])

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, areaPath, nil, nil).Code)
	assertError(t, s.do(t, http.MethodDelete, areaPath, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodGet, imgPath, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodPost, areaPath+"/images", map[string]any{"area_img": "x"}, nil), http.StatusNotFound, apperr.CodeNotFound)
}

func TestAreaListPagination(t *testing.T) {
	s := newServer(t)
	for i := 0; i < 5; i++ {
		s.create(t, "/area/", map[string]any{"name": fmt.Sprintf("area-%d", i)}, nil)
	}

	rec := s.do(t, http.MethodGet, "/area/list?skip=3&limit=10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]map[string]any](t, rec)
	require.Len(t, page, 2)
	assert.Equal(t, "area-3", page[0]["name"])
	assert.Equal(t, "area-4", page[1]["name"])

	assertError(t, s.do(t, http.MethodGet, "/area/list?skip=-1", nil, nil), http.StatusBadRequest, apperr.CodeBadRequest)
	assertError(t, s.do(t, http.MethodGet, "/area/abc", nil, nil), http.StatusBadRequest, apperr.CodeBadRequest)
}

func TestAreaCuration(t *testing.T) {
	s := newServer(t)
	assertError(t, s.do(t, http.MethodGet, "/area/curation", nil, nil), http.StatusNotFound, apperr.CodeNotFound)

	s.create(t, "/area/", map[string]any{"name": "Namsan Tower", "visitor_count": 10}, nil)
	rec := s.do(t, http.MethodGet, "/area/curation", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Namsan Tower", got["area"].(map[string]any)["name"])
	assert.Equal(t, "", got["curation"])
}

func TestListingDeleteTwice(t *testing.T) {
	s := newServer(t)
	seller := s.signupAndLogin(t, "seller")
	listingID, orderID := s.purchase(t, seller, seller)

	rec := s.do(t, http.MethodPatch, "/order/"+orderID, map[string]any{"is_refunded": true}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["is_refunded"])

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/listing/"+listingID, nil, nil).Code)
	assertError(t, s.do(t, http.MethodDelete, "/listing/"+listingID, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
	assertError(t, s.do(t, http.MethodGet, "/order/"+orderID, nil, nil), http.StatusNotFound, apperr.CodeNotFound)
}

func TestReviews(t *testing.T) {
	s := newServer(t)
	alice := s.signupAndLogin(t, "alice")
	bob := s.signupAndLogin(t, "bob")

	s.create(t, "/review/user/", map[string]any{"reviewer_id": alice.ID, "target_user_id": bob.ID, "rating": 5, "content": "great guide"}, nil)
	rec := s.do(t, http.MethodPost, "/review/user/", map[string]any{"reviewer_id": alice.ID, "target_user_id": bob.ID, "rating": 9}, nil)
	assertError(t, rec, http.StatusBadRequest, apperr.CodeBadRequest)
	rec = s.do(t, http.MethodPost, "/review/user/", map[string]any{"reviewer_id": alice.ID, "target_user_id": alice.ID, "rating": 4}, nil)
	assertError(t, rec, http.StatusBadRequest, apperr.CodeBadRequest)

	rec = s.do(t, http.MethodGet, "/review/user/list?target_user_id="+bob.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/review/user/list?target_user_id="+alice.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	s.do(t, http.MethodGet, "/ping", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "travel_http_requests_total")
}
