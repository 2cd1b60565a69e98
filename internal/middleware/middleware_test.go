package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-marketplace/internal/apperr"
	"github.com/iliyamo/travel-marketplace/internal/config"
	"github.com/iliyamo/travel-marketplace/internal/utils"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCookieAuth(t *testing.T) {
	tokens, err := utils.NewTokenService("secret", "HS256", time.Minute)
	require.NoError(t, err)
	tok, err := tokens.Issue("user-1")
	require.NoError(t, err)

	e := newEcho()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentUserID(c))
	}, CookieAuth(tokens))

	cases := []struct {
		name   string
		cookie *http.Cookie
		status int
		code   string
	}{
		{"missing cookie", nil, http.StatusBadRequest, apperr.CodeBadRequest},
		{"garbage", &http.Cookie{Name: AccessTokenCookie, Value: "Bearer nope"}, http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"valid", &http.Cookie{Name: AccessTokenCookie, Value: tok.CookieValue()}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, rec).Code)
			} else {
				assert.Equal(t, "user-1", rec.Body.String())
			}
		})
	}
}

func TestRequireSelf(t *testing.T) {
	e := newEcho()
	setUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextUserID, "me")
			return next(c)
		}
	}
	e.PUT("/user/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, setUser, RequireSelf("id"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/user/me", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/user/someone-else", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperr.CodeForbidden, decodeError(t, rec).Code)

	assert.Error(t, CheckSelf("", ""))
}

func TestErrorHandler_Shapes(t *testing.T) {
	e := newEcho()
	e.GET("/app", func(c echo.Context) error { return apperr.NotFound("area not found") })
	e.GET("/plain", func(c echo.Context) error { return errors.New("db exploded") })
	e.GET("/echo", func(c echo.Context) error { return echo.NewHTTPError(http.StatusUnsupportedMediaType) })

	cases := []struct {
		path   string
		status int
		body   ErrorBody
	}{
		{"/app", http.StatusNotFound, ErrorBody{Detail: "area not found", Code: apperr.CodeNotFound}},
		{"/plain", http.StatusInternalServerError, ErrorBody{Detail: "internal server error", Code: apperr.CodeInternalError}},
		{"/echo", http.StatusUnsupportedMediaType, ErrorBody{Detail: "Unsupported Media Type", Code: apperr.CodeBadRequest}},
		{"/missing", http.StatusNotFound, ErrorBody{Detail: "Not Found", Code: apperr.CodeNotFound}},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, tc.path)
		assert.Equal(t, tc.body, decodeError(t, rec), tc.path)
	}
}

type recorded struct {
	method, route string
	status        int
}

type fakeRecorder struct{ got []recorded }

func (f *fakeRecorder) RecordRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, recorded{method, route, status})
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	rec := &fakeRecorder{}
	e := newEcho()
	e.Use(RequestLog(zerolog.New(&buf), rec))
	e.GET("/areas/:id", func(c echo.Context) error { return apperr.NotFound("") })

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/areas/9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, rec.got, 1)
	assert.Equal(t, recorded{"GET", "/areas/:id", http.StatusNotFound}, rec.got[0])

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/areas/:id", line["route"])
	assert.Equal(t, "anon", line["user_id"])
}

func TestRateLimit_PassThroughWithoutRedis(t *testing.T) {
	e := newEcho()
	e.Use(RateLimit(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, zerolog.Nop()))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/area/3", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/v1/area/:id")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.7:route:GET /api/v1/area/:id", buildRateKey(cfg, c))

	c.Set(ContextUserID, "u-9")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:u-9", buildRateKey(cfg, c))

	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:10.0.0.7:user:u-9:route:GET /api/v1/area/:id", buildRateKey(cfg, c))
}
