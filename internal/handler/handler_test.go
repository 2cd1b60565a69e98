package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-marketplace/internal/apperr"
	"github.com/iliyamo/travel-marketplace/internal/middleware"
	"github.com/iliyamo/travel-marketplace/internal/repository"
)

func ctxWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *apperr.AppError
	require.True(t, errors.As(err, &ae), "want *apperr.AppError, got %v", err)
	return ae.Status
}

func TestParsePage(t *testing.T) {
	p, err := parsePage(ctxWithQuery(""))
	require.NoError(t, err)
	assert.Equal(t, repository.Page{Skip: 0, Limit: 100}, p)

	p, err = parsePage(ctxWithQuery("skip=5&limit=0"))
	require.NoError(t, err)
	assert.Equal(t, repository.Page{Skip: 5, Limit: 0}, p)

	for _, q := range []string{"skip=-1", "limit=-3", "limit=ten"} {
		_, err := parsePage(ctxWithQuery(q))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), q)
	}
}

func TestMapRepoErr(t *testing.T) {
	assert.NoError(t, mapRepoErr(nil, "area"))
	assert.Equal(t, http.StatusNotFound, statusOf(t, mapRepoErr(repository.ErrNotFound, "area")))
	assert.Equal(t, http.StatusConflict, statusOf(t, mapRepoErr(repository.ErrConflict, "area")))
	assert.Equal(t, http.StatusForbidden, statusOf(t, mapRepoErr(repository.ErrForbidden, "area")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, mapRepoErr(errors.New("driver exploded"), "area")))

	teapot := apperr.New("TEAPOT", "short and stout", http.StatusTeapot)
	assert.Same(t, teapot, mapRepoErr(teapot, "area"))
}

func TestGetUserID(t *testing.T) {
	c := ctxWithQuery("")
	_, err := getUserID(c)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	c.Set(middleware.ContextUserID, "not-a-uuid")
	_, err = getUserID(c)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	c.Set(middleware.ContextUserID, "6f1c1f8e-3f2a-4a8e-9d7e-2b1f0c9a7e11")
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1f8e-3f2a-4a8e-9d7e-2b1f0c9a7e11", id.String())
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signupReq{Email: "nope", Password: "short"})
	require.Error(t, err)
	var ae *apperr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeBadRequest, ae.Code)
	assert.Contains(t, ae.Message, "email must be a valid email")
	assert.Contains(t, ae.Message, "password must be min 8")
	assert.Contains(t, ae.Message, "nickname is required")

	assert.NoError(t, v.Validate(&signupReq{Email: "a@b.co", Password: "password123", Nickname: "a"}))

	rating := 0
	assert.Error(t, v.Validate(&reviewPatch{Rating: &rating}))
	assert.NoError(t, v.Validate(&reviewPatch{}))
}

func TestPatchChanges(t *testing.T) {
	name := "Jeju"
	assert.Equal(t, map[string]any{"name": "Jeju"}, areaPatch{Name: &name}.Changes())
	assert.Empty(t, areaPatch{}.Changes())

	tag := " #beach "
	assert.Equal(t, map[string]any{"tag": "beach"}, hashtagPatch{Tag: &tag}.Changes())
}
