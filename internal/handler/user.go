package handler

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/config"
    "github.com/iliyamo/travel-marketplace/internal/middleware"
    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/queue"
    "github.com/iliyamo/travel-marketplace/internal/repository"
    "github.com/iliyamo/travel-marketplace/internal/service"
    "github.com/iliyamo/travel-marketplace/internal/utils"
)

// UserHandler bundles dependencies for account endpoints.
type UserHandler struct {
    Cfg      config.Config
    Users    *repository.UserRepo
    Tokens   *utils.TokenService
    Notifier *service.Notifier
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, tokens *utils.TokenService, n *service.Notifier) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: users, Tokens: tokens, Notifier: n}
}

// ----- DTOs -----

type signupReq struct {
    Email      string `json:"email" validate:"required,email"`
    Password   string `json:"password" validate:"required,min=8"`
    Nickname   string `json:"nickname" validate:"required,max=50"`
    FirstName  string `json:"first_name" validate:"max=50"`
    LastName   string `json:"last_name" validate:"max=50"`
    Bio        string `json:"bio"`
    ProfileImg string `json:"profile_img"`
}

type loginReq struct {
    Identifier string `json:"identifier" validate:"required"` // email or nickname
    Password   string `json:"password" validate:"required"`
}

type userPatch struct {
    Email      *string `json:"email" validate:"omitempty,email"`
    Password   *string `json:"password" validate:"omitempty,min=8"`
    Nickname   *string `json:"nickname" validate:"omitempty,max=50"`
    FirstName  *string `json:"first_name" validate:"omitempty,max=50"`
    LastName   *string `json:"last_name" validate:"omitempty,max=50"`
    Bio        *string `json:"bio"`
    ProfileImg *string `json:"profile_img"`
}

type loginResp struct {
    User    *model.User `json:"user"`
    Expires time.Time   `json:"expires"`
}

// Signup creates an account.  A taken email or nickname is a conflict.
func (h *UserHandler) Signup(c echo.Context) error {
    var req signupReq
    if err := bind(c, &req); err != nil {
        return err
    }
    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return apperr.Internal(err)
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Create(ctx, &model.User{
        Email:      req.Email,
        Password:   hash,
        Nickname:   req.Nickname,
        FirstName:  req.FirstName,
        LastName:   req.LastName,
        Bio:        req.Bio,
        ProfileImg: req.ProfileImg,
    })
    if err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return apperr.Conflict("email or nickname already registered")
        }
        return mapRepoErr(err, "user")
    }
    h.Notifier.Notify(queue.ActivityEvent{Type: queue.EventUserSignedUp, UserID: u.ID.String(), EntityID: u.ID.String()})
    return c.JSON(http.StatusCreated, u)
}

// Login checks the credentials and sets the access_token cookie.
func (h *UserHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bind(c, &req); err != nil {
        return err
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByIdentifier(ctx, req.Identifier)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return apperr.Unauthorized("invalid credentials")
        }
        return mapRepoErr(err, "user")
    }
    if !utils.VerifyPassword(u.Password, req.Password) {
        return apperr.Unauthorized("invalid credentials")
    }

    access, err := h.Tokens.Issue(u.ID.String())
    if err != nil {
        return apperr.Internal(err)
    }
    c.SetCookie(&http.Cookie{
        Name:     middleware.AccessTokenCookie,
        Value:    access.CookieValue(),
        Path:     "/",
        Expires:  access.Exp,
        HttpOnly: true,
        Secure:   h.Cfg.SecureCookies,
        SameSite: http.SameSiteLaxMode,
    })
    return c.JSON(http.StatusOK, loginResp{User: u, Expires: access.Exp})
}

// Logout expires the cookie.  It needs no valid session.
func (h *UserHandler) Logout(c echo.Context) error {
    c.SetCookie(&http.Cookie{
        Name:     middleware.AccessTokenCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        Expires:  time.Unix(0, 0),
        HttpOnly: true,
        Secure:   h.Cfg.SecureCookies,
        SameSite: http.SameSiteLaxMode,
    })
    return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) List(c echo.Context) error {
    page, err := parsePage(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Users.List(ctx, page)
    if err != nil {
        return mapRepoErr(err, "user")
    }
    return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
    id, err := parseUUID(c.Param("id"))
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Get(ctx, id)
    if err != nil {
        return mapRepoErr(err, "user")
    }
    return c.JSON(http.StatusOK, u)
}

// Update edits the caller's own profile.  Routed behind CookieAuth and
// RequireSelf("id").
func (h *UserHandler) Update(c echo.Context) error {
    id, err := parseUUID(c.Param("id"))
    if err != nil {
        return err
    }
    var req userPatch
    if err := bind(c, &req); err != nil {
        return err
    }
    changes, err := h.changes(req)
    if err != nil {
        return err
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Update(ctx, id, changes)
    if err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return apperr.Conflict("email or nickname already registered")
        }
        return mapRepoErr(err, "user")
    }
    return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) changes(req userPatch) (repository.Changes, error) {
    m := repository.Changes{}
    if req.Email != nil {
        m["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
    }
    if req.Nickname != nil {
        m["nickname"] = strings.TrimSpace(*req.Nickname)
    }
    if req.Password != nil {
        hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
        if err != nil {
            return nil, apperr.Internal(err)
        }
        m["password"] = hash
    }
    put(m, "first_name", req.FirstName)
    put(m, "last_name", req.LastName)
    put(m, "bio", req.Bio)
    put(m, "profile_img", req.ProfileImg)
    return m, nil
}

// Delete removes the caller's account along with everything it owns.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := parseUUID(c.Param("id"))
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Users.Delete(ctx, id); err != nil {
        return mapRepoErr(err, "user")
    }
    return c.NoContent(http.StatusNoContent)
}

// put records v under col when the client sent it.
func put[T any](m repository.Changes, col string, v *T) {
    if v != nil {
        m[col] = *v
    }
}

