package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/curation"
    "github.com/iliyamo/travel-marketplace/internal/model"
    "github.com/iliyamo/travel-marketplace/internal/repository"
)

type areaCreate struct {
    Name         string `json:"name" validate:"required,max=200"`
    Address      string `json:"address"`
    Website      string `json:"website"`
    ContactNum   string `json:"contact_num"`
    OpenTime     string `json:"open_time"`
    VisitorCount int64  `json:"visitor_count" validate:"gte=0"`
}

func (r areaCreate) Entity() *model.Area {
    return &model.Area{
        Name:         strings.TrimSpace(r.Name),
        Address:      r.Address,
        Website:      r.Website,
        ContactNum:   r.ContactNum,
        OpenTime:     r.OpenTime,
        VisitorCount: r.VisitorCount,
    }
}

type areaPatch struct {
    Name         *string `json:"name" validate:"omitempty,max=200"`
    Address      *string `json:"address"`
    Website      *string `json:"website"`
    ContactNum   *string `json:"contact_num"`
    OpenTime     *string `json:"open_time"`
    VisitorCount *int64  `json:"visitor_count" validate:"omitempty,gte=0"`
}

func (p areaPatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "name", p.Name)
    put(m, "address", p.Address)
    put(m, "website", p.Website)
    put(m, "contact_num", p.ContactNum)
    put(m, "open_time", p.OpenTime)
    put(m, "visitor_count", p.VisitorCount)
    return m
}

type imageCreate struct {
    AreaImg string `json:"area_img" validate:"required"`
}

func (r imageCreate) Entity() *model.AreaImage {
    return &model.AreaImage{AreaImg: strings.TrimSpace(r.AreaImg)}
}

type imagePatch struct {
    AreaImg *string `json:"area_img" validate:"omitempty,min=1"`
}

func (p imagePatch) Changes() map[string]any {
    m := repository.Changes{}
    put(m, "area_img", p.AreaImg)
    return m
}

// AreaHandler serves the area catalog, its images and the curation pick.
type AreaHandler struct {
    Areas    *Resource[model.Area, int64, areaCreate, areaPatch]
    Images   *Resource[model.AreaImage, int64, imageCreate, imagePatch]
    areaRepo *repository.AreaRepo
    imgRepo  *repository.AreaImageRepo
    curator  *curation.Service
}

func NewAreaHandler(areas *repository.AreaRepo, images *repository.AreaImageRepo, curator *curation.Service) *AreaHandler {
    return &AreaHandler{
        Areas: &Resource[model.Area, int64, areaCreate, areaPatch]{
            Name:    "area",
            Store:   areas,
            ParseID: parseInt64,
        },
        Images: &Resource[model.AreaImage, int64, imageCreate, imagePatch]{
            Name:    "area image",
            Store:   images,
            Param:   "image_id",
            ParseID: parseInt64,
        },
        areaRepo: areas,
        imgRepo:  images,
        curator:  curator,
    }
}

// ListImages handles GET /area/:id/images.
func (h *AreaHandler) ListImages(c echo.Context) error {
    areaID, err := parseInt64(c.Param("id"))
    if err != nil {
        return err
    }
    page, err := parsePage(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.areaRepo.Get(ctx, areaID); err != nil {
        return mapRepoErr(err, "area")
    }
    imgs, err := h.imgRepo.List(ctx, page, repository.Eq("area_id", areaID))
    if err != nil {
        return mapRepoErr(err, "area image")
    }
    return c.JSON(http.StatusOK, imgs)
}

// AddImage handles POST /area/:id/images.
func (h *AreaHandler) AddImage(c echo.Context) error {
    areaID, err := parseInt64(c.Param("id"))
    if err != nil {
        return err
    }
    var req imageCreate
    if err := bind(c, &req); err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.areaRepo.Get(ctx, areaID); err != nil {
        return mapRepoErr(err, "area")
    }
    e := req.Entity()
    e.AreaID = areaID
    img, err := h.imgRepo.Create(ctx, e)
    if err != nil {
        return mapRepoErr(err, "area image")
    }
    return c.JSON(http.StatusCreated, img)
}

// Curation handles GET /area/curation: one of the most visited areas with
// a short generated description.
func (h *AreaHandler) Curation(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    pick, err := h.curator.Pick(ctx)
    if err != nil {
        if errors.Is(err, curation.ErrNoAreas) {
            return apperr.NotFound("no areas to curate")
        }
        return mapRepoErr(err, "area")
    }
    return c.JSON(http.StatusOK, pick)
}
