package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ImageUploader stores an image blob and returns its public URL.
// Satisfied by storage.Uploader.
type ImageUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

type ItemHandler struct {
	svc      service.ItemService
	uploader ImageUploader
}

func NewItemHandler(svc service.ItemService, uploader ImageUploader) *ItemHandler {
	return &ItemHandler{svc: svc, uploader: uploader}
}

type ItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	PriceUnits  int64    `json:"priceUnits"`
	PriceToins  int64    `json:"priceToins"`
	Tags        []string `json:"tags"`
	ImageURL    *string  `json:"imageUrl"`
	Location    string   `json:"location"`
}

type ItemResponse struct {
	ID                 uint64   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	PriceUnits         int64    `json:"priceUnits"`
	PriceToins         int64    `json:"priceToins"`
	Currency           string   `json:"currency"`
	Tags               []string `json:"tags"`
	ImageURL           *string  `json:"imageUrl"`
	Location           string   `json:"location"`
	SellerUID          string   `json:"sellerUid"`
	Status             string   `json:"status"`
	ViewCount          uint     `json:"viewCount"`
	FavoriteCount      uint     `json:"favoriteCount"`
	ReciprocidadScore  int      `json:"reciprocidadScore"`
	ConsciousnessLevel string   `json:"consciousnessLevel"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

func toItemResponse(item *model.Item) ItemResponse {
	return ItemResponse{
		ID:                 item.ID,
		Title:              item.Title,
		Description:        item.Description,
		Type:               string(item.ItemType),
		PriceUnits:         item.PriceUnits,
		PriceToins:         item.PriceToins,
		Currency:           item.Currency,
		Tags:               item.Tags,
		ImageURL:           item.ImageURL,
		Location:           item.Location,
		SellerUID:          item.SellerUID,
		Status:             string(item.Status),
		ViewCount:          item.ViewCount,
		FavoriteCount:      item.FavoriteCount,
		ReciprocidadScore:  service.ReciprocidadScore(item),
		ConsciousnessLevel: string(service.ConsciousnessLevelFor(item)),
		CreatedAt:          item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          item.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ItemHandler) itemInput(req ItemRequest) service.ItemInput {
	return service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		ItemType:    model.ItemType(req.Type),
		PriceUnits:  req.PriceUnits,
		PriceToins:  req.PriceToins,
		Tags:        req.Tags,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
	}
}

func (h *ItemHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Create(c.Request().Context(), uid, h.itemInput(req))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	item, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch item"))
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) List(c echo.Context) error {
	q := repository.ItemSearch{
		Query:    c.QueryParam("q"),
		ItemType: model.ItemType(c.QueryParam("type")),
		Location: c.QueryParam("location"),
		Tag:      c.QueryParam("tag"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		q.MinPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.QueryParam("max_price"); v != "" {
		q.MaxPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.QueryParam("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}
	items, total, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch items"))
	}
	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":   resp,
		"total":   total,
		"limit":   q.Limit,
		"offset":  q.Offset,
		"hasMore": int64(q.Offset+len(resp)) < total,
	})
}

func (h *ItemHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	items, err := h.svc.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch items"))
	}
	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Update(c.Request().Context(), id, uid, h.itemInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete item"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ItemHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch stats"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalItems":    stats.TotalItems,
		"activeItems":   stats.ActiveItems,
		"totalSellers":  stats.TotalSellers,
		"itemsByType":   stats.ItemsByType,
		"itemsByStatus": stats.ItemsByStatus,
		"generatedAt":   time.Now().Format(time.RFC3339),
	})
}

func (h *ItemHandler) UploadImage(c echo.Context) error {
	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "image storage is not configured"))
	}
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	// The object path is derived from the item id, so ownership has to be
	// settled before anything reaches the bucket.
	if err := h.svc.EnsureOwned(c.Request().Context(), id, uid); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch item"))
	}
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image file is required"))
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read image"))
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "cannot read image"))
	}
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	objectPath := "items/" + strconv.FormatUint(id, 10) + "/" + file.Filename
	publicURL, err := h.uploader.Upload(c.Request().Context(), objectPath, contentType, data)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to store image"))
	}
	item, err := h.svc.SetImageURL(c.Request().Context(), id, uid, publicURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update item"))
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}
