package handler

import (
	"errors"
	"net/http"

	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type SubmitReviewRequest struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Communication *int   `json:"communication"`
	Quality       *int   `json:"quality"`
	Delivery      *int   `json:"delivery"`
	Value         *int   `json:"value"`
}

func reviewError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "match not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "operation failed"))
}

func (h *ReviewHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	rv, err := h.svc.GetByMatch(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return reviewError(c, err)
	}
	if rv == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"review": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"review": rv})
}

func (h *ReviewHandler) Submit(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rv, err := h.svc.Submit(c.Request().Context(), c.Param("id"), uid, service.ReviewInput{
		Rating:        req.Rating,
		Comment:       req.Comment,
		Communication: req.Communication,
		Quality:       req.Quality,
		Delivery:      req.Delivery,
		Value:         req.Value,
	})
	if err != nil {
		return reviewError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"review": rv})
}
