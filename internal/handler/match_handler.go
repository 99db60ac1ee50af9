package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

type MatchResponse struct {
	MatchID         string `json:"matchId"`
	ItemID          uint64 `json:"itemId"`
	BuyerUID        string `json:"buyerUid"`
	SellerUID       string `json:"sellerUid"`
	BuyerConfirmed  bool   `json:"buyerConfirmed"`
	SellerConfirmed bool   `json:"sellerConfirmed"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

func toMatchResponse(m *model.Match) MatchResponse {
	return MatchResponse{
		MatchID:         m.ID,
		ItemID:          m.ItemID,
		BuyerUID:        m.BuyerUID,
		SellerUID:       m.SellerUID,
		BuyerConfirmed:  m.BuyerConfirmed,
		SellerConfirmed: m.SellerConfirmed,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
}

type ConfirmRequest struct {
	Role string `json:"role"`
}

type SendMessageRequest struct {
	Body string `json:"body"`
}

func matchError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "match not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
	case errors.Is(err, service.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "role must be buyer or seller"))
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "operation failed"))
}

func (h *MatchHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	m, err := h.svc.Get(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(http.StatusOK, toMatchResponse(m))
}

func (h *MatchHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	matches, err := h.svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch matches"))
	}
	resp := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		resp = append(resp, toMatchResponse(&matches[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MatchHandler) Confirm(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	m, err := h.svc.Confirm(c.Request().Context(), c.Param("id"), uid, model.MatchRole(req.Role))
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(http.StatusOK, toMatchResponse(m))
}

func (h *MatchHandler) ListMessages(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	msgs, err := h.svc.ListMessages(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return matchError(c, err)
	}
	resp := make([]model.MatchMessage, 0, len(msgs))
	resp = append(resp, msgs...)
	return c.JSON(http.StatusOK, resp)
}

func (h *MatchHandler) SendMessage(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), c.Param("id"), uid, req.Body)
	if err != nil {
		return matchError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}
