package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/coomunity/marketplace-backend/internal/ai"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"github.com/coomunity/marketplace-backend/internal/reqctx"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AIHandler struct {
	itemRepo  repository.ItemRepository
	assistant *ai.AssistantClient
}

func NewAIHandler(itemRepo repository.ItemRepository, assistant *ai.AssistantClient) *AIHandler {
	return &AIHandler{itemRepo: itemRepo, assistant: assistant}
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *AIHandler) AskItem(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid item id"))
	}
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "question is required"))
	}
	ctx := c.Request().Context()
	item, err := h.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "item not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch item"))
	}
	if item.SellerUID == uid {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "cannot ask about own item"))
	}

	ctx = reqctx.WithRID(ctx, uuid.NewString())
	ctx = reqctx.WithItemID(ctx, itemID)
	answer, err := h.assistant.Ask(ctx, item, req.Question)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("upstream_error", "failed to generate answer"))
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}
