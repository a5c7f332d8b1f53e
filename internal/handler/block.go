package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/model"
)

type blockReq struct {
	RoomID    *uint64 `json:"room_id"` // null blocks the entire property
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    string  `json:"reason"`
	Override  bool    `json:"override"`
}

// CreateBlock handles POST /v1/properties/:id/blocks.  Blocks go
// through the same conflict check as bookings so an owner cannot
// accidentally close dates a guest already holds; override forces the
// insert anyway.
func (h *OwnerHandler) CreateBlock(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req blockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := parseStay(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := parseStay(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	if !start.Before(end) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be before end_date"})
	}

	ctx := c.Request().Context()
	if _, err := h.Properties.GetOwned(ctx, propertyID, ownerID); err != nil {
		return ownershipError(c, err, "property not found")
	}
	if req.RoomID != nil {
		_, ok, err := h.findRoom(ctx, propertyID, *req.RoomID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room does not belong to property"})
		}
	}

	b := model.Block{
		PropertyID: propertyID,
		RoomID:     req.RoomID,
		StartDate:  start.UTC(),
		EndDate:    end.UTC(),
		Reason:     optText(req.Reason),
	}

	verdict, err := h.checkStay(ctx, propertyID, blockInterval(b))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if verdict.HasConflict && !req.Override {
		return c.JSON(http.StatusConflict, echo.Map{"error": "CONFLICT", "conflict": verdict})
	}

	if err := h.Blocks.Create(ctx, ownerID, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create block"})
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBlocks handles GET /v1/properties/:id/blocks.
func (h *OwnerHandler) ListBlocks(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Properties.GetOwned(c.Request().Context(), propertyID, ownerID); err != nil {
		return ownershipError(c, err, "property not found")
	}
	items, err := h.Blocks.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteBlock handles DELETE /v1/blocks/:id.  Unlike bookings a block
// carries no history worth keeping, so it is removed outright.
func (h *OwnerHandler) DeleteBlock(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blockID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Blocks.Delete(c.Request().Context(), blockID, ownerID); err != nil {
		return ownershipError(c, err, "block not found")
	}
	return c.NoContent(http.StatusNoContent)
}
