package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/model"
	"github.com/lookaround/property-booking/internal/repository"
)

// ownershipError maps the repository sentinels shared by every owned
// resource: missing row -> 404, foreign owner -> 403, anything else 500.
func ownershipError(c echo.Context, err error, notFound string) error {
	switch err {
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}

// optText trims a free-text field and returns nil for empty input so
// the column stores NULL instead of "".
func optText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CreateProperty handles POST /v1/properties.
func (h *OwnerHandler) CreateProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	p := &model.Property{
		OwnerID:     ownerID,
		Name:        name,
		Description: optText(body.Description),
		Address:     optText(body.Address),
		// Random capability token for the public iCal export URL.
		ExportToken: uuid.NewString(),
	}
	if err := h.Properties.Create(c.Request().Context(), p); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "property name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create property"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListProperties handles GET /v1/properties.
func (h *OwnerHandler) ListProperties(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Properties.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetProperty handles GET /v1/properties/:id and includes the rooms.
func (h *OwnerHandler) GetProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Properties.GetOwned(c.Request().Context(), id, ownerID)
	if err != nil {
		return ownershipError(c, err, "property not found")
	}
	rooms, err := h.Rooms.ListByProperty(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"property": p, "rooms": rooms})
}

// UpdateProperty handles PUT /v1/properties/:id.
func (h *OwnerHandler) UpdateProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Properties.Update(c.Request().Context(), id, ownerID, name, optText(body.Description), optText(body.Address)); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "property name already exists"})
		}
		return ownershipError(c, err, "property not found")
	}
	p, err := h.Properties.GetOwned(c.Request().Context(), id, ownerID)
	if err != nil {
		return ownershipError(c, err, "property not found")
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProperty handles DELETE /v1/properties/:id.  Deletion is
// refused while non-cancelled upcoming bookings exist.
func (h *OwnerHandler) DeleteProperty(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Properties.Delete(c.Request().Context(), id, ownerID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "property has upcoming bookings"})
		}
		return ownershipError(c, err, "property not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /v1/properties/:id/rooms.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	room := &model.Room{
		PropertyID:  propertyID,
		Name:        name,
		Description: optText(body.Description),
	}
	if err := h.Rooms.Create(c.Request().Context(), ownerID, room); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already exists"})
		}
		return ownershipError(c, err, "property not found")
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/properties/:id/rooms.
func (h *OwnerHandler) ListRooms(c echo.Context) error {
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
	items, err := h.Rooms.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRoom handles DELETE /v1/rooms/:id.
func (h *OwnerHandler) DeleteRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), roomID, ownerID); err != nil {
		return ownershipError(c, err, "room not found")
	}
	return c.NoContent(http.StatusNoContent)
}
