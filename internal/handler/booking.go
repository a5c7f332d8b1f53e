package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/booking"
	"github.com/lookaround/property-booking/internal/model"
	"github.com/lookaround/property-booking/internal/queue"
	queue_publisher "github.com/lookaround/property-booking/internal/service"
)

// parseStay accepts either a bare date ("2025-06-01", midnight UTC) or
// a full RFC 3339 timestamp.
func parseStay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type bookingReq struct {
	RoomID       *uint64 `json:"room_id"` // null books the entire property
	CustomerName string  `json:"customer_name"`
	CheckIn      string  `json:"check_in"`
	CheckOut     string  `json:"check_out"`
	PriceCents   uint32  `json:"price_cents"`
	AdvanceCents uint32  `json:"advance_cents"`
	GuestCount   uint32  `json:"guest_count"`
	Source       string  `json:"source"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
	Override     bool    `json:"override"` // insert despite a reported conflict
}

// CreateBooking handles POST /v1/properties/:id/bookings.  The stay is
// checked against every active booking and block of the property before
// insert; a conflict yields 409 with the classification unless the
// client set override.
func (h *OwnerHandler) CreateBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name is required"})
	}
	checkIn, err := parseStay(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in"})
	}
	checkOut, err := parseStay(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out"})
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be before check_out"})
	}

	source := strings.ToUpper(strings.TrimSpace(req.Source))
	switch source {
	case model.SourceDirect, model.SourceAirbnb, model.SourceBooking:
	case "":
		source = model.SourceDirect
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid source"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.BookingConfirmed, model.BookingPending:
	case "":
		status = model.BookingConfirmed
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if req.GuestCount == 0 {
		req.GuestCount = 1
	}

	ctx := c.Request().Context()
	p, err := h.Properties.GetOwned(ctx, propertyID, ownerID)
	if err != nil {
		return ownershipError(c, err, "property not found")
	}
	roomName := ""
	if req.RoomID != nil {
		room, ok, err := h.findRoom(ctx, propertyID, *req.RoomID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room does not belong to property"})
		}
		roomName = room.Name
	}

	b := model.Booking{
		PropertyID:   propertyID,
		RoomID:       req.RoomID,
		CustomerName: customer,
		CheckIn:      checkIn.UTC(),
		CheckOut:     checkOut.UTC(),
		PriceCents:   req.PriceCents,
		AdvanceCents: req.AdvanceCents,
		GuestCount:   req.GuestCount,
		Source:       source,
		Status:       status,
		Notes:        optText(req.Notes),
	}

	verdict, err := h.checkStay(ctx, propertyID, bookingInterval(b))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if verdict.HasConflict && !req.Override {
		return c.JSON(http.StatusConflict, echo.Map{"error": "CONFLICT", "conflict": verdict})
	}

	if err := h.Bookings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	if b.Status == model.BookingConfirmed {
		go publishConfirmed(b, p, ownerID, roomName)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListBookings handles GET /v1/properties/:id/bookings.
func (h *OwnerHandler) ListBookings(c echo.Context) error {
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
	items, err := h.Bookings.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelBooking handles DELETE /v1/bookings/:id.  Bookings are never
// hard-deleted; a cancelled row keeps the guest history and frees the
// dates.
func (h *OwnerHandler) CancelBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Bookings.Cancel(c.Request().Context(), bookingID, ownerID); err != nil {
		return ownershipError(c, err, "booking not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// checkStay runs the hierarchy conflict check for one candidate against
// everything active on the property.
func (h *OwnerHandler) checkStay(ctx context.Context, propertyID uint64, candidate booking.Interval) (booking.ConflictResult, error) {
	active, err := h.Bookings.ActiveByProperty(ctx, propertyID)
	if err != nil {
		return booking.ConflictResult{}, err
	}
	blocks, err := h.Blocks.ListByProperty(ctx, propertyID)
	if err != nil {
		return booking.ConflictResult{}, err
	}
	existing := append(bookingIntervals(active), blockIntervals(blocks)...)
	return booking.CheckConflict(candidate, existing), nil
}

func (h *OwnerHandler) findRoom(ctx context.Context, propertyID, roomID uint64) (model.Room, bool, error) {
	rooms, err := h.Rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return model.Room{}, false, err
	}
	for _, r := range rooms {
		if r.ID == roomID {
			return r, true, nil
		}
	}
	return model.Room{}, false, nil
}

// publishConfirmed fires the booking.confirmed event.  Runs detached
// from the request; a broker outage only costs the log line.
func publishConfirmed(b model.Booking, p model.Property, ownerID uint64, roomName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:    b.ID,
		OwnerID:      ownerID,
		PropertyID:   p.ID,
		PropertyName: p.Name,
		RoomName:     roomName,
		CustomerName: b.CustomerName,
		CheckIn:      b.CheckIn.Format(time.RFC3339),
		CheckOut:     b.CheckOut.Format(time.RFC3339),
		Source:       b.Source,
		PriceCents:   b.PriceCents,
		GuestCount:   b.GuestCount,
		ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
