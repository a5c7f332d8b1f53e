package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/booking"
	"github.com/lookaround/property-booking/internal/model"
)

// maxGridDays bounds one calendar request; a year of cells is plenty
// for any UI and keeps the response size predictable.
const maxGridDays = 366

// ownerListings flattens every property of the user into calendar
// listings.
func (h *OwnerHandler) ownerListings(c echo.Context, ownerID uint64) ([]booking.Listing, error) {
	ctx := c.Request().Context()
	props, err := h.Properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rooms, err := h.Rooms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byProperty := make(map[uint64][]model.Room)
	for _, r := range rooms {
		byProperty[r.PropertyID] = append(byProperty[r.PropertyID], r)
	}
	out := make([]booking.Listing, 0, len(props)+len(rooms))
	for _, p := range props {
		out = append(out, propertyListings(p, byProperty[p.ID])...)
	}
	return out, nil
}

// ListListings handles GET /v1/listings: the flat set of bookable
// units the calendar renders rows for.
func (h *OwnerHandler) ListListings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ownerListings(c, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Calendar handles GET /v1/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD and
// returns the per-day occupancy of every listing the user owns.  The
// grid is computed fresh on each request from the active bookings and
// blocks; nothing is cached server-side beyond the response cache
// middleware.
func (h *OwnerHandler) Calendar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	from, err := time.ParseInLocation("2006-01-02", c.QueryParam("from"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := time.ParseInLocation("2006-01-02", c.QueryParam("to"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must not precede from"})
	}
	if int(to.Sub(from).Hours()/24)+1 > maxGridDays {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date range too large"})
	}

	ctx := c.Request().Context()
	listings, err := h.ownerListings(c, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	bookings, err := h.Bookings.ActiveByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	blocks, err := h.Blocks.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	grid := booking.BuildAvailability(listings, bookingIntervals(bookings), blockIntervals(blocks), from, to)

	// Struct keys don't serialize; reshape to listing -> day -> cell.
	days := make(map[string]map[string]booking.Cell, len(listings))
	for key, cell := range grid {
		m, ok := days[key.ListingID]
		if !ok {
			m = make(map[string]booking.Cell)
			days[key.ListingID] = m
		}
		m[key.Day] = cell
	}

	return c.JSON(http.StatusOK, echo.Map{
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
		"listings": listings,
		"days":     days,
	})
}
