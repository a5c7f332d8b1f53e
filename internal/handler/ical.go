package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lookaround/property-booking/internal/ical"
	"github.com/lookaround/property-booking/internal/model"
)

type feedReq struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateFeed handles POST /v1/properties/:id/feeds.
func (h *OwnerHandler) CreateFeed(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	propertyID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req feedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url must be http or https"})
	}

	f := &model.Feed{
		UserID:     ownerID,
		PropertyID: propertyID,
		Name:       name,
		URL:        u.String(),
	}
	if err := h.Feeds.Create(c.Request().Context(), f); err != nil {
		return ownershipError(c, err, "property not found")
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFeeds handles GET /v1/feeds.
func (h *OwnerHandler) ListFeeds(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Feeds.ListByUser(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteFeed handles DELETE /v1/feeds/:id.  Bookings already imported
// from the feed stay; deleting the subscription only stops future
// passes.
func (h *OwnerHandler) DeleteFeed(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	feedID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Feeds.Delete(c.Request().Context(), feedID, ownerID); err != nil {
		return ownershipError(c, err, "feed not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// SyncFeed handles POST /v1/feeds/:id/sync: one on-demand reconcile
// pass over the same code path the scheduler runs.  An unreachable or
// erroring remote maps to 502 so the client can tell a broken feed
// from a broken server.
func (h *OwnerHandler) SyncFeed(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	feedID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	feed, err := h.Feeds.GetOwned(c.Request().Context(), feedID, ownerID)
	if err != nil {
		return ownershipError(c, err, "feed not found")
	}
	res, err := h.Sync.SyncFeed(c.Request().Context(), feed)
	if err != nil {
		if errors.Is(err, ical.ErrFetchFailed) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "feed fetch failed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sync failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"total":    res.Total,
	})
}

// ExportCalendar handles GET /ical/export/:token, the public feed
// external platforms subscribe to.  The random export token is the only
// credential; no session is involved.  Cancelled bookings are omitted,
// manual blocks are included, and the response is served as
// text/calendar with a short client cache.
func (h *OwnerHandler) ExportCalendar(c echo.Context) error {
	token := c.Param("token")
	ctx := c.Request().Context()

	p, err := h.Properties.GetByExportToken(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown calendar"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	bookings, err := h.Bookings.ActiveByProperty(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	blocks, err := h.Blocks.ListByProperty(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	events := make([]ical.Event, 0, len(bookings)+len(blocks))
	for _, b := range bookings {
		events = append(events, bookingEvent(b))
	}
	for _, b := range blocks {
		events = append(events, blockEvent(b))
	}

	body := ical.GenerateFeed(events, p.Name)
	c.Response().Header().Set("Cache-Control", "max-age=300")
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// bookingEvent shapes a booking as an export VEVENT.  Imported rows
// keep their upstream UID so a platform pulling the feed back
// recognizes its own reservations; native rows get a stable synthetic
// one.
func bookingEvent(b model.Booking) ical.Event {
	uid := fmt.Sprintf("booking-%d@lookaround.app", b.ID)
	if b.ICalUID != nil && *b.ICalUID != "" {
		uid = *b.ICalUID
	}
	desc := ""
	if b.Notes != nil {
		desc = *b.Notes
	}
	return ical.Event{
		UID:         uid,
		Summary:     b.CustomerName,
		Start:       b.CheckIn,
		End:         b.CheckOut,
		Description: desc,
		AllDay:      isMidnight(b.CheckIn) && isMidnight(b.CheckOut),
	}
}

func blockEvent(b model.Block) ical.Event {
	summary := "Blocked"
	if b.Reason != nil && *b.Reason != "" {
		summary = *b.Reason
	}
	return ical.Event{
		UID:     fmt.Sprintf("block-%d@lookaround.app", b.ID),
		Summary: summary,
		Start:   b.StartDate,
		End:     b.EndDate,
		AllDay:  isMidnight(b.StartDate) && isMidnight(b.EndDate),
	}
}

func isMidnight(t time.Time) bool {
	h, m, s := t.Clock()
	return h == 0 && m == 0 && s == 0
}
