package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func cacheCtx(target, pattern string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(pattern)
	return c
}

// Two resources sharing one route pattern must never share a cache
// entry.
func TestCacheKeySeparatesResources(t *testing.T) {
	a := cacheCtx("/v1/properties/1", "/v1/properties/:id")
	b := cacheCtx("/v1/properties/2", "/v1/properties/:id")

	assert.NotEqual(t, cacheKey("cache", a), cacheKey("cache", b))
}

// The same URL requested by two different users must hit different
// entries, otherwise one owner's calendar is served to another.
func TestCacheKeySeparatesUsers(t *testing.T) {
	a := cacheCtx("/v1/listings", "/v1/listings")
	a.Set("user_id", "1")
	b := cacheCtx("/v1/listings", "/v1/listings")
	b.Set("user_id", "2")

	assert.NotEqual(t, cacheKey("cache", a), cacheKey("cache", b))
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	a := cacheCtx("/v1/calendar?from=2025-06-01&to=2025-06-30", "/v1/calendar")
	b := cacheCtx("/v1/calendar?from=2025-07-01&to=2025-07-31", "/v1/calendar")

	assert.NotEqual(t, cacheKey("cache", a), cacheKey("cache", b))
}

// Anonymous requests land in the guest partition deterministically so
// repeated export fetches actually hit the cache.
func TestCacheKeyGuestDeterministic(t *testing.T) {
	a := cacheCtx("/ical/export/abc", "/ical/export/:token")
	b := cacheCtx("/ical/export/abc", "/ical/export/:token")

	assert.Equal(t, "guest", cacheIdentity(a))
	assert.Equal(t, cacheKey("cache", a), cacheKey("cache", b))
}
