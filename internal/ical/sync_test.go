package ical

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const syncFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:one@platform.com\r\n" +
	"DTSTART;VALUE=DATE:20250601\r\n" +
	"DTEND;VALUE=DATE:20250603\r\n" +
	"SUMMARY:Guest One\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:two@platform.com\r\n" +
	"DTSTART;VALUE=DATE:20250610\r\n" +
	"DTEND;VALUE=DATE:20250612\r\n" +
	"SUMMARY:Guest Two\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "LookAround/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/calendar")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReconcileImportsNewEvents(t *testing.T) {
	srv := feedServer(t, http.StatusOK, syncFeed)
	rec := NewReconciler(5 * time.Second)

	res, err := rec.Reconcile(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Events, 2)
	assert.Equal(t, "one@platform.com", res.Events[0].UID)
}

func TestReconcileSkipsImportedUIDs(t *testing.T) {
	srv := feedServer(t, http.StatusOK, syncFeed)
	rec := NewReconciler(5 * time.Second)

	imported := map[string]struct{}{"one@platform.com": {}}
	res, err := rec.Reconcile(context.Background(), srv.URL, imported)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "two@platform.com", res.Events[0].UID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	srv := feedServer(t, http.StatusOK, syncFeed)
	rec := NewReconciler(5 * time.Second)

	imported := map[string]struct{}{}
	first, err := rec.Reconcile(context.Background(), srv.URL, imported)
	require.NoError(t, err)
	for _, ev := range first.Events {
		imported[ev.UID] = struct{}{}
	}

	second, err := rec.Reconcile(context.Background(), srv.URL, imported)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, first.Total, second.Skipped)
	assert.Empty(t, second.Events)
}

func TestReconcileFetchFailures(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		srv := feedServer(t, http.StatusForbidden, "denied")
		rec := NewReconciler(5 * time.Second)
		_, err := rec.Reconcile(context.Background(), srv.URL, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("unreachable host", func(t *testing.T) {
		rec := NewReconciler(time.Second)
		_, err := rec.Reconcile(context.Background(), "http://127.0.0.1:1/feed.ics", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}

func TestReconcileEmptyFeedIsNotAnError(t *testing.T) {
	srv := feedServer(t, http.StatusOK, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")
	rec := NewReconciler(5 * time.Second)
	res, err := rec.Reconcile(context.Background(), srv.URL, nil)
	require.NoError(t, err, "an empty feed parses to zero events, it is not a fetch failure")
	assert.Zero(t, res.Total)
}
