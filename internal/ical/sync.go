package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrFetchFailed marks transport-level feed failures (network error or
// non-200 response).  Callers must keep it distinct from "feed parsed
// but held zero events": a flaky network must never be recorded as an
// empty calendar.
var ErrFetchFailed = errors.New("feed fetch failed")

// SyncResult reports one reconcile pass.  Events holds only the events
// that were NOT in the already-imported set; the caller materializes
// them as bookings tagged with their UID.
type SyncResult struct {
	Imported int     `json:"imported"`
	Skipped  int     `json:"skipped"`
	Total    int     `json:"total"`
	Events   []Event `json:"-"`
}

// Reconciler fetches an external feed, decodes it and diffs the events
// against UIDs that were imported on earlier passes.  It performs no
// conflict checking: externally synced reservations are trusted as-is,
// the source platform owns them.
type Reconciler struct {
	client    *http.Client
	userAgent string
}

// NewReconciler builds a Reconciler with a timeout-bounded HTTP
// client.  A zero timeout falls back to 30 seconds.
func NewReconciler(timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Reconciler{
		client:    &http.Client{Timeout: timeout},
		userAgent: "LookAround/1.0",
	}
}

// Reconcile GETs the feed, parses it and splits events into new and
// already-imported ones.  Re-running with an up-to-date set imports
// nothing, which makes periodic sync idempotent.  Only fetch-level
// problems return an error; malformed feed content degrades inside
// ParseFeed.
func (r *Reconciler) Reconcile(ctx context.Context, feedURL string, imported map[string]struct{}) (SyncResult, error) {
	text, err := r.fetch(ctx, feedURL)
	if err != nil {
		return SyncResult{}, err
	}

	events := ParseFeed(text)
	res := SyncResult{Total: len(events)}
	for _, ev := range events {
		if _, ok := imported[ev.UID]; ok {
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, ev)
		res.Imported++
	}
	return res, nil
}

func (r *Reconciler) fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return string(body), nil
}
