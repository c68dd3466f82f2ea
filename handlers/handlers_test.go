package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"sitecms/api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeLog is an in-memory activity log.
type fakeLog struct {
	mu        sync.Mutex
	events    []models.Event
	appendErr error
	fetchErr  error
}

func (f *fakeLog) Append(_ context.Context, events []models.Event) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		e.ID = int64(len(f.events) + 1)
		e.OccurredAt = testNow
		f.events = append(f.events, e)
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeLog) FetchEvents(_ context.Context, start, end time.Time) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []models.Event
	for _, e := range f.events {
		if !e.OccurredAt.Before(start) && !e.OccurredAt.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func pageView(id, resource int64, ip string, ts time.Time) models.Event {
	return models.Event{
		ID:           id,
		Action:       models.ActionView,
		ResourceType: models.ResourceTypePage,
		ResourceID:   models.Int64Ptr(resource),
		IPAddress:    ip,
		OccurredAt:   ts,
	}
}

func perform(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var errBoom = errors.New("boom")
