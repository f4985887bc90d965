package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGateInactivePasses(t *testing.T) {
	g := NewGate(NewMemoryStore(), nil)
	assert.Nil(t, g.Check(httptest.NewRequest(http.MethodGet, "/api/martyrs", nil)))
	assert.Equal(t, http.StatusOK, serve(g.Middleware()(okHandler), "/api/martyrs").Code)
}

func TestGateActiveBlocks(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(NewMemoryStore(), nil, WithClock(fixedClock(now)))
	ctx := context.Background()

	require.NoError(t, g.Enable(ctx, now, now.Add(30*time.Minute)))
	h := g.Middleware()(okHandler)

	rec := serve(h, "/api/martyrs")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1800", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{
		"error": "System is under maintenance",
		"maintenanceWindow": {"start": "2024-05-01T12:00:00Z", "end": "2024-05-01T12:30:00Z"}
	}`, rec.Body.String())

	// Every path other than health is gated, including unknown ones.
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/api/health/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/api/healthz").Code)
	assert.Equal(t, http.StatusOK, serve(h, HealthPath).Code)

	require.NoError(t, g.Disable(ctx))
	assert.Equal(t, http.StatusOK, serve(h, "/api/martyrs").Code)
}

func TestGateBodyKeepsSubSecondBounds(t *testing.T) {
	start := time.Now().Truncate(time.Second).Add(123*time.Millisecond + 456*time.Microsecond)
	end := start.Add(time.Hour)
	g := NewGate(NewMemoryStore(), nil)
	require.NoError(t, g.Enable(context.Background(), start, end))

	rec := serve(g.Middleware()(okHandler), "/api/something")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		MaintenanceWindow struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"maintenanceWindow"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.MaintenanceWindow.Start.Equal(start), "start %s != %s", body.MaintenanceWindow.Start, start)
	assert.True(t, body.MaintenanceWindow.End.Equal(end), "end %s != %s", body.MaintenanceWindow.End, end)

	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 3600, retry, 2)
}

func TestGateDisableIdempotent(t *testing.T) {
	g := NewGate(NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, g.Disable(ctx))
	require.NoError(t, g.Disable(ctx))

	w, err := g.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, Inactive, w)
}

func TestGateEnableReplacesWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(NewMemoryStore(), nil, WithClock(fixedClock(now)))
	ctx := context.Background()

	require.NoError(t, g.Enable(ctx, now, now.Add(time.Hour)))
	require.NoError(t, g.Enable(ctx, now, now.Add(2*time.Hour)))

	w, err := g.Status(ctx)
	require.NoError(t, err)
	require.True(t, w.Active)
	assert.True(t, w.End.Equal(now.Add(2*time.Hour)))
}

func TestGateNoAutoExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(NewMemoryStore(), nil, WithClock(fixedClock(now)))

	// Window ended 2.5s ago: still enforced, Retry-After goes negative.
	require.NoError(t, g.Enable(context.Background(), now.Add(-time.Hour), now.Add(-2500*time.Millisecond)))
	rec := serve(g.Middleware()(okHandler), "/api/martyrs")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "-2", rec.Header().Get("Retry-After"))
}

func TestGateEnableAcceptsInvertedBounds(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(NewMemoryStore(), nil, WithClock(fixedClock(now)))
	require.NoError(t, g.Enable(context.Background(), now.Add(time.Hour), now))

	w, err := g.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, w.Active)
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		end  time.Duration
		want int64
	}{
		{0, 0},
		{1 * time.Millisecond, 1},
		{999 * time.Millisecond, 1},
		{1000 * time.Millisecond, 1},
		{1001 * time.Millisecond, 2},
		{-500 * time.Millisecond, 0},
		{-1500 * time.Millisecond, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, retryAfter(now.Add(tc.end), now), "offset %s", tc.end)
	}
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) (Window, error) { return Inactive, errors.New("redis down") }
func (brokenStore) Save(context.Context, Window) error   { return errors.New("redis down") }

func TestGateFailsOpenOnStoreError(t *testing.T) {
	g := NewGate(brokenStore{}, nil)
	assert.Equal(t, http.StatusOK, serve(g.Middleware()(okHandler), "/api/martyrs").Code)

	now := time.Now()
	assert.Error(t, g.Enable(context.Background(), now, now.Add(time.Minute)))
	assert.Error(t, g.Disable(context.Background()))
}
