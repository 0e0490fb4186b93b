package telemetry

import (
	"context"
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestMockSource_Ranges(t *testing.T) {
	m := NewMockSource()
	for i := 0; i < 500; i++ {
		snap := m.Generate()
		require.NoError(t, snap.Validate())

		assert.GreaterOrEqual(t, snap.SolarActivity.KpIndex, 0.0)
		assert.LessOrEqual(t, snap.SolarActivity.KpIndex, 5.0)
		assert.LessOrEqual(t, snap.GeomagneticActivity.GlobalIndex, 7.0)
		assert.GreaterOrEqual(t, snap.GeomagneticActivity.LocalStrength, 25000.0)
		assert.GreaterOrEqual(t, snap.CoherenceData.GlobalCoherence, 0.1)
		assert.LessOrEqual(t, snap.CoherenceData.GlobalCoherence, 1.0)
		assert.InDelta(t, baseSchumannFrequency, snap.Schumann.Frequency, 0.1)
	}
}

func TestMockSource_Correlation(t *testing.T) {
	morning := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	m := &MockSource{
		Rand: sequence(0.99, 0.99, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5),
		Now:  func() time.Time { return morning },
	}
	snap := m.Generate()

	// floor(0.99*4) + floor(0.99*3)
	assert.Equal(t, 5.0, snap.SolarActivity.KpIndex)
	assert.InDelta(t, 350+5*50+50, snap.SolarActivity.SolarWindSpeed, 1e-9)
	assert.InDelta(t, 5, snap.GeomagneticActivity.GlobalIndex, 1e-9)
	assert.InDelta(t, 25000+5000+2500, snap.GeomagneticActivity.LocalStrength, 1e-9)
	assert.Equal(t, morning, snap.Timestamp)
}

func TestMockSource_FetchHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockSource().Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_Validate(t *testing.T) {
	good := Snapshot{}
	good.GeomagneticActivity.GlobalIndex = 3
	require.NoError(t, good.Validate())

	nan := good
	nan.SolarActivity.KpIndex = math.NaN()
	assert.Error(t, nan.Validate())

	neg := good
	neg.CoherenceData.GlobalCoherence = -0.1
	err := neg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coherenceData.globalCoherence")
}

type flakySource struct {
	calls atomic.Int32
}

func (f *flakySource) Fetch(ctx context.Context) (Snapshot, error) {
	n := f.calls.Add(1)
	if n == 1 {
		return Snapshot{}, errors.New("upstream down")
	}
	var s Snapshot
	s.SolarActivity.KpIndex = float64(n)
	return s, nil
}

func TestPoller_SkipsFailuresAndDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &flakySource{}
	p := NewPoller(src, 10*time.Millisecond, zerolog.Nop())
	go p.Run(ctx)

	select {
	case snap := <-p.Snapshots():
		assert.GreaterOrEqual(t, snap.SolarActivity.KpIndex, 2.0)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	for range p.Snapshots() {
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(NewMockSource(), 0, zerolog.Nop())
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestHub_RoundTrip(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	var first Snapshot
	first.GeomagneticActivity.GlobalIndex = 4.5
	hub.Broadcast(first)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	src := NewWebSocketSource(url)
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.GeomagneticActivity.GlobalIndex)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	var second Snapshot
	second.SolarActivity.KpIndex = 7
	hub.Broadcast(second)

	got, err = src.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.SolarActivity.KpIndex)
}

func TestWebSocketSource_DialFailure(t *testing.T) {
	src := NewWebSocketSource("ws://127.0.0.1:1/ws")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := src.Fetch(ctx)
	require.Error(t, err)
}

func TestFollow_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := Follow(ctx, NewMockSource(), time.Millisecond, zerolog.Nop())

	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("no snapshot from follow")
	}
	cancel()

	done := make(chan struct{})
	go func() {
		for range out {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("follow did not close its channel")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			var snap Snapshot
			snap.SolarActivity.KpIndex = float64(i % 10)
			hub.Publish(snap)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked without a running broadcaster")
	}
}

func TestHub_RunBroadcastsLatestPublished(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	src := NewWebSocketSource("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Dial before anything is published so the first read is a broadcast.
	fetched := make(chan Snapshot, 1)
	go func() {
		snap, err := src.Fetch(ctx)
		if err == nil {
			fetched <- snap
		}
	}()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	for _, kp := range []float64{1, 2, 3} {
		var snap Snapshot
		snap.SolarActivity.KpIndex = kp
		hub.Publish(snap)
	}
	go hub.Run(ctx)

	select {
	case got := <-fetched:
		assert.Equal(t, 3.0, got.SolarActivity.KpIndex, "stale queued snapshots are replaced")
	case <-ctx.Done():
		t.Fatal("no broadcast received")
	}
}
