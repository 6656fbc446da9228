package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/items/:id", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/items/:id", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/items", "POST", 201, 5*time.Millisecond)
	m.RecordError("/api/items/:id", "GET", "NOT_FOUND")

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "/api/items/:id|GET|200", snap.Requests[0].Key)
	assert.Equal(t, "/api/items|POST|201", snap.Requests[1].Key)

	byKey := make(map[string]RequestStat, len(snap.Requests))
	for _, row := range snap.Requests {
		byKey[row.Key] = row
	}
	get := byKey["/api/items/:id|GET|200"]
	assert.Equal(t, int64(2), get.Count)
	assert.InDelta(t, 20.0, get.AvgLatencyMs, 0.001)
	post := byKey["/api/items|POST|201"]
	assert.Equal(t, int64(1), post.Count)
	assert.InDelta(t, 5.0, post.AvgLatencyMs, 0.001)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, int64(1), snap.Errors[0].Count)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
	})
}
