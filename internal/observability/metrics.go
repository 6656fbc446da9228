package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	started      time.Time
	requestCount map[string]int64
	requestTime  map[string]time.Duration
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:      time.Now(),
		requestCount: make(map[string]int64),
		requestTime:  make(map[string]time.Duration),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := route + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestTime[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := route + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestStat is one row of the request counters.
type RequestStat struct {
	Key          string  `json:"key"`
	Count        int64   `json:"count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// ErrorStat is one row of the error counters.
type ErrorStat struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds int64         `json:"uptime_seconds"`
	Requests      []RequestStat `json:"requests"`
	Errors        []ErrorStat   `json:"errors"`
}

// Snapshot copies the counters, sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]RequestStat, 0, len(m.requestCount)),
		Errors:        make([]ErrorStat, 0, len(m.errorCount)),
	}
	for key, count := range m.requestCount {
		avg := float64(m.requestTime[key].Microseconds()) / float64(count) / 1000
		snap.Requests = append(snap.Requests, RequestStat{Key: key, Count: count, AvgLatencyMs: avg})
	}
	for key, count := range m.errorCount {
		snap.Errors = append(snap.Errors, ErrorStat{Key: key, Count: count})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	sort.Slice(snap.Errors, func(i, j int) bool { return snap.Errors[i].Key < snap.Errors[j].Key })
	return snap
}
