package catalog

import (
	"sync"
	"time"

	"github.com/mvp-joe/project-neo/internal/neo"
)

// ReloadMetrics tracks reload statistics for the catalog.
// All methods are thread-safe and can be called concurrently.
type ReloadMetrics struct {
	lastReloadTime     time.Time
	lastReloadDuration time.Duration
	lastReloadError    string
	totalReloads       int64
	successfulReloads  int64
	failedReloads      int64
	current            neo.Stats
	mu                 sync.RWMutex
}

// MetricsSnapshot is an immutable snapshot of reload metrics at a point in time.
type MetricsSnapshot struct {
	LastReloadTime     time.Time     `json:"last_reload_time"`
	LastReloadDuration time.Duration `json:"last_reload_duration_ns"`
	LastReloadError    string        `json:"last_reload_error,omitempty"`
	TotalReloads       int64         `json:"total_reloads"`
	SuccessfulReloads  int64         `json:"successful_reloads"`
	FailedReloads      int64         `json:"failed_reloads"`
	Current            neo.Stats     `json:"current"`
}

// NewReloadMetrics creates a new ReloadMetrics instance with zero values.
func NewReloadMetrics() *ReloadMetrics {
	return &ReloadMetrics{}
}

// RecordReload records the outcome of a reload. stats describes the database
// being served afterwards, which is the old one when the reload failed.
func (m *ReloadMetrics) RecordReload(duration time.Duration, err error, stats neo.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastReloadTime = time.Now()
	m.lastReloadDuration = duration
	m.totalReloads++
	m.current = stats

	if err != nil {
		m.failedReloads++
		m.lastReloadError = err.Error()
	} else {
		m.successfulReloads++
		m.lastReloadError = ""
	}
}

// GetMetrics returns an immutable snapshot of current metrics.
func (m *ReloadMetrics) GetMetrics() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		LastReloadTime:     m.lastReloadTime,
		LastReloadDuration: m.lastReloadDuration,
		LastReloadError:    m.lastReloadError,
		TotalReloads:       m.totalReloads,
		SuccessfulReloads:  m.successfulReloads,
		FailedReloads:      m.failedReloads,
		Current:            m.current,
	}
}
