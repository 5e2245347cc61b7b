// Package ingestion keeps the hazard log snapshot in step with the file on disk.
package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-saferoute/internal/broadcast"
	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/models"
)

type Manager struct {
	source      *hazardlog.Source
	broadcaster *broadcast.Broadcaster
	interval    time.Duration
	wg          sync.WaitGroup
}

func NewManager(source *hazardlog.Source, broadcaster *broadcast.Broadcaster, interval time.Duration) *Manager {
	metrics.HazardLogEvents.Set(float64(source.Snapshot().Len()))
	return &Manager{
		source:      source,
		broadcaster: broadcaster,
		interval:    interval,
	}
}

// Start begins polling the hazard log. A non-positive interval leaves the
// startup snapshot in place for the life of the process.
func (m *Manager) Start(ctx context.Context) {
	if m.interval <= 0 {
		slog.Info("hazard log polling disabled", "path", m.source.Path())
		return
	}

	m.wg.Add(1)
	go m.runPoller(ctx)
}

func (m *Manager) runPoller(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting hazard log poller", "path", m.source.Path(), "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("hazard log poller shutting down")
			return
		case <-ticker.C:
			if _, err := m.Poll(); err != nil {
				slog.Error("hazard log poll failed", "path", m.source.Path(), "error", err)
			}
		}
	}
}

// Poll reloads the hazard log if the file changed and publishes disaster
// events appended since the previous snapshot. It returns how many events
// were published.
func (m *Manager) Poll() (int, error) {
	changed, err := m.source.Changed()
	if err != nil {
		metrics.HazardLogReloadsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	if !changed {
		return 0, nil
	}

	prev, next, err := m.source.Reload()
	if err != nil {
		metrics.HazardLogReloadsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.HazardLogReloadsTotal.WithLabelValues("ok").Inc()
	metrics.HazardLogEvents.Set(float64(next.Len()))

	var fresh []models.HazardEvent
	for _, ev := range next.From(prev.Len()) {
		if shouldBroadcast(&ev) {
			fresh = append(fresh, ev)
		}
	}

	if m.broadcaster != nil && len(fresh) > 0 {
		if dropped := m.broadcaster.Broadcast(fresh...); dropped > 0 {
			slog.Warn("hazard feed subscribers lagging", "dropped", dropped)
		}
	}

	slog.Info("hazard log reloaded", "events", next.Len(), "previous", prev.Len(), "published", len(fresh))
	return len(fresh), nil
}

func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("hazard log manager stopped")
}

// shouldBroadcast keeps the feed to dated disaster events. Quiet days and
// undated rows are not news.
func shouldBroadcast(ev *models.HazardEvent) bool {
	return ev.IsDisaster() && ev.HasDate()
}
