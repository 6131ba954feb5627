package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"woladen.de/internal/config"
	"woladen.de/internal/dataset"
	"woladen.de/internal/discovery"
	"woladen.de/internal/metrics"
)

// Manager creates sessions and keeps them in an expiring cache. Every
// successful lookup extends a session's lifetime by the configured TTL.
type Manager struct {
	cache   *cache.Cache
	store   *dataset.Store
	config  *config.Config
	metrics *metrics.MetricsService
	logger  *slog.Logger
}

func NewManager(store *dataset.Store, cfg *config.Config, ms *metrics.MetricsService, logger *slog.Logger) *Manager {
	ttl := cfg.GetSettings().SessionTTL()
	m := &Manager{
		cache:   cache.New(ttl, cleanupInterval(ttl)),
		store:   store,
		config:  cfg,
		metrics: ms,
		logger:  logger,
	}
	m.cache.OnEvicted(func(id string, _ interface{}) {
		m.logger.Debug("Session expired", "session_id", id)
		m.metrics.SetActiveSessions(m.cache.ItemCount())
	})
	return m
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval > time.Second {
		return interval
	}
	return time.Second
}

func (m *Manager) options() discovery.Options {
	settings := m.config.GetSettings()
	return discovery.Options{
		NearestK:           settings.NearestK,
		MovementThresholdM: settings.MovementThresholdM,
		MaxDiscovered:      settings.MaxDiscovered,
	}
}

// Create starts a session on the current dataset with the default filter.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.store, m.options(), m.metrics)
	m.cache.Set(s.ID, s, m.config.GetSettings().SessionTTL())
	m.metrics.SetActiveSessions(m.cache.ItemCount())
	m.logger.Debug("Session created", "session_id", s.ID, "dataset_version", s.dataset.Version)
	return s
}

// Get returns the session and extends its lifetime.
func (m *Manager) Get(id string) (*Session, bool) {
	item, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	s, ok := item.(*Session)
	if !ok {
		return nil, false
	}
	m.cache.Set(id, s, m.config.GetSettings().SessionTTL())
	return s, true
}

// Delete ends a session.
func (m *Manager) Delete(id string) {
	m.cache.Delete(id)
}

// Count returns the number of live sessions, including expired ones not yet
// cleaned up.
func (m *Manager) Count() int {
	return m.cache.ItemCount()
}
