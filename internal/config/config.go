package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	FavoritesBackendMemory   = "memory"
	FavoritesBackendDynamoDB = "dynamodb"
)

// Settings is the JSON settings document loaded from --config-file or
// --config-url. Zero values fall back to DefaultSettings.
type Settings struct {
	DatasetURL             string   `json:"dataset_url"`
	DatasetFile            string   `json:"dataset_file"`
	DatasetCacheDir        string   `json:"dataset_cache_dir"`
	DatasetRefreshSeconds  int      `json:"dataset_refresh_seconds"`
	NearestK               int      `json:"nearest_k"`
	MovementThresholdM     float64  `json:"movement_threshold_m"`
	MaxDiscovered          int      `json:"max_discovered"`
	MinOperatorStations    int      `json:"min_operator_stations"`
	OperatorOrder          string   `json:"operator_order"`
	SessionTTLSeconds      int      `json:"session_ttl_seconds"`
	ClusterLevel           int      `json:"cluster_level"`
	FavoritesBackend       string   `json:"favorites_backend"`
	FavoritesTable         string   `json:"favorites_table"`
	ConfigRefreshSeconds   int      `json:"config_refresh_seconds"`
	DatasetFetchMaxRetries int      `json:"dataset_fetch_max_retries"`
	AllowedOrigins         []string `json:"allowed_origins"`
}

// DefaultSettings returns the settings used for every field a settings
// document leaves out.
func DefaultSettings() Settings {
	return Settings{
		DatasetCacheDir:        "cache",
		DatasetRefreshSeconds:  3600,
		NearestK:               20,
		MovementThresholdM:     250,
		MinOperatorStations:    1,
		OperatorOrder:          "name",
		SessionTTLSeconds:      1800,
		ClusterLevel:           10,
		FavoritesBackend:       FavoritesBackendMemory,
		ConfigRefreshSeconds:   60,
		DatasetFetchMaxRetries: 3,
	}
}

// withDefaults fills every unset field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.DatasetCacheDir == "" {
		s.DatasetCacheDir = d.DatasetCacheDir
	}
	if s.DatasetRefreshSeconds <= 0 {
		s.DatasetRefreshSeconds = d.DatasetRefreshSeconds
	}
	if s.NearestK <= 0 {
		s.NearestK = d.NearestK
	}
	if s.MovementThresholdM <= 0 {
		s.MovementThresholdM = d.MovementThresholdM
	}
	if s.MinOperatorStations <= 0 {
		s.MinOperatorStations = d.MinOperatorStations
	}
	if s.OperatorOrder == "" {
		s.OperatorOrder = d.OperatorOrder
	}
	if s.SessionTTLSeconds <= 0 {
		s.SessionTTLSeconds = d.SessionTTLSeconds
	}
	if s.ClusterLevel <= 0 {
		s.ClusterLevel = d.ClusterLevel
	}
	if s.FavoritesBackend == "" {
		s.FavoritesBackend = d.FavoritesBackend
	}
	if s.ConfigRefreshSeconds <= 0 {
		s.ConfigRefreshSeconds = d.ConfigRefreshSeconds
	}
	if s.DatasetFetchMaxRetries <= 0 {
		s.DatasetFetchMaxRetries = d.DatasetFetchMaxRetries
	}
	return s
}

// Validate reports the first inconsistency in the settings.
func (s Settings) Validate() error {
	if s.DatasetURL == "" && s.DatasetFile == "" {
		return fmt.Errorf("one of dataset_url or dataset_file must be set")
	}
	if s.DatasetURL != "" && s.DatasetFile != "" {
		return fmt.Errorf("only one of dataset_url or dataset_file can be set")
	}
	if s.MaxDiscovered < 0 {
		return fmt.Errorf("max_discovered must not be negative, got %d", s.MaxDiscovered)
	}
	if s.ClusterLevel > 30 {
		return fmt.Errorf("cluster_level must be between 1 and 30, got %d", s.ClusterLevel)
	}
	switch s.OperatorOrder {
	case "name", "count":
	default:
		return fmt.Errorf("unknown operator_order %q", s.OperatorOrder)
	}
	switch s.FavoritesBackend {
	case FavoritesBackendMemory:
	case FavoritesBackendDynamoDB:
		if s.FavoritesTable == "" {
			return fmt.Errorf("favorites_table is required for the dynamodb backend")
		}
	default:
		return fmt.Errorf("unknown favorites_backend %q", s.FavoritesBackend)
	}
	return nil
}

// DatasetSource returns the configured dataset URL or file path.
func (s Settings) DatasetSource() string {
	if s.DatasetURL != "" {
		return s.DatasetURL
	}
	return s.DatasetFile
}

func (s Settings) DatasetRefreshInterval() time.Duration {
	return time.Duration(s.DatasetRefreshSeconds) * time.Second
}

func (s Settings) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLSeconds) * time.Second
}

func (s Settings) ConfigRefreshInterval() time.Duration {
	return time.Duration(s.ConfigRefreshSeconds) * time.Second
}

// Config holds all the configuration settings for our application.
type Config struct {
	Port     int
	Env      string
	Mu       sync.RWMutex
	settings Settings
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string, settings Settings) *Config {
	return &Config{
		Port:     port,
		Env:      env,
		settings: settings.withDefaults(),
	}
}

// UpdateConfig safely replaces the settings.
func (cfg *Config) UpdateConfig(settings Settings) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.settings = settings.withDefaults()
}

// GetSettings safely returns a copy of the current settings.
func (cfg *Config) GetSettings() Settings {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return cfg.settings
}
