package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the sync job configuration persisted to disk.
type Settings struct {
	RealDebrid      RealDebridSettings `json:"realDebrid"`
	MDBList         MDBListSettings    `json:"mdblist"`
	Radarr          ArrSettings        `json:"radarr"`
	Sonarr          ArrSettings        `json:"sonarr"`
	BlackoutPeriods []BlackoutPeriod   `json:"blackoutPeriods,omitempty"`
	Movies          []ListConfig       `json:"movies"`
	Shows           []ListConfig       `json:"shows"`
	Log             LogConfig          `json:"log"`
}

// RealDebridSettings holds the debrid account used as the capacity source.
type RealDebridSettings struct {
	Token string `json:"token"`
}

// MDBListSettings holds the list provider credentials.
type MDBListSettings struct {
	APIKey string `json:"apiKey"`
}

// ArrSettings describes a Radarr or Sonarr instance. Port is optional; when
// zero the base URL is used as-is.
type ArrSettings struct {
	BaseURL string `json:"baseUrl"`
	Port    int    `json:"port,omitempty"`
	APIKey  string `json:"apiKey"`
}

// ListConfig identifies a remote curated list plus where its items land in
// the destination library.
type ListConfig struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	QualityProfileID int    `json:"qualityProfileId"`
	RootFolderPath   string `json:"rootFolderPath"`
}

// Recurrence kinds for blackout periods.
const (
	RecurringDaily = "daily"
	RecurringOnce  = "once"
)

// BlackoutPeriod is a named quiet window during which the job must not run.
//
// Daily periods use StartTime ("HH:MM" local time) plus exactly one of
// EndTime or Duration. Once periods use Start (RFC 3339, or the same layout
// without a zone for local time) plus exactly one of End or Duration.
// Duration strings use the composite grammar understood by
// schedule.ParseDuration (e.g. "1d 2h 30m"). Daily windows are evaluated at
// whole-minute granularity: a sub-minute duration component rounds the window
// end up to the next minute, and the duration must be positive and shorter
// than 24 hours.
type BlackoutPeriod struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	Recurring string `json:"recurring"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns a skeleton configuration written on first run.
// Credentials are intentionally blank; Validate rejects the skeleton until
// the operator fills them in.
func DefaultSettings() Settings {
	return Settings{
		RealDebrid: RealDebridSettings{Token: ""},
		MDBList:    MDBListSettings{APIKey: ""},
		Radarr:     ArrSettings{BaseURL: "http://localhost", Port: 7878, APIKey: ""},
		Sonarr:     ArrSettings{BaseURL: "http://localhost", Port: 8989, APIKey: ""},
		BlackoutPeriods: []BlackoutPeriod{
			{Name: "overnight", Enabled: false, Recurring: RecurringDaily, StartTime: "23:00", EndTime: "06:00"},
		},
		Movies: []ListConfig{},
		Shows:  []ListConfig{},
		Log:    LogConfig{File: "", MaxSize: 10, MaxAge: 30, MaxBackups: 3, Compress: true},
	}
}

// Validate checks that the configuration is usable before any network call
// is made. It covers credentials and list placement parameters; blackout
// period windows are validated by the schedule package.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.RealDebrid.Token) == "" {
		return errors.New("realDebrid.token is required")
	}
	if strings.TrimSpace(s.MDBList.APIKey) == "" {
		return errors.New("mdblist.apiKey is required")
	}
	if len(s.Movies) == 0 && len(s.Shows) == 0 {
		return errors.New("no movie or show lists configured")
	}
	if len(s.Movies) > 0 {
		if err := s.Radarr.validate(); err != nil {
			return fmt.Errorf("radarr: %w", err)
		}
	}
	if len(s.Shows) > 0 {
		if err := s.Sonarr.validate(); err != nil {
			return fmt.Errorf("sonarr: %w", err)
		}
	}
	for i, l := range s.Movies {
		if err := l.validate(); err != nil {
			return fmt.Errorf("movies[%d]: %w", i, err)
		}
	}
	for i, l := range s.Shows {
		if err := l.validate(); err != nil {
			return fmt.Errorf("shows[%d]: %w", i, err)
		}
	}
	return nil
}

func (a ArrSettings) validate() error {
	if strings.TrimSpace(a.BaseURL) == "" {
		return errors.New("baseUrl is required")
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return errors.New("apiKey is required")
	}
	return nil
}

func (l ListConfig) validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(l.RootFolderPath) == "" {
		return errors.New("rootFolderPath is required")
	}
	return nil
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir creates the directory holding the settings file.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file, creating it with defaults when missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		// create with defaults
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode %s: %w", m.path, err)
	}
	return s, nil
}

// Save writes settings atomically via a temp file rename.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
