package config

import (
	"fmt"
	"time"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// DefaultEndpoint is the intake script URL compiled into the binary.
// Set at build time:
//
//	go build -ldflags "-X github.com/stmarys-jajpur/admitform/internal/config.DefaultEndpoint=https://..."
var DefaultEndpoint = ""

const (
	defaultVariant         = "admission"
	defaultTimeoutSeconds  = 30
	defaultMaxAttachmentMB = 10
)

// Settings is the whole configuration file
type Settings struct {
	Version         int     `yaml:"version"`
	Endpoint        string  `yaml:"endpoint,omitempty"`          // Intake script URL
	Variant         string  `yaml:"variant,omitempty"`           // "admission" or "sat"
	TimeoutSeconds  int     `yaml:"timeout_seconds,omitempty"`   // Bound on one submission
	MaxAttachmentMB int     `yaml:"max_attachment_mb,omitempty"` // Per attachment
	School          *School `yaml:"school,omitempty"`
}

// School is the information shown on the landing screen
type School struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Session string `yaml:"session"`
	Fee     int    `yaml:"fee"` // Application fee in rupees
}

// DefaultSchool returns the built-in school information
func DefaultSchool() *School {
	return &School{
		Name:    "St. Mary's Higher Secondary School",
		Address: "Jajpur Road, Odisha",
		Session: "2026-2027",
		Fee:     500,
	}
}

// NewSettings creates settings with default values
func NewSettings() *Settings {
	return &Settings{
		Version:         CurrentVersion,
		Endpoint:        DefaultEndpoint,
		Variant:         defaultVariant,
		TimeoutSeconds:  defaultTimeoutSeconds,
		MaxAttachmentMB: defaultMaxAttachmentMB,
		School:          DefaultSchool(),
	}
}

// fillDefaults sets every zero field to its default
func (s *Settings) fillDefaults() {
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	if s.Variant == "" {
		s.Variant = defaultVariant
	}
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = defaultTimeoutSeconds
	}
	if s.MaxAttachmentMB <= 0 {
		s.MaxAttachmentMB = defaultMaxAttachmentMB
	}
	if s.School == nil {
		s.School = DefaultSchool()
	}
}

// Timeout returns the submission timeout
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// MaxAttachmentBytes returns the per-attachment size limit in bytes
func (s *Settings) MaxAttachmentBytes() int64 {
	return int64(s.MaxAttachmentMB) << 20
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", s.TimeoutSeconds)
	}
	if s.MaxAttachmentMB < 0 {
		return fmt.Errorf("max_attachment_mb must not be negative, got %d", s.MaxAttachmentMB)
	}
	return nil
}
