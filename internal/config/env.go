package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// overrides holds the raw environment values layered over the file
type overrides struct {
	Endpoint        string        `env:"ADMITFORM_ENDPOINT"`
	Variant         string        `env:"ADMITFORM_VARIANT"`
	Timeout         time.Duration `env:"ADMITFORM_TIMEOUT"`
	MaxAttachmentMB int           `env:"ADMITFORM_MAX_ATTACHMENT_MB"`
}

// ApplyEnv overrides s with any ADMITFORM_* variables that are set
func (s *Settings) ApplyEnv() error {
	var raw overrides
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if raw.Endpoint != "" {
		s.Endpoint = raw.Endpoint
	}
	if raw.Variant != "" {
		s.Variant = raw.Variant
	}
	if raw.Timeout > 0 {
		s.TimeoutSeconds = int((raw.Timeout + time.Second - 1) / time.Second)
	}
	if raw.MaxAttachmentMB > 0 {
		s.MaxAttachmentMB = raw.MaxAttachmentMB
	}
	return nil
}
