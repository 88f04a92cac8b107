package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "admitform"
	configFile = "config.yaml"
)

// fileMutex serializes writes of the settings file
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/admitform or $HOME/.config/admitform
//   - macOS: $HOME/.config/admitform
//   - Windows: %LOCALAPPDATA%\admitform
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the settings file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadFile reads settings from path. A missing file yields defaults.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	// Hand-written files often omit the version
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.fillDefaults()

	return &s, nil
}

// Load reads the settings file at path (the default location when path is
// empty) and applies environment overrides.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveFile writes s to path atomically with user-only permissions
func (s *Settings) SaveFile(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# admitform configuration
# endpoint is the spreadsheet intake script that receives submissions.
# Environment variables ADMITFORM_ENDPOINT, ADMITFORM_VARIANT,
# ADMITFORM_TIMEOUT and ADMITFORM_MAX_ATTACHMENT_MB override this file.

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// Save writes s to the default location
func (s *Settings) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return s.SaveFile(path)
}

// Marshal returns the YAML form of s, without the file header
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
