package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// settingsFileName is the optional per-user settings file, looked up in
// the home directory.
const settingsFileName = ".scoutstrap.yaml"

// Settings are the effective run parameters. Every field has a default;
// the settings file only overrides what it names, which is how the tool
// is pointed at release mirrors or non-standard Docker config locations.
type Settings struct {
	ReleaseBaseURL string `yaml:"releaseBaseURL"`
	InstallDir     string `yaml:"installDir"`
	DockerConfig   string `yaml:"dockerConfig"`
	AutoConfirm    bool   `yaml:"autoConfirm"`
}

// DefaultSettings returns the standard layout under the user's home:
// the plugin goes to ~/.docker/scout and registers in ~/.docker/config.json.
func DefaultSettings() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("getting home directory: %w", err)
	}
	return Settings{
		ReleaseBaseURL: DefaultReleaseBase,
		InstallDir:     filepath.Join(home, ".docker", "scout"),
		DockerConfig:   filepath.Join(home, ".docker", "config.json"),
	}, nil
}

// LoadSettings reads the settings file at path, or the default
// ~/.scoutstrap.yaml when path is empty. A missing file yields plain
// defaults.
func LoadSettings(path string) (Settings, error) {
	defaults, err := DefaultSettings()
	if err != nil {
		return Settings{}, err
	}

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, settingsFileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Settings{}, fmt.Errorf("settings file %s does not exist", path)
		}
		return defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}

	var overrides Settings
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	merged := defaults
	if overrides.ReleaseBaseURL != "" {
		merged.ReleaseBaseURL = overrides.ReleaseBaseURL
	}
	if overrides.InstallDir != "" {
		merged.InstallDir = overrides.InstallDir
	}
	if overrides.DockerConfig != "" {
		merged.DockerConfig = overrides.DockerConfig
	}
	merged.AutoConfirm = merged.AutoConfirm || overrides.AutoConfirm
	return merged, nil
}

// ExePath returns where the installed plugin executable lives (or would
// live) for this platform.
func (s Settings) ExePath(platform Platform) string {
	return filepath.Join(s.InstallDir, platform.ExeName())
}
