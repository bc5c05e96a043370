// Package config loads process settings from forge.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file searched for from the working directory
// upward.
const FileName = "forge.yaml"

// defaults.
const (
	DefaultToolsVersion = "Current"
	DefaultIdleTimeout  = 60 * time.Second
)

// Settings are the resolved process settings. Every field has a default;
// a missing forge.yaml is not an error.
type Settings struct {
	NodeReuse           bool
	StayWarm            bool
	FreeMemory          bool
	IdleTimeout         time.Duration
	CacheDir            string
	LogJSON             bool
	DefaultToolsVersion string
}

// Loader reads forge.yaml files.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves settings for cwd. The file is searched upward to the
// filesystem root; without one, defaults apply.
func (l *Loader) Load(cwd string) (*Settings, error) {
	settings := defaultSettings()

	path, found := findSettingsFile(cwd)
	if !found {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, "unable to read settings file")
	}

	var file Forgefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "unable to parse settings file")
	}

	if err := applyFile(settings, &file); err != nil {
		return nil, err
	}
	return settings, nil
}

func defaultSettings() *Settings {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return &Settings{
		NodeReuse:           true,
		StayWarm:            false,
		FreeMemory:          true,
		IdleTimeout:         DefaultIdleTimeout,
		CacheDir:            filepath.Join(cacheDir, "forge"),
		LogJSON:             false,
		DefaultToolsVersion: DefaultToolsVersion,
	}
}

func findSettingsFile(cwd string) (string, bool) {
	dir := cwd
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", false
		}
		dir = parent
	}
}

func applyFile(settings *Settings, file *Forgefile) error {
	if file.DefaultToolsVersion != "" {
		settings.DefaultToolsVersion = file.DefaultToolsVersion
	}

	if node := file.Node; node != nil {
		if node.Reuse != nil {
			settings.NodeReuse = *node.Reuse
		}
		if node.StayWarm != nil {
			settings.StayWarm = *node.StayWarm
		}
		if node.FreeMemory != nil {
			settings.FreeMemory = *node.FreeMemory
		}
		if node.IdleTimeout != "" {
			d, err := time.ParseDuration(node.IdleTimeout)
			if err != nil {
				return zerr.Wrap(err, "invalid idleTimeout")
			}
			settings.IdleTimeout = d
		}
	}

	if cache := file.Cache; cache != nil && cache.Dir != "" {
		settings.CacheDir = cache.Dir
	}

	if log := file.Log; log != nil && log.JSON != nil {
		settings.LogJSON = *log.JSON
	}

	return nil
}
