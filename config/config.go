// Package config persists control.Configuration on disk as INI, wiring
// gopkg.in/ini.v1 — a dependency the teacher's sibling repo declared but
// never imported, hand-rolling its own INI reader instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/pevers/coldbox/control"
)

const section = "control"

// Load reads cfg from path. A missing file is not an error: it returns
// control.DefaultConfiguration(), matching the specification's "default
// values if absent" lifecycle rule. A key whose value does not parse
// takes its default value. A file that ini cannot parse returns the
// parse error, and a file whose values fail validation returns an error
// wrapping control.ErrConfigurationRejected; callers are expected to log
// either and fall back to defaults themselves, per the ambient error
// policy, rather than have Load silently swallow it.
func Load(path string) (control.Configuration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return control.DefaultConfiguration(), nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return control.Configuration{}, fmt.Errorf("config: failed to load %s: %w", path, err)
	}

	sec := f.Section(section)
	cfg := control.Configuration{
		OperationMode: control.OperationMode(sec.Key("operation_mode").MustString(string(control.Cooling))),
		TargetTemp:    sec.Key("target_temp").MustFloat64(control.DefaultConfiguration().TargetTemp),
		P:             sec.Key("p").MustFloat64(control.DefaultConfiguration().P),
		I:             sec.Key("i").MustFloat64(control.DefaultConfiguration().I),
		D:             sec.Key("d").MustFloat64(control.DefaultConfiguration().D),
	}

	if err := control.ValidateConfiguration(cfg); err != nil {
		return control.Configuration{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path atomically: a temp file in the same directory,
// fsync'd and renamed over the destination, so a crash mid-write never
// leaves a truncated configuration file behind.
func Save(path string, cfg control.Configuration) error {
	f := ini.Empty()
	sec, err := f.NewSection(section)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	sec.Key("operation_mode").SetValue(string(cfg.OperationMode))
	sec.Key("target_temp").SetValue(fmt.Sprintf("%g", cfg.TargetTemp))
	sec.Key("p").SetValue(fmt.Sprintf("%g", cfg.P))
	sec.Key("i").SetValue(fmt.Sprintf("%g", cfg.I))
	sec.Key("d").SetValue(fmt.Sprintf("%g", cfg.D))

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".coldbox-config-*.tmp")
	if err != nil {
		return fmt.Errorf("config: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("config: failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("config: failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("config: failed to rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// Store bundles a path with Load/Save, used by httpapi to persist a
// successful reconfiguration without holding a path string itself.
type Store struct {
	Path string
}

func (s *Store) Load() (control.Configuration, error) {
	return Load(s.Path)
}

func (s *Store) Save(cfg control.Configuration) error {
	return Save(s.Path, cfg)
}
