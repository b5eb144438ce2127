package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"simlaunch/internal/launcher"
	"simlaunch/internal/launchspec"
	"simlaunch/internal/logging"
)

const (
	EnvConfig   = "SIMLAUNCH_CONFIG"
	EnvState    = "SIMLAUNCH_STATE"
	EnvLogLevel = "SIMLAUNCH_LOG_LEVEL"
	EnvTTY      = "SIMLAUNCH_TTY"
)

var ErrInvalid = errors.New("invalid configuration")

type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

type Settings struct {
	ConfigPath string
	StatePath  string
	LogLevel   logging.Level
	TTY        bool
	Delays     launcher.Delays
	Catalog    launchspec.Catalog
	Sources    map[string]Source
}

// Flags carries command-line values; Set marks the ones given explicitly.
type Flags struct {
	ConfigPath string
	StatePath  string
	LogLevel   string
	TTY        bool
	Set        map[string]bool
}

type fileDelays struct {
	AfterSimulator *time.Duration `yaml:"after_simulator"`
	AfterPlanner   *time.Duration `yaml:"after_planner"`
	BeforeStop     *time.Duration `yaml:"before_stop"`
	StopGrace      *time.Duration `yaml:"stop_grace"`
}

type fileConfig struct {
	LogLevel  *string    `yaml:"log_level"`
	StateFile *string    `yaml:"state_file"`
	TTY       *bool      `yaml:"tty"`
	Delays    fileDelays `yaml:"delays"`

	launchspec.Overrides `yaml:",inline"`
}

func DefaultStatePath() string {
	return filepath.Join(os.TempDir(), "simlaunch", "run.yaml")
}

// Load resolves settings from defaults, the YAML file, the environment and
// flags, later sources winning.
func Load(flags Flags, getenv func(string) string) (Settings, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	settings := Settings{
		StatePath: DefaultStatePath(),
		LogLevel:  logging.LevelInfo,
		Delays:    launcher.DefaultDelays(),
		Catalog:   launchspec.DefaultCatalog(),
		Sources:   make(map[string]Source),
	}
	for _, key := range []string{"config", "state", "log-level", "tty", "delays", "robots"} {
		settings.Sources[key] = SourceDefault
	}

	if raw := strings.TrimSpace(getenv(EnvConfig)); raw != "" {
		settings.ConfigPath = raw
		settings.Sources["config"] = SourceEnv
	}
	if flags.Set["config"] {
		settings.ConfigPath = strings.TrimSpace(flags.ConfigPath)
		settings.Sources["config"] = SourceFlag
	}

	if settings.ConfigPath != "" {
		file, err := readFile(settings.ConfigPath)
		if err != nil {
			return Settings{}, err
		}
		if err := settings.applyFile(file); err != nil {
			return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalid, settings.ConfigPath, err)
		}
	}

	if err := settings.applyEnv(getenv); err != nil {
		return Settings{}, err
	}
	if err := settings.applyFlags(flags); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func readFile(path string) (fileConfig, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return fileConfig{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return file, nil
}

func (s *Settings) applyFile(file fileConfig) error {
	if file.LogLevel != nil {
		level, ok := logging.ParseLevel(*file.LogLevel)
		if !ok {
			return fmt.Errorf("log_level %q", *file.LogLevel)
		}
		s.LogLevel = level
		s.Sources["log-level"] = SourceFile
	}
	if file.StateFile != nil && strings.TrimSpace(*file.StateFile) != "" {
		s.StatePath = strings.TrimSpace(*file.StateFile)
		s.Sources["state"] = SourceFile
	}
	if file.TTY != nil {
		s.TTY = *file.TTY
		s.Sources["tty"] = SourceFile
	}

	delays := s.Delays
	for _, field := range []struct {
		name   string
		value  *time.Duration
		target *time.Duration
	}{
		{"after_simulator", file.Delays.AfterSimulator, &delays.AfterSimulator},
		{"after_planner", file.Delays.AfterPlanner, &delays.AfterPlanner},
		{"before_stop", file.Delays.BeforeStop, &delays.BeforeStop},
		{"stop_grace", file.Delays.StopGrace, &delays.StopGrace},
	} {
		if field.value == nil {
			continue
		}
		if *field.value < 0 {
			return fmt.Errorf("delays.%s must not be negative", field.name)
		}
		*field.target = *field.value
		s.Sources["delays"] = SourceFile
	}
	s.Delays = delays

	if !file.Overrides.Empty() {
		catalog, err := s.Catalog.Apply(file.Overrides)
		if err != nil {
			return err
		}
		s.Catalog = catalog
		s.Sources["robots"] = SourceFile
	}
	return nil
}

func (s *Settings) applyEnv(getenv func(string) string) error {
	if raw := strings.TrimSpace(getenv(EnvState)); raw != "" {
		s.StatePath = raw
		s.Sources["state"] = SourceEnv
	}
	if raw := strings.TrimSpace(getenv(EnvLogLevel)); raw != "" {
		level, ok := logging.ParseLevel(raw)
		if !ok {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvLogLevel, raw)
		}
		s.LogLevel = level
		s.Sources["log-level"] = SourceEnv
	}
	if raw := strings.TrimSpace(getenv(EnvTTY)); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvTTY, raw)
		}
		s.TTY = parsed
		s.Sources["tty"] = SourceEnv
	}
	return nil
}

func (s *Settings) applyFlags(flags Flags) error {
	if flags.Set["state"] {
		trimmed := strings.TrimSpace(flags.StatePath)
		if trimmed == "" {
			return fmt.Errorf("%w: --state cannot be empty", ErrInvalid)
		}
		s.StatePath = trimmed
		s.Sources["state"] = SourceFlag
	}
	if flags.Set["log-level"] {
		level, ok := logging.ParseLevel(flags.LogLevel)
		if !ok {
			return fmt.Errorf("%w: --log-level %q", ErrInvalid, flags.LogLevel)
		}
		s.LogLevel = level
		s.Sources["log-level"] = SourceFlag
	}
	if flags.Set["tty"] {
		s.TTY = flags.TTY
		s.Sources["tty"] = SourceFlag
	}
	return nil
}
