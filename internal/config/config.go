// Package config loads advancement settings from defaults, an optional
// YAML file, and ADVANCER_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/advancer/internal/marks"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ADVANCER_"

// DefaultJournalFolder is the folder that holds per-character logs.
const DefaultJournalFolder = "Advancement History"

// RollMode selects how step 3 resolves rolls.
type RollMode string

const (
	RollBatch      RollMode = "batch"
	RollIndividual RollMode = "individual"
)

// ParseRollMode accepts "batch", "individual", and the legacy "bulk".
func ParseRollMode(s string) (RollMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "batch", "bulk", "":
		return RollBatch, nil
	case "individual":
		return RollIndividual, nil
	}
	return "", fmt.Errorf("unknown roll mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RollMode) UnmarshalText(b []byte) error {
	parsed, err := ParseRollMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Settings holds every operator-facing option.
type Settings struct {
	Enabled          bool `yaml:"enabled" env:"ENABLED"`
	ShowSkillButtons bool `yaml:"show_skill_buttons" env:"SHOW_SKILL_BUTTONS"`
	TrackHistory     bool `yaml:"track_history" env:"TRACK_HISTORY"`
	WeaknessRule     bool `yaml:"weakness_rule" env:"WEAKNESS_RULE"`

	HideParticipated bool `yaml:"hide_participated" env:"HIDE_PARTICIPATED"`
	HideExplored     bool `yaml:"hide_explored" env:"HIDE_EXPLORED"`
	HideDefeated     bool `yaml:"hide_defeated" env:"HIDE_DEFEATED"`
	HideOvercame     bool `yaml:"hide_overcame" env:"HIDE_OVERCAME"`

	// CustomQuestions is semicolon-delimited.
	CustomQuestions string `yaml:"custom_questions" env:"CUSTOM_QUESTIONS"`

	RollMode RollMode `yaml:"roll_mode" env:"ROLL_MODE"`
	Debug    bool     `yaml:"debug" env:"DEBUG"`
	Language string   `yaml:"language" env:"LANGUAGE"`

	JournalFolder string `yaml:"journal_folder" env:"JOURNAL_FOLDER"`

	// Participant names this process on the bus. Authority marks it as
	// the sole writer of the shared journal.
	Participant string `yaml:"participant" env:"PARTICIPANT"`
	Authority   bool   `yaml:"authority" env:"AUTHORITY"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Enabled:          true,
		ShowSkillButtons: true,
		TrackHistory:     true,
		WeaknessRule:     false,
		RollMode:         RollBatch,
		Language:         "en-US",
		JournalFolder:    DefaultJournalFolder,
		Participant:      "gm",
		Authority:        true,
	}
}

// Load builds settings from defaults, the YAML file at path, and the
// environment. A missing file is only an error when required is set.
func Load(path string, required bool) (Settings, error) {
	s := Default()
	if path != "" {
		if err := s.mergeFile(path, required); err != nil {
			return Settings{}, err
		}
	}
	if err := s.ApplyEnv(); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays ADVANCER_* variables. Unset variables keep the
// current value.
func (s *Settings) ApplyEnv() error {
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings for values the workflow cannot use.
func (s Settings) Validate() error {
	if _, err := ParseRollMode(string(s.RollMode)); err != nil {
		return err
	}
	if strings.TrimSpace(s.JournalFolder) == "" {
		return fmt.Errorf("journal folder name is required")
	}
	if strings.TrimSpace(s.Participant) == "" {
		return fmt.Errorf("participant id is required")
	}
	return nil
}

// CustomQuestionList returns the configured custom question labels.
func (s Settings) CustomQuestionList() []string {
	return marks.ParseCustomQuestions(s.CustomQuestions)
}

// Marks returns the question-step configuration.
func (s Settings) Marks() marks.Config {
	return marks.Config{
		Hidden: map[marks.Question]bool{
			marks.Participated: s.HideParticipated,
			marks.Explored:     s.HideExplored,
			marks.Defeated:     s.HideDefeated,
			marks.Overcame:     s.HideOvercame,
		},
		WeaknessRule:    s.WeaknessRule,
		CustomQuestions: s.CustomQuestionList(),
	}
}

// DefaultPath resolves the config file path in priority order:
// 1. ADVANCER_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/advancer/config.yaml
// 3. ~/.config/advancer/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "advancer", "config.yaml"), nil
}
