package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"roomload/allocation"
	"roomload/internal/classify"
	"roomload/loads"
	"roomload/schedule"
)

const (
	KeySourceURL             = "source.url"
	KeySourceRefreshInterval = "source.refresh_interval"
	KeySourceSheet           = "source.sheet"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyLoadsExcluded         = "loads.excluded_instructors"
	KeyClassifyOJT           = "classify.ojt_keywords"
	KeyClassifyAppraisal     = "classify.appraisal_keywords"
	KeySlotsCanonical        = "slots.canonical"
	KeySlotsGroups           = "slots.groups"
	KeyServerPort            = "server.port"
)

type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Log      LogConfig      `mapstructure:"log"`
	Loads    LoadsConfig    `mapstructure:"loads"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Slots    SlotsConfig    `mapstructure:"slots"`
	Server   ServerConfig   `mapstructure:"server"`
}

type SourceConfig struct {
	URL             string        `mapstructure:"url" validate:"omitempty,url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"min=5s"`
	Sheet           string        `mapstructure:"sheet"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type LoadsConfig struct {
	ExcludedInstructors []string `mapstructure:"excluded_instructors"`
}

type ClassifyConfig struct {
	OJTKeywords       []string `mapstructure:"ojt_keywords"`
	AppraisalKeywords []string `mapstructure:"appraisal_keywords"`
}

type SlotsConfig struct {
	Canonical bool        `mapstructure:"canonical"`
	Groups    []SlotGroup `mapstructure:"groups" validate:"dive"`
}

// SlotGroup replaces the bucket pattern for the weekdays named by Days.
type SlotGroup struct {
	Name      string   `mapstructure:"name" validate:"required"`
	Days      string   `mapstructure:"days" validate:"required"`
	Slots     []string `mapstructure:"slots" validate:"min=1"`
	Highlight int      `mapstructure:"highlight" validate:"min=-1"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# roomload configuration
source:
  # Published CSV export of the schedule sheet, used by "serve" when no input is given.
  url: ""
  refresh_interval: 60s
  sheet: "DATABASE"

log:
  level: info
  format: json

loads:
  excluded_instructors: ["C/O CAS", "C/O NSTP", "C/O PE DEPARTMENT", "C/O PE DEPT", "C/O PE"]

classify:
  ojt_keywords: []
  appraisal_keywords: []

slots:
  canonical: true
  groups: []
  # - name: "saturday-long"
  #   days: "SAT"
  #   slots: ["7:00 AM-10:00 AM", "10:00 AM-1:00 PM", "1:00 PM-4:00 PM"]
  #   highlight: 1

server:
  port: 8080
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := cfg.SlotPatterns(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := cfg.Classifier(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeySourceURL, "")
	v.SetDefault(KeySourceRefreshInterval, time.Minute)
	v.SetDefault(KeySourceSheet, "DATABASE")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyLoadsExcluded, loads.DefaultExcludedInstructors)
	v.SetDefault(KeyClassifyOJT, []string{})
	v.SetDefault(KeyClassifyAppraisal, []string{})
	v.SetDefault(KeySlotsCanonical, true)
	v.SetDefault(KeySlotsGroups, []map[string]any{})
	v.SetDefault(KeyServerPort, 8080)
}

// SlotPatterns resolves the bucket table: the canonical patterns (unless
// disabled) overridden per weekday by configured groups.
func (c Config) SlotPatterns() (allocation.Patterns, error) {
	patterns := allocation.Patterns{}
	if c.Slots.Canonical {
		patterns = allocation.DefaultPatterns()
	}

	claimed := make(map[time.Weekday]string)
	for i, group := range c.Slots.Groups {
		name := strings.TrimSpace(group.Name)
		days := schedule.ExpandDays(group.Days)
		if days.Empty() {
			return nil, fmt.Errorf("slots.groups[%d] (%s): days %q names no weekday", i, name, group.Days)
		}
		slots, err := allocation.PatternFromLabels(group.Slots, group.Highlight)
		if err != nil {
			return nil, fmt.Errorf("slots.groups[%d] (%s): %w", i, name, err)
		}
		for _, day := range days.Days() {
			if other, ok := claimed[day]; ok {
				return nil, fmt.Errorf("slots.groups[%d] (%s): %s already defined by %q", i, name, day, other)
			}
			claimed[day] = name
			patterns[day] = slots
		}
	}
	return patterns, nil
}

func (c Config) Classifier() (*classify.Classifier, error) {
	return classify.New(c.Classify.OJTKeywords, c.Classify.AppraisalKeywords)
}

func (c Config) LoadOptions() loads.Options {
	return loads.Options{ExcludedInstructors: c.Loads.ExcludedInstructors}
}
