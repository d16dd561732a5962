package contract

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultPrecision   = 2
	DefaultThreshold   = 60.0
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ThresholdsRawInput holds check threshold definitions from the YAML config file.
type ThresholdsRawInput struct {
	Overall *float64 `mapstructure:"overall"`
	Role    *float64 `mapstructure:"role"`
	Driver  *float64 `mapstructure:"driver"`
}

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	AssessmentPath string // positional argument of score, assess and check

	OrgID       string
	SiteID      string
	ResultLimit int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Drivers is the validated driver set every calculation receives.
	Drivers algo.DriverSet

	// Thresholds is a mapping of [CheckScope] = maximum allowed percentage
	Thresholds schema.Thresholds

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	AssessmentPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from historyCmd.Flags() ---
	Org   string `mapstructure:"org"`
	Site  string `mapstructure:"site"`
	Limit int    `mapstructure:"limit"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdsStr string `mapstructure:"thresholds-override"`

	// --- Custom driver set from config file ---
	Drivers []schema.DriverDefinition `mapstructure:"drivers"`

	// --- Check thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
// The driver set is immutable and shared.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Thresholds != nil {
		clone.Thresholds = make(schema.Thresholds, len(c.Thresholds))
		maps.Copy(clone.Thresholds, c.Thresholds)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processDriverSet(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation and scope fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.AssessmentPath = strings.TrimSpace(input.AssessmentPathStr)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.OrgID = strings.TrimSpace(input.Org)
	cfg.SiteID = strings.TrimSpace(input.Site)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	return nil
}

// validateBackendConfig validates the snapshot store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processDriverSet builds the driver set once. A config file that lists
// drivers replaces the default catalog entirely.
func processDriverSet(cfg *Config, input *ConfigRawInput) error {
	if len(input.Drivers) == 0 {
		cfg.Drivers = algo.DefaultDriverSet()
		return nil
	}
	set, err := algo.NewDriverSet(input.Drivers)
	if err != nil {
		return fmt.Errorf("invalid drivers in config: %w", err)
	}
	cfg.Drivers = set
	return nil
}

// processThresholds converts the raw threshold input into cfg.Thresholds.
// Every scope defaults to DefaultThreshold. The --thresholds-override flag
// takes precedence over config file settings.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.Thresholds{
		schema.OverallScope: DefaultThreshold,
		schema.RoleScope:    DefaultThreshold,
		schema.DriverScope:  DefaultThreshold,
	}

	if input.Thresholds.Overall != nil {
		thresholds[schema.OverallScope] = *input.Thresholds.Overall
	}
	if input.Thresholds.Role != nil {
		thresholds[schema.RoleScope] = *input.Thresholds.Role
	}
	if input.Thresholds.Driver != nil {
		thresholds[schema.DriverScope] = *input.Thresholds.Driver
	}

	if input.ThresholdsStr != "" {
		parsed, err := parseThresholdsString(input.ThresholdsStr)
		if err != nil {
			return fmt.Errorf("invalid --thresholds-override format: %w", err)
		}
		maps.Copy(thresholds, parsed)
	}

	for scope, threshold := range thresholds {
		if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0.0 || threshold > 100.0 {
			return fmt.Errorf("threshold for %s must be between 0.0 and 100.0 (received %.2f)", scope, threshold)
		}
	}

	cfg.Thresholds = thresholds
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// parseThresholdsString parses a string like "overall:50,role:60,driver:70"
// into a map of CheckScope to float64.
func parseThresholdsString(s string) (schema.Thresholds, error) {
	thresholds := make(schema.Thresholds)

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, ":")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid threshold format '%s', expected 'scope:value'", part)
		}

		scope := schema.CheckScope(strings.ToLower(strings.TrimSpace(keyValue[0])))
		if _, ok := schema.ValidCheckScopes[scope]; !ok {
			return nil, fmt.Errorf("invalid scope '%s', must be overall, role, or driver", keyValue[0])
		}

		valueStr := strings.TrimSpace(keyValue[1])
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold value '%s' for %s: %w", valueStr, scope, err)
		}
		thresholds[scope] = value
	}

	return thresholds, nil
}
