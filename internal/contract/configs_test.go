package contract

import (
	"math"
	"testing"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        DefaultResultLimit,
		Precision:    DefaultPrecision,
		Output:       "text",
		StoreBackend: "sqlite",
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "json output uppercase", mutate: func(in *ConfigRawInput) { in.Output = "JSON" }},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "zero limit", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too high", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "precision three", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "bad emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "maybe" }, expectError: true},
		{name: "bad backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{name: "postgres with dsn", mutate: func(in *ConfigRawInput) {
			in.StoreBackend = "postgresql"
			in.StoreDBConnect = "host=localhost user=mri dbname=mri"
		}},
		{name: "none backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "none" }},
		{name: "bad drivers", mutate: func(in *ConfigRawInput) {
			in.Drivers = []schema.DriverDefinition{{Key: "a", Weight: 0.3}}
		}, expectError: true},
		{name: "threshold out of range", mutate: func(in *ConfigRawInput) {
			v := 120.0
			in.Thresholds.Role = &v
		}, expectError: true},
		{name: "nan override", mutate: func(in *ConfigRawInput) { in.ThresholdsStr = "overall:NaN" }, expectError: true},
		{name: "inf override", mutate: func(in *ConfigRawInput) { in.ThresholdsStr = "driver:Inf" }, expectError: true},
		{name: "nan from config file", mutate: func(in *ConfigRawInput) {
			v := math.NaN()
			in.Thresholds.Overall = &v
		}, expectError: true},
		{name: "bad override", mutate: func(in *ConfigRawInput) { in.ThresholdsStr = "hot:50" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.AssessmentPathStr = "  audit.yaml "
	input.Org = " acme "
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "audit.yaml", cfg.AssessmentPath)
	assert.Equal(t, "acme", cfg.OrgID)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, algo.DefaultDriverSet().Keys(), cfg.Drivers.Keys())
	assert.Equal(t, schema.Thresholds{
		schema.OverallScope: DefaultThreshold,
		schema.RoleScope:    DefaultThreshold,
		schema.DriverScope:  DefaultThreshold,
	}, cfg.Thresholds)
}

func TestProcessAndValidateCustomDrivers(t *testing.T) {
	input := validInput()
	input.Drivers = []schema.DriverDefinition{
		{Key: "lifting", Name: "Lifting", Weight: 0.6},
		{Key: "posture", Weight: 0.4},
	}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, []schema.DriverKey{"lifting", "posture"}, cfg.Drivers.Keys())

	input.Drivers[1].Weight = 0.5
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorIs(t, err, algo.ErrInvalidWeights)
}

func TestProcessThresholdsPrecedence(t *testing.T) {
	input := validInput()
	overall, role := 45.0, 70.0
	input.Thresholds = ThresholdsRawInput{Overall: &overall, Role: &role}
	input.ThresholdsStr = "role:80, driver:90"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 45.0, cfg.Thresholds[schema.OverallScope])
	assert.Equal(t, 80.0, cfg.Thresholds[schema.RoleScope])
	assert.Equal(t, 90.0, cfg.Thresholds[schema.DriverScope])
}

func TestParseThresholdsString(t *testing.T) {
	got, err := parseThresholdsString("OVERALL:50,,driver: 72.5")
	require.NoError(t, err)
	assert.Equal(t, schema.Thresholds{schema.OverallScope: 50, schema.DriverScope: 72.5}, got)

	_, err = parseThresholdsString("overall=50")
	assert.Error(t, err)
	_, err = parseThresholdsString("role:high")
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Thresholds: schema.Thresholds{schema.OverallScope: 50}, Drivers: algo.DefaultDriverSet()}
	clone := cfg.Clone()
	clone.Thresholds[schema.OverallScope] = 10
	assert.Equal(t, 50.0, cfg.Thresholds[schema.OverallScope])
	assert.Equal(t, cfg.Drivers.Len(), clone.Drivers.Len())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)/mri"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost:3306"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)
	require.NoError(t, ProcessProfilingConfig(profile, "mri"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "mri", profile.Prefix)
}
