package algo

import (
	"errors"
	"testing"

	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriverSet(t *testing.T) {
	tests := []struct {
		name    string
		defs    []schema.DriverDefinition
		wantErr bool
	}{
		{"default catalog", schema.DefaultDriverDefinitions(), false},
		{"empty", nil, false},
		{"single full weight", []schema.DriverDefinition{{Key: "a", Weight: 1}}, false},
		{"within tolerance", []schema.DriverDefinition{{Key: "a", Weight: 0.5}, {Key: "b", Weight: 0.5000005}}, false},
		{"sum too low", []schema.DriverDefinition{{Key: "a", Weight: 0.5}, {Key: "b", Weight: 0.4}}, true},
		{"sum too high", []schema.DriverDefinition{{Key: "a", Weight: 0.6}, {Key: "b", Weight: 0.41}}, true},
		{"zero weight", []schema.DriverDefinition{{Key: "a", Weight: 1}, {Key: "b", Weight: 0}}, true},
		{"negative weight", []schema.DriverDefinition{{Key: "a", Weight: 1.2}, {Key: "b", Weight: -0.2}}, true},
		{"weight above one", []schema.DriverDefinition{{Key: "a", Weight: 1.5}}, true},
		{"duplicate key", []schema.DriverDefinition{{Key: "a", Weight: 0.5}, {Key: "a", Weight: 0.5}}, true},
		{"empty key", []schema.DriverDefinition{{Key: "", Weight: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewDriverSet(tt.defs)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidWeights)
				var typed *DriverWeightsInvalidError
				assert.True(t, errors.As(err, &typed))
				assert.Equal(t, 0, set.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.defs), set.Len())
		})
	}
}

func TestDriverSetAccessors(t *testing.T) {
	set := DefaultDriverSet()

	assert.InDelta(t, 1.0, set.Sum(), schema.WeightTolerance)
	assert.Equal(t, []schema.DriverKey{
		schema.DriverSitting, schema.DriverMovement, schema.DriverUpperLimb,
		schema.DriverNeck, schema.DriverWorkOrg, schema.DriverWorkstation,
	}, set.Keys())

	def, ok := set.Lookup(schema.DriverNeck)
	require.True(t, ok)
	assert.Equal(t, 0.15, def.Weight)
	assert.Equal(t, 3, set.Position(schema.DriverNeck))

	_, ok = set.Lookup("knees")
	assert.False(t, ok)
	assert.Equal(t, -1, set.Position("knees"))

	// Definitions hands out a copy.
	defs := set.Definitions()
	defs[0].Weight = 0
	def, _ = set.Lookup(schema.DriverSitting)
	assert.Equal(t, 0.25, def.Weight)
}

func TestNewDriverSetDefaultsName(t *testing.T) {
	set, err := NewDriverSet([]schema.DriverDefinition{{Key: "posture", Weight: 1}})
	require.NoError(t, err)
	def, _ := set.Lookup("posture")
	assert.Equal(t, "posture", def.Name)
}

func TestNewDriverSetDoesNotAliasInput(t *testing.T) {
	defs := []schema.DriverDefinition{{Key: "a", Weight: 0.5}, {Key: "b", Weight: 0.5}}
	set, err := NewDriverSet(defs)
	require.NoError(t, err)
	defs[0].Weight = 0.9
	def, _ := set.Lookup("a")
	assert.Equal(t, 0.5, def.Weight)
}
