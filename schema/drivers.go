package schema

// DriverKey identifies a risk driver within a driver set.
type DriverKey string

// DriverDefinition is a named, weighted risk driver.
type DriverDefinition struct {
	Key    DriverKey `json:"key" mapstructure:"key" yaml:"key"`
	Name   string    `json:"name" mapstructure:"name" yaml:"name"`
	Weight float64   `json:"weight" mapstructure:"weight" yaml:"weight"`
}

// Driver keys of the default catalog.
const (
	DriverSitting     DriverKey = "sitting"
	DriverMovement    DriverKey = "movement"
	DriverUpperLimb   DriverKey = "upper_limb"
	DriverNeck        DriverKey = "neck"
	DriverWorkOrg     DriverKey = "work_org"
	DriverWorkstation DriverKey = "workstation"
)

// DefaultDriverDefinitions returns the default six-driver catalog in display order.
// The weights sum to 1.0.
func DefaultDriverDefinitions() []DriverDefinition {
	return []DriverDefinition{
		{Key: DriverSitting, Name: "Sitting", Weight: 0.25},
		{Key: DriverMovement, Name: "Movement", Weight: 0.20},
		{Key: DriverUpperLimb, Name: "UpperLimb", Weight: 0.15},
		{Key: DriverNeck, Name: "Neck", Weight: 0.15},
		{Key: DriverWorkOrg, Name: "WorkOrg", Weight: 0.15},
		{Key: DriverWorkstation, Name: "Workstation", Weight: 0.10},
	}
}
