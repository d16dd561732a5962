// Package schema has the models, enums and reference data for all parts of mri.
package schema

import "time"

// Observation is one manually entered ordinal exposure score for a role and driver.
type Observation struct {
	RoleID string    `json:"role_id"`
	Driver DriverKey `json:"driver"`
	Score  int       `json:"score"` // ordinal in [MinOrdinal, MaxOrdinal]
}

// Assessment is a single audit of one site of one organization on a given date.
// Dates are not unique per organization and site.
type Assessment struct {
	AssessmentID string        `json:"assessment_id"`
	OrgID        string        `json:"organization_id"`
	SiteID       string        `json:"site_id"`
	Date         time.Time     `json:"assessment_date"`
	Observations []Observation `json:"observations"`
}

// RoleScore is the weighted score of a single job role.
type RoleScore struct {
	RoleID     string  `json:"role_id"`
	Raw        float64 `json:"raw_score"`  // 0-1, unrounded
	Percentage float64 `json:"percentage"` // 0-100, one decimal
}

// DriverScore is the cross-role score of a single driver.
type DriverScore struct {
	Driver     DriverKey `json:"driver"`
	Name       string    `json:"name"`
	Mean       float64   `json:"mean_score"` // 0-4, unrounded
	Percentage float64   `json:"percentage"` // 0-100, one decimal
}

// Snapshot is the aggregate result for a set of observations.
type Snapshot struct {
	Overall   float64       `json:"overall"`
	Roles     []RoleScore   `json:"roles"`
	Drivers   []DriverScore `json:"drivers"`
	TopDriver *DriverKey    `json:"top_driver"`
}

// Delta is the change of an overall score against the most recent earlier
// assessment of the same organization and site. Both fields are nil when no
// baseline exists.
type Delta struct {
	BaselineAssessmentID *string  `json:"baseline_assessment_id"`
	DeltaPoints          *float64 `json:"delta_points"`
}

// HasBaseline reports whether the delta was computed against a prior assessment.
func (d Delta) HasBaseline() bool {
	return d.BaselineAssessmentID != nil
}

// BaselineRecord is what a history lookup hands back for a prior assessment.
// Overall is nil when the prior snapshot has no usable score.
type BaselineRecord struct {
	AssessmentID string
	OrgID        string
	SiteID       string
	Date         time.Time
	Overall      *float64
}

// AssessmentReport is the full result of scoring one assessment.
type AssessmentReport struct {
	AssessmentID string    `json:"assessment_id"`
	OrgID        string    `json:"organization_id"`
	SiteID       string    `json:"site_id"`
	Date         string    `json:"assessment_date"`
	Label        string    `json:"label"`
	Snapshot     Snapshot  `json:"snapshot"`
	Delta        *Delta    `json:"delta,omitempty"`
	Persisted    bool      `json:"persisted"`
	ScoredAt     time.Time `json:"scored_at"`
}
