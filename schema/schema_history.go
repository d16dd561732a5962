package schema

import "time"

// AssessmentRecord represents a row from the mri_assessments table.
type AssessmentRecord struct {
	AssessmentID string
	Seq          int64
	OrgID        string
	SiteID       string
	Date         time.Time
	Overall      *float64
	TopDriver    *string
	BaselineID   *string
	DeltaPoints  *float64
	CreatedAt    time.Time
}

// RoleScoreRecord represents a row from the mri_role_scores table.
type RoleScoreRecord struct {
	AssessmentID string
	RoleID       string
	Position     int32
	Raw          float64
	Percentage   float64
}

// DriverScoreRecord represents a row from the mri_driver_scores table.
type DriverScoreRecord struct {
	AssessmentID string
	Driver       string
	Position     int32
	Mean         float64
	Percentage   float64
}

// HistoryPoint is one entry of an organization/site timeline.
type HistoryPoint struct {
	AssessmentID string   `json:"assessment_id"`
	Date         string   `json:"assessment_date"`
	Overall      *float64 `json:"overall"`
	TopDriver    *string  `json:"top_driver"`
	Label        string   `json:"label"`
	Delta        Delta    `json:"delta"`
	Note         string   `json:"note,omitempty"`
}

// HistoryResult is the chronological timeline of one organization and site.
type HistoryResult struct {
	OrgID  string         `json:"organization_id"`
	SiteID string         `json:"site_id"`
	Points []HistoryPoint `json:"points"`
}
