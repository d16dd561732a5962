package schema

import "time"

// StoreStatus represents the status of the snapshot store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalAssessments int              `json:"total_assessments"`
	TotalSites       int              `json:"total_sites"`
	LastAssessmentID string           `json:"last_assessment_id"`
	LastCreatedAt    time.Time        `json:"last_created_at"`
	OldestDate       string           `json:"oldest_assessment_date"`
	NewestDate       string           `json:"newest_assessment_date"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
