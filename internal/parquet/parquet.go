// Package parquet provides data structures and functions for exporting
// assessment snapshot history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/schema"
	"github.com/parquet-go/parquet-go"
)

// Assessment is one persisted assessment with its overall score and delta.
// This struct maps to the mri_assessments database table.
type Assessment struct {
	// AssessmentID is the unique identifier of the assessment
	AssessmentID string `parquet:"assessment_id,snappy"`

	// Seq is the insertion order, used to break same-day ties
	Seq int64 `parquet:"seq,snappy"`

	OrgID  string `parquet:"org_id,snappy"`
	SiteID string `parquet:"site_id,snappy"`

	// AssessmentDate is the audit day as YYYY-MM-DD
	AssessmentDate string `parquet:"assessment_date,snappy"`

	// OverallScore is the MRI percentage (nullable)
	OverallScore *float64 `parquet:"overall_score,optional,snappy"`

	// TopDriver is the driver with the highest percentage (nullable)
	TopDriver *string `parquet:"top_driver,optional,snappy"`

	// BaselineID and DeltaPoints are null for the first assessment of a site
	BaselineID  *string  `parquet:"baseline_id,optional,snappy"`
	DeltaPoints *float64 `parquet:"delta_points,optional,snappy"`

	// CreatedAt is when the snapshot was persisted (stored as TIMESTAMP)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// RoleScore is the score of one role within an assessment.
// This struct maps to the mri_role_scores database table.
type RoleScore struct {
	AssessmentID string  `parquet:"assessment_id,snappy"`
	RoleID       string  `parquet:"role_id,snappy"`
	Position     int32   `parquet:"position,snappy"`
	RawScore     float64 `parquet:"raw_score,snappy"`
	Percentage   float64 `parquet:"percentage,snappy"`
}

// DriverScore is the score of one driver within an assessment.
// This struct maps to the mri_driver_scores database table.
type DriverScore struct {
	AssessmentID string  `parquet:"assessment_id,snappy"`
	DriverKey    string  `parquet:"driver_key,snappy"`
	Position     int32   `parquet:"position,snappy"`
	MeanScore    float64 `parquet:"mean_score,snappy"`
	Percentage   float64 `parquet:"percentage,snappy"`
}

// writeRows writes rows of any parquet-tagged struct to a new file.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteAssessmentsParquet writes assessments to a Parquet file.
func WriteAssessmentsParquet(data []Assessment, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRoleScoresParquet writes role scores to a Parquet file.
func WriteRoleScoresParquet(data []RoleScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDriverScoresParquet writes driver scores to a Parquet file.
func WriteDriverScoresParquet(data []DriverScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAssessmentRecords converts schema.AssessmentRecord to Assessment for Parquet export.
func ConvertAssessmentRecords(records []schema.AssessmentRecord) []Assessment {
	result := make([]Assessment, len(records))
	for i, record := range records {
		result[i] = Assessment{
			AssessmentID:   record.AssessmentID,
			Seq:            record.Seq,
			OrgID:          record.OrgID,
			SiteID:         record.SiteID,
			AssessmentDate: algo.FormatDate(record.Date),
			OverallScore:   record.Overall,
			TopDriver:      record.TopDriver,
			BaselineID:     record.BaselineID,
			DeltaPoints:    record.DeltaPoints,
			CreatedAt:      record.CreatedAt,
		}
	}
	return result
}

// ConvertRoleScoreRecords converts schema.RoleScoreRecord to RoleScore for Parquet export.
func ConvertRoleScoreRecords(records []schema.RoleScoreRecord) []RoleScore {
	result := make([]RoleScore, len(records))
	for i, record := range records {
		result[i] = RoleScore{
			AssessmentID: record.AssessmentID,
			RoleID:       record.RoleID,
			Position:     record.Position,
			RawScore:     record.Raw,
			Percentage:   record.Percentage,
		}
	}
	return result
}

// ConvertDriverScoreRecords converts schema.DriverScoreRecord to DriverScore for Parquet export.
func ConvertDriverScoreRecords(records []schema.DriverScoreRecord) []DriverScore {
	result := make([]DriverScore, len(records))
	for i, record := range records {
		result[i] = DriverScore{
			AssessmentID: record.AssessmentID,
			DriverKey:    record.Driver,
			Position:     record.Position,
			MeanScore:    record.Mean,
			Percentage:   record.Percentage,
		}
	}
	return result
}
