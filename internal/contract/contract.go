// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/schema"
)

// StoreManager defines the interface for managing the snapshot store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotStore() SnapshotStore
}

// SnapshotStore defines the interface for assessment snapshot history.
// It doubles as the history lookup handed to the comparator.
type SnapshotStore interface {
	algo.HistoryLookup

	// SaveAssessment persists a scored assessment, its breakdowns and its delta
	// in a single transaction. Snapshots are immutable, so saving an existing
	// assessment id fails with ErrAssessmentExists.
	SaveAssessment(ctx context.Context, report schema.AssessmentReport) error

	// GetAssessment returns one persisted assessment.
	GetAssessment(ctx context.Context, assessmentID string) (schema.AssessmentRecord, error)

	// ListAssessments returns the most recent assessments of an organization and
	// site, newest first. A limit of zero returns all of them.
	ListAssessments(ctx context.Context, orgID, siteID string, limit int) ([]schema.AssessmentRecord, error)

	// GetStatus returns status information about the snapshot store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// GetAllAssessments, GetAllRoleScores and GetAllDriverScores dump the tables for export.
	GetAllAssessments(ctx context.Context) ([]schema.AssessmentRecord, error)
	GetAllRoleScores(ctx context.Context) ([]schema.RoleScoreRecord, error)
	GetAllDriverScores(ctx context.Context) ([]schema.DriverScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
