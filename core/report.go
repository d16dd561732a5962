package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

// BuildReport aggregates an assessment with the configured driver set.
// The report carries no delta.
func BuildReport(cfg *contract.Config, assessment schema.Assessment) (schema.AssessmentReport, error) {
	snap, err := algo.Aggregate(assessment.Observations, cfg.Drivers)
	if err != nil {
		return schema.AssessmentReport{}, fmt.Errorf("failed to score assessment %s: %w", assessment.AssessmentID, err)
	}
	return schema.AssessmentReport{
		AssessmentID: assessment.AssessmentID,
		OrgID:        assessment.OrgID,
		SiteID:       assessment.SiteID,
		Date:         algo.FormatDate(assessment.Date),
		Label:        schema.GetPlainLabel(snap.Overall),
		Snapshot:     snap,
		ScoredAt:     time.Now().UTC(),
	}, nil
}

// AssessAssessment scores an assessment, computes its delta against the
// previous assessment of the same organization and site, and saves the
// snapshot. Nothing is saved when the context is read-only.
func AssessAssessment(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, assessment schema.Assessment) (schema.AssessmentReport, error) {
	report, err := BuildReport(cfg, assessment)
	if err != nil {
		return report, err
	}

	store := mgr.GetSnapshotStore()
	if store == nil {
		return report, contract.ErrStoreDisabled
	}

	delta, err := algo.ComputeDelta(ctx, assessment.OrgID, assessment.SiteID, assessment.Date, report.Snapshot.Overall, store)
	var missing *algo.MissingBaselineScoreError
	switch {
	case errors.As(err, &missing):
		// The baseline exists but cannot be compared against
		contract.LogWarn(fmt.Sprintf("Baseline %s has no overall score", missing.BaselineAssessmentID), err)
		delta = schema.Delta{BaselineAssessmentID: &missing.BaselineAssessmentID}
	case err != nil:
		return report, fmt.Errorf("failed to compare assessment %s: %w", assessment.AssessmentID, err)
	}
	report.Delta = &delta

	if isReadOnly(ctx) {
		return report, nil
	}
	if err := store.SaveAssessment(ctx, report); err != nil {
		return report, fmt.Errorf("failed to save assessment %s: %w", assessment.AssessmentID, err)
	}
	report.Persisted = cfg.StoreBackend != schema.NoneBackend
	return report, nil
}

// CompareAssessment is AssessAssessment without saving the snapshot.
func CompareAssessment(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, assessment schema.Assessment) (schema.AssessmentReport, error) {
	return AssessAssessment(withReadOnly(ctx), cfg, mgr, assessment)
}
