package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/outwriter"
	"github.com/huangsam/mri/schema"
)

// ExecuteHistory prints the assessment timeline of the configured organization and site.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.OrgID == "" || cfg.SiteID == "" {
		return errors.New("history requires --org and --site")
	}
	result, err := GetHistoryResult(ctx, mgr, cfg.OrgID, cfg.SiteID, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHistory(result, cfg)
}

// GetHistoryResult builds the chronological timeline of one site. Deltas are
// computed over the full history, then the newest limit points are kept.
// A limit of zero or less keeps every point.
func GetHistoryResult(ctx context.Context, mgr contract.StoreManager, orgID, siteID string, limit int) (schema.HistoryResult, error) {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return schema.HistoryResult{}, contract.ErrStoreDisabled
	}

	records, err := store.ListAssessments(ctx, orgID, siteID, 0)
	if err != nil {
		return schema.HistoryResult{}, fmt.Errorf("failed to list assessments for %s/%s: %w", orgID, siteID, err)
	}

	result, err := algo.BuildTimeline(ctx, orgID, siteID, records)
	if err != nil {
		return schema.HistoryResult{}, err
	}
	if limit > 0 && len(result.Points) > limit {
		result.Points = result.Points[len(result.Points)-limit:]
	}
	return result, nil
}
