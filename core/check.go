package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/outwriter"
	"github.com/huangsam/mri/schema"
)

// ErrCheckFailed is returned when at least one score exceeds its threshold.
var ErrCheckFailed = errors.New("threshold check failed")

// ExecuteCheck scores an assessment file and gates it against the configured
// thresholds. It returns an error wrapping ErrCheckFailed on any violation, so
// the caller can exit non-zero in CI.
func ExecuteCheck(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	assessment, err := loadAssessment(cfg)
	if err != nil {
		return err
	}
	result, err := CheckAssessment(cfg, assessment)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s) found", ErrCheckFailed, len(result.Violations))
	}
	return nil
}

// CheckAssessment scores an assessment and evaluates it against the configured thresholds.
func CheckAssessment(cfg *contract.Config, assessment schema.Assessment) (schema.CheckResult, error) {
	report, err := BuildReport(cfg, assessment)
	if err != nil {
		return schema.CheckResult{}, err
	}
	return algo.EvaluateThresholds(report.AssessmentID, report.Snapshot, cfg.Thresholds), nil
}
