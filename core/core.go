// Package core has the executors that wire the scoring engine, the snapshot
// store and the output writers together.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/mri/internal/assessfile"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/outwriter"
	"github.com/huangsam/mri/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ErrNoAssessmentPath is returned when a command needs an assessment file and none was given.
var ErrNoAssessmentPath = errors.New("an assessment file is required")

// ExecuteScore scores an assessment file without consulting or touching history.
func ExecuteScore(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	start := time.Now()
	assessment, err := loadAssessment(cfg)
	if err != nil {
		return err
	}
	report, err := BuildReport(cfg, assessment)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// ExecuteAssess scores an assessment file, compares it with the previous
// assessment of the same site and saves the snapshot.
func ExecuteAssess(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	assessment, err := loadAssessment(cfg)
	if err != nil {
		return err
	}
	report, err := AssessAssessment(ctx, cfg, mgr, assessment)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// ExecuteCompare is ExecuteAssess without saving the snapshot.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	assessment, err := loadAssessment(cfg)
	if err != nil {
		return err
	}
	report, err := CompareAssessment(ctx, cfg, mgr, assessment)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// ExecuteDrivers prints the active driver catalog.
func ExecuteDrivers(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteDrivers(GetDriverCatalog(cfg), cfg)
}

// GetDriverCatalog returns the driver definitions in scoring order.
func GetDriverCatalog(cfg *contract.Config) []schema.DriverDefinition {
	return cfg.Drivers.Definitions()
}

// loadAssessment reads the assessment file named in the config.
func loadAssessment(cfg *contract.Config) (schema.Assessment, error) {
	if cfg.AssessmentPath == "" {
		return schema.Assessment{}, ErrNoAssessmentPath
	}
	assessment, err := assessfile.Load(cfg.AssessmentPath)
	if err != nil {
		return schema.Assessment{}, fmt.Errorf("failed to load assessment: %w", err)
	}
	return assessment, nil
}
