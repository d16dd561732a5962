package snapstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/internal/parquet"
)

// ExecuteSnapshotExport exports every persisted snapshot to Parquet files.
// Files are named <outputPrefix>.<table>.parquet.
func ExecuteSnapshotExport(ctx context.Context, w io.Writer, store contract.SnapshotStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalAssessments == 0 {
		return errors.New("no assessment snapshots found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total assessments: %d\n", status.TotalAssessments)
	_, _ = fmt.Fprintf(w, "Total sites: %d\n", status.TotalSites)

	assessments, err := store.GetAllAssessments(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve assessments: %w", err)
	}
	roleScores, err := store.GetAllRoleScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve role scores: %w", err)
	}
	driverScores, err := store.GetAllDriverScores(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve driver scores: %w", err)
	}

	assessmentsFile := outputPrefix + "." + assessmentsTable + ".parquet"
	rows := parquet.ConvertAssessmentRecords(assessments)
	if err := parquet.WriteAssessmentsParquet(rows, assessmentsFile); err != nil {
		return fmt.Errorf("failed to write assessments: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d assessments to: %s\n", len(rows), assessmentsFile)

	rolesFile := outputPrefix + "." + roleScoresTable + ".parquet"
	roleRows := parquet.ConvertRoleScoreRecords(roleScores)
	if err := parquet.WriteRoleScoresParquet(roleRows, rolesFile); err != nil {
		return fmt.Errorf("failed to write role scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d role scores to: %s\n", len(roleRows), rolesFile)

	driversFile := outputPrefix + "." + driverScoresTable + ".parquet"
	driverRows := parquet.ConvertDriverScoreRecords(driverScores)
	if err := parquet.WriteDriverScoresParquet(driverRows, driversFile); err != nil {
		return fmt.Errorf("failed to write driver scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d driver scores to: %s\n", len(driverRows), driversFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (pyarrow) or Spark.")
	return nil
}
