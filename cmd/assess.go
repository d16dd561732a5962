package cmd

import (
	"github.com/huangsam/mri/core"
	"github.com/huangsam/mri/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores an assessment without touching history.
var scoreCmd = &cobra.Command{
	Use:   "score <assessment-file>",
	Short: "Score an assessment file (no history lookup, nothing saved)",
	Long: `Compute the Movement Risk Index of a single assessment file.

The file lists one organization, one site, one date and, per job role, an
ordinal exposure score from 0 to 4 for each risk driver. Both YAML and JSON
are accepted.

Reports:
- Overall MRI (mean of role percentages)
- Per-role and per-driver percentages
- The top driver across all roles

Examples:
  # Score a YAML assessment
  mri score q1-hq.yaml

  # Emit JSON for further processing
  mri score q1-hq.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: engineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot score assessment", err)
		}
	},
}

// assessCmd scores an assessment, compares it with the previous one and saves it.
var assessCmd = &cobra.Command{
	Use:   "assess <assessment-file>",
	Short: "Score an assessment, compare it with the previous one and save it",
	Long: `Score an assessment file and record it in the snapshot store.

The delta is computed against the most recent assessment of the same
organization and site dated strictly before this one. Same-day assessments
never serve as each other's baseline.

Snapshots are immutable: assessing the same assessment id twice fails.

Examples:
  # Record a quarterly assessment in the default SQLite store
  mri assess q1-hq.yaml

  # Record into PostgreSQL (set connection string via env variable)
  MRI_STORE_BACKEND=postgresql MRI_STORE_DB_CONNECT="host=... dbname=mri" mri assess q1-hq.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAssess(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot assess", err)
		}
	},
}

// compareCmd is assess without saving.
var compareCmd = &cobra.Command{
	Use:   "compare <assessment-file>",
	Short: "Compare an assessment with the previous one without saving it",
	Long: `Score an assessment file and show its change against the previous
assessment of the same organization and site. Nothing is written to the store.

Examples:
  # Preview the change before recording it
  mri compare q1-hq.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compare assessment", err)
		}
	},
}
