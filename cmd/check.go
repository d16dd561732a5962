package cmd

import (
	"github.com/huangsam/mri/core"
	"github.com/huangsam/mri/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check <assessment-file>",
	Short: "Enforce MRI thresholds (fails with exit code 1 on violations)",
	Long: `Score an assessment file and compare the overall, role and driver
percentages against configured thresholds.

A score violates its threshold only when it is strictly greater.

Default thresholds: 60.0 for overall, role and driver

Examples:
  # Gate with the default thresholds
  mri check q1-hq.yaml

  # Custom thresholds per scope
  mri check q1-hq.yaml --thresholds-override "overall:50,driver:70"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: engineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Threshold check failed", err)
		}
	},
}
