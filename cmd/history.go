package cmd

import (
	"github.com/huangsam/mri/core"
	"github.com/huangsam/mri/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd shows the timeline of one organization and site.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the MRI timeline of one site with change between assessments",
	Long: `List the saved assessments of one organization and site in date order.

Each entry shows its overall MRI and the change against the previous entry.
Assessments recorded on the same day share the earlier baseline.

Examples:
  # Full timeline
  mri history --org acme --site hq

  # Last four assessments as CSV
  mri history --org acme --site hq --limit 4 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show history", err)
		}
	},
}
