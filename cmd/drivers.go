package cmd

import (
	"github.com/huangsam/mri/core"
	"github.com/huangsam/mri/internal/contract"
	"github.com/spf13/cobra"
)

// driversCmd displays the driver catalog and the scoring formula.
var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Display the risk drivers, their weights and the scoring formula",
	Long: `Show the driver catalog used for scoring, in scoring order.

The order breaks ties when picking the top driver. Custom drivers can be
configured in .mri.yaml and replace the default catalog entirely.

Examples:
  # Show the default catalog
  mri drivers

  # View with custom drivers from config file
  mri drivers --config .mri.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: engineSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDrivers(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display drivers", err)
		}
	},
}
