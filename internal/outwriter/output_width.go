package outwriter

import (
	"os"

	"github.com/huangsam/mri/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width for role names and notes
// in table output based on terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Label + Change columns with borders and padding
	available := termWidth - 50
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
