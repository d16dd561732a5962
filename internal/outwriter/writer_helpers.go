package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/mri/internal/contract"
)

// notAvailable is shown for missing scores and deltas.
const notAvailable = "n/a"

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter creates the formatter for unrounded columns such as driver means.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatScore formats a percentage, overall score, delta or threshold.
// These always carry exactly one decimal.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatOptional formats a nullable score.
func formatOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return notAvailable
	}
	return fmtFloat(*v)
}

// optionalString dereferences a nullable string, returning fallback for nil.
func optionalString(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// formatDelta renders a signed delta with a direction marker. Rising risk is
// drawn in the worse color and falling risk in the better one.
func formatDelta(points float64, cfg *contract.Config) string {
	worse, better := fmt.Sprint, fmt.Sprint
	if cfg.UseColors {
		worse = contract.WorseColor.Sprint
		better = contract.BetterColor.Sprint
	}
	switch {
	case points > 0:
		return worse("+" + formatScore(points) + " ▲")
	case points < 0:
		return better(formatScore(points) + " ▼")
	default:
		return formatScore(0)
	}
}

// formatLabel returns the colored or plain risk label of a percentage.
func formatLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// headerPrefix prepends an emoji to section headers when emojis are enabled.
func headerPrefix(emoji string, cfg *contract.Config) string {
	if cfg.UseEmojis {
		return emoji + " "
	}
	return ""
}
