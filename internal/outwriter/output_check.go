package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

// WriteCheck outputs a threshold check result, dispatching based on the output format configured.
func WriteCheck(w io.Writer, result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := formatScore

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		header := []string{"assessment_id", "scope", "subject", "score", "threshold"}
		err := writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, v := range result.Violations {
				row := []string{result.AssessmentID, string(v.Scope), v.Subject, fmtFloat(v.Score), fmtFloat(v.Threshold)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeCheckText(w, result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing check output: %w", err)
		}
	}
	return nil
}

// writeCheckText prints the check result in a concise format suitable for CI/CD.
func writeCheckText(w io.Writer, result schema.CheckResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	verdict := "PASSED"
	emoji := "✅"
	if !result.Passed {
		verdict = "FAILED"
		emoji = "❌"
	}
	if _, err := fmt.Fprintf(w, "%sThreshold check %s for %s (overall %s)\n",
		headerPrefix(emoji, cfg), verdict, result.AssessmentID, fmtFloat(result.Overall)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Thresholds: %s\n", formatThresholds(result.Thresholds, fmtFloat)); err != nil {
		return err
	}

	if len(result.Violations) > 0 {
		var data [][]string
		for _, v := range result.Violations {
			data = append(data, []string{
				string(v.Scope),
				contract.TruncateText(v.Subject, GetMaxTableTextWidth(cfg)),
				fmtFloat(v.Score),
				fmtFloat(v.Threshold),
				formatLabel(v.Score, cfg),
			})
		}
		if err := renderTable(w, []string{"Scope", "Subject", "Score", "Threshold", "Label"}, data); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d of %d scores exceed their threshold (checked in %v)\n",
		len(result.Violations), result.Checked, duration)
	return err
}

// formatThresholds renders thresholds in scope order, e.g. "driver=60.0, overall=50.0".
func formatThresholds(thresholds schema.Thresholds, fmtFloat func(float64) string) string {
	if len(thresholds) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(thresholds))
	for scope, limit := range thresholds {
		parts = append(parts, fmt.Sprintf("%s=%s", scope, fmtFloat(limit)))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
