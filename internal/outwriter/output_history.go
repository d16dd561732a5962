package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

// WriteHistory outputs a site timeline, dispatching based on the output format configured.
func WriteHistory(w io.Writer, result schema.HistoryResult, cfg *contract.Config) error {
	fmtFloat := formatScore

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVHistory(w, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeHistoryTable(w, result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing history table output: %w", err)
		}
	}
	return nil
}

// writeHistoryTable prints the timeline oldest first.
func writeHistoryTable(w io.Writer, result schema.HistoryResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "%sHistory for %s / %s\n", headerPrefix("📈", cfg), result.OrgID, result.SiteID); err != nil {
		return err
	}
	if len(result.Points) == 0 {
		_, err := fmt.Fprintln(w, "No assessments recorded for this site")
		return err
	}

	maxWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for _, p := range result.Points {
		label := p.Label
		if p.Overall != nil {
			label = formatLabel(*p.Overall, cfg)
		}
		change := "-"
		if p.Delta.DeltaPoints != nil {
			change = formatDelta(*p.Delta.DeltaPoints, cfg)
		}
		data = append(data, []string{
			p.Date,
			contract.TruncateText(p.AssessmentID, maxWidth),
			formatOptional(p.Overall, fmtFloat),
			label,
			change,
			optionalString(p.TopDriver, "-"),
			contract.TruncateText(p.Note, maxWidth),
		})
	}
	if err := renderTable(w, []string{"Date", "Assessment", "Overall", "Label", "Change", "Top Driver", "Note"}, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d assessments\n", len(result.Points))
	return err
}

// writeCSVHistory writes the timeline as CSV rows.
func writeCSVHistory(w io.Writer, result schema.HistoryResult, fmtFloat func(float64) string) error {
	header := []string{"org_id", "site_id", "assessment_id", "date", "overall", "label", "baseline_id", "delta_points", "top_driver", "note"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			delta := ""
			if p.Delta.DeltaPoints != nil {
				delta = fmtFloat(*p.Delta.DeltaPoints)
			}
			overall := ""
			if p.Overall != nil {
				overall = fmtFloat(*p.Overall)
			}
			row := []string{
				result.OrgID,
				result.SiteID,
				p.AssessmentID,
				p.Date,
				overall,
				p.Label,
				optionalString(p.Delta.BaselineAssessmentID, ""),
				delta,
				optionalString(p.TopDriver, ""),
				p.Note,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
