package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReport outputs a scored assessment, dispatching based on the output format configured.
func WriteReport(w io.Writer, report schema.AssessmentReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := formatScore

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVReport(w, report, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeReportTables(w, report, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
	}
	return nil
}

// writeReportTables prints the overall score, the delta, and role and driver tables.
func writeReportTables(w io.Writer, report schema.AssessmentReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	snap := report.Snapshot

	if _, err := fmt.Fprintf(w, "%sAssessment %s | %s / %s | %s\n",
		headerPrefix("📋", cfg), report.AssessmentID, report.OrgID, report.SiteID, report.Date); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall MRI: %s (%s)\n", fmtFloat(snap.Overall), formatLabel(snap.Overall, cfg)); err != nil {
		return err
	}
	if report.Delta != nil {
		line := "Change: no earlier assessment for this site"
		switch {
		case report.Delta.HasBaseline() && report.Delta.DeltaPoints != nil:
			line = fmt.Sprintf("Change: %s vs %s", formatDelta(*report.Delta.DeltaPoints, cfg), *report.Delta.BaselineAssessmentID)
		case report.Delta.HasBaseline():
			line = fmt.Sprintf("Change: %s (%s has no overall score)", notAvailable, *report.Delta.BaselineAssessmentID)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(snap.Roles) > 0 {
		if _, err := fmt.Fprintf(w, "\n%sRoles\n", headerPrefix("👷", cfg)); err != nil {
			return err
		}
		maxWidth := GetMaxTableTextWidth(cfg)
		var data [][]string
		for i, r := range algo.RankRoles(snap.Roles, cfg.ResultLimit) {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(r.RoleID, maxWidth),
				fmtFloat(r.Percentage),
				formatLabel(r.Percentage, cfg),
			})
		}
		if err := renderTable(w, []string{"Rank", "Role", "Score", "Label"}, data); err != nil {
			return err
		}
	}

	if len(snap.Drivers) > 0 {
		if _, err := fmt.Fprintf(w, "\n%sDrivers\n", headerPrefix("📊", cfg)); err != nil {
			return err
		}
		var data [][]string
		for _, d := range snap.Drivers {
			data = append(data, []string{
				string(d.Driver),
				d.Name,
				createFormatter(cfg.Precision)(d.Mean),
				fmtFloat(d.Percentage),
				formatLabel(d.Percentage, cfg),
			})
		}
		if err := renderTable(w, []string{"Driver", "Name", "Mean", "Score", "Label"}, data); err != nil {
			return err
		}
	}

	if snap.TopDriver != nil {
		if _, err := fmt.Fprintf(w, "Top driver: %s\n", *snap.TopDriver); err != nil {
			return err
		}
	}

	status := "not saved"
	if report.Persisted {
		status = "saved to " + string(cfg.StoreBackend)
	}
	_, err := fmt.Fprintf(w, "Scored %d roles in %v (%s)\n", len(snap.Roles), duration, status)
	return err
}

// renderTable renders a right-aligned table with the given headers and rows.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVReport writes one row for the overall score, each role, each driver and the delta.
func writeCSVReport(w io.Writer, report schema.AssessmentReport, fmtFloat func(float64) string) error {
	header := []string{"assessment_id", "section", "subject", "raw", "percentage", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		snap := report.Snapshot
		rows := [][]string{
			{report.AssessmentID, "overall", report.OrgID + "/" + report.SiteID, "", fmtFloat(snap.Overall), contract.GetPlainLabel(snap.Overall)},
		}
		for _, r := range snap.Roles {
			rows = append(rows, []string{
				report.AssessmentID, "role", r.RoleID, strconv.FormatFloat(r.Raw, 'f', 4, 64),
				fmtFloat(r.Percentage), contract.GetPlainLabel(r.Percentage),
			})
		}
		for _, d := range snap.Drivers {
			rows = append(rows, []string{
				report.AssessmentID, "driver", string(d.Driver), strconv.FormatFloat(d.Mean, 'f', 4, 64),
				fmtFloat(d.Percentage), contract.GetPlainLabel(d.Percentage),
			})
		}
		if report.Delta != nil && report.Delta.HasBaseline() {
			points := ""
			if report.Delta.DeltaPoints != nil {
				points = fmtFloat(*report.Delta.DeltaPoints)
			}
			rows = append(rows, []string{
				report.AssessmentID, "delta", *report.Delta.BaselineAssessmentID, "", points, "",
			})
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
