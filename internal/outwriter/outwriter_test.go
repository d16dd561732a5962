package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() schema.AssessmentReport {
	top := schema.DriverSitting
	return schema.AssessmentReport{
		AssessmentID: "q1-hq",
		OrgID:        "acme",
		SiteID:       "hq",
		Date:         "2024-03-01",
		Label:        "Moderate",
		Snapshot: schema.Snapshot{
			Overall: 55.7,
			Roles: []schema.RoleScore{
				{RoleID: "Office Worker", Raw: 0.4875, Percentage: 48.8},
				{RoleID: "Forklift Driver", Raw: 0.625, Percentage: 62.5},
			},
			Drivers: []schema.DriverScore{
				{Driver: schema.DriverSitting, Name: "Sitting", Mean: 3, Percentage: 75},
				{Driver: schema.DriverNeck, Name: "Neck", Mean: 2, Percentage: 50},
			},
			TopDriver: &top,
		},
		Delta: &schema.Delta{BaselineAssessmentID: schema.StringPtr("q4-hq"), DeltaPoints: schema.FloatPtr(-4.5)},
	}
}

func textConfig() *contract.Config {
	return &contract.Config{Output: schema.TextOut, Precision: 1, Width: 120}
}

func TestWriteReport_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), textConfig(), 10*time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "Assessment q1-hq | acme / hq | 2024-03-01")
	assert.Contains(t, output, "Overall MRI: 55.7 (Moderate)")
	assert.Contains(t, output, "Change: -4.5 ▼ vs q4-hq")
	assert.Contains(t, output, "Forklift Driver")
	assert.Contains(t, output, "Top driver: sitting")
	assert.Contains(t, output, "not saved")

	// Roles are ranked by score in the table
	assert.Less(t, strings.Index(output, "Forklift Driver"), strings.Index(output, "Office Worker"))
}

func TestWriteReport_TextNoBaseline(t *testing.T) {
	report := sampleReport()
	report.Delta = &schema.Delta{}
	report.Persisted = true
	cfg := textConfig()
	cfg.StoreBackend = schema.SQLiteBackend

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report, cfg, 0))
	assert.Contains(t, buf.String(), "no earlier assessment")
	assert.Contains(t, buf.String(), "saved to sqlite")
}

func TestWriteReport_TextLimit(t *testing.T) {
	cfg := textConfig()
	cfg.ResultLimit = 1

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), cfg, 0))
	assert.Contains(t, buf.String(), "Forklift Driver")
	assert.NotContains(t, buf.String(), "Office Worker")
}

func TestWriteReport_JSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), cfg, 0))

	var decoded schema.AssessmentReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 55.7, decoded.Snapshot.Overall)
	require.NotNil(t, decoded.Delta)
	assert.Equal(t, -4.5, *decoded.Delta.DeltaPoints)
	// JSON keeps observation order
	assert.Equal(t, "Office Worker", decoded.Snapshot.Roles[0].RoleID)
}

func TestWriteReport_CSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), cfg, 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+1+2+2+1)
	assert.Equal(t, []string{"assessment_id", "section", "subject", "raw", "percentage", "label"}, records[0])
	assert.Equal(t, []string{"q1-hq", "overall", "acme/hq", "", "55.7", "Moderate"}, records[1])
	assert.Equal(t, []string{"q1-hq", "role", "Office Worker", "0.4875", "48.8", "Moderate"}, records[2])
	assert.Equal(t, []string{"q1-hq", "driver", "sitting", "3.0000", "75.0", "High"}, records[4])
	assert.Equal(t, []string{"q1-hq", "delta", "q4-hq", "", "-4.5", ""}, records[6])
}

func sampleHistory() schema.HistoryResult {
	return schema.HistoryResult{
		OrgID:  "acme",
		SiteID: "hq",
		Points: []schema.HistoryPoint{
			{AssessmentID: "q4-hq", Date: "2023-12-01", Overall: schema.FloatPtr(60.2), TopDriver: schema.StringPtr("neck"), Label: "High"},
			{
				AssessmentID: "q1-hq", Date: "2024-03-01", Overall: schema.FloatPtr(55.7), TopDriver: schema.StringPtr("sitting"), Label: "Moderate",
				Delta: schema.Delta{BaselineAssessmentID: schema.StringPtr("q4-hq"), DeltaPoints: schema.FloatPtr(-4.5)},
			},
			{AssessmentID: "broken", Date: "2024-04-01", Label: "n/a", Note: "assessment has no overall score"},
		},
	}
}

func TestWriteHistory(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistory(&buf, sampleHistory(), textConfig()))
		output := buf.String()
		assert.Contains(t, output, "History for acme / hq")
		assert.Contains(t, output, "-4.5 ▼")
		assert.Contains(t, output, "n/a")
		assert.Contains(t, output, "Showing 3 assessments")
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistory(&buf, schema.HistoryResult{OrgID: "acme", SiteID: "hq"}, textConfig()))
		assert.Contains(t, buf.String(), "No assessments recorded")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistory(&buf, sampleHistory(), &contract.Config{Output: schema.CSVOut, Precision: 1}))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "q4-hq", records[2][6])
		assert.Equal(t, "-4.5", records[2][7])
		assert.Equal(t, "", records[3][4])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHistory(&buf, sampleHistory(), &contract.Config{Output: schema.JSONOut}))
		var decoded schema.HistoryResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Points, 3)
		assert.Nil(t, decoded.Points[0].Delta.DeltaPoints)
	})
}

func TestWriteDrivers(t *testing.T) {
	defs := schema.DefaultDriverDefinitions()

	var text bytes.Buffer
	require.NoError(t, WriteDrivers(&text, defs, textConfig()))
	assert.Contains(t, text.String(), "Workstation")
	assert.Contains(t, text.String(), "0.25")
	assert.Contains(t, text.String(), "weights sum to 1.00")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteDrivers(&csvBuf, defs, &contract.Config{Output: schema.CSVOut}))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(defs)+1)
	assert.Equal(t, []string{"0", "sitting", "Sitting", "0.25"}, records[1])

	var jsonBuf bytes.Buffer
	require.NoError(t, WriteDrivers(&jsonBuf, defs, &contract.Config{Output: schema.JSONOut}))
	var decoded []schema.DriverDefinition
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, defs, decoded)
}

func TestWriteCheck(t *testing.T) {
	result := schema.CheckResult{
		Passed:       false,
		AssessmentID: "q1-hq",
		Overall:      55.7,
		Thresholds:   schema.Thresholds{schema.OverallScope: 50, schema.DriverScope: 70},
		Violations: []schema.Violation{
			{Scope: schema.OverallScope, Subject: "overall", Score: 55.7, Threshold: 50},
			{Scope: schema.DriverScope, Subject: "sitting", Score: 75, Threshold: 70},
		},
		Checked: 3,
	}

	var text bytes.Buffer
	require.NoError(t, WriteCheck(&text, result, textConfig(), 0))
	assert.Contains(t, text.String(), "Threshold check FAILED for q1-hq")
	assert.Contains(t, text.String(), "Thresholds: driver=70.0, overall=50.0")
	assert.Contains(t, text.String(), "2 of 3 scores exceed")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteCheck(&csvBuf, result, &contract.Config{Output: schema.CSVOut, Precision: 1}, 0))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"q1-hq", "driver", "sitting", "75.0", "70.0"}, records[2])

	passed := schema.CheckResult{Passed: true, AssessmentID: "ok", Thresholds: schema.Thresholds{}}
	var passBuf bytes.Buffer
	require.NoError(t, WriteCheck(&passBuf, passed, textConfig(), 0))
	assert.Contains(t, passBuf.String(), "PASSED")
	assert.Contains(t, passBuf.String(), "Thresholds: none")
}

func TestOutWriter_WritesToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "report.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: outputFile}

	require.NoError(t, NewOutWriter().WriteReport(sampleReport(), cfg, 0))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"assessment_id": "q1-hq"`)
}

func TestWriteReport_PrecisionOnlyWidensMeans(t *testing.T) {
	cfg := textConfig()
	cfg.Precision = 2
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleReport(), cfg, 0))

	output := buf.String()
	assert.Contains(t, output, "Overall MRI: 55.7 (Moderate)")
	assert.Contains(t, output, "Change: -4.5 ▼ vs q4-hq")
	assert.Contains(t, output, "3.00")
	assert.NotContains(t, output, "48.80")
	assert.NotContains(t, output, "75.00")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteReport(&csvBuf, sampleReport(), &contract.Config{Output: schema.CSVOut, Precision: 2}, 0))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"q1-hq", "overall", "acme/hq", "", "55.7", "Moderate"}, records[1])
	assert.Equal(t, []string{"q1-hq", "role", "Office Worker", "0.4875", "48.8", "Moderate"}, records[2])
	assert.Equal(t, []string{"q1-hq", "delta", "q4-hq", "", "-4.5", ""}, records[6])

	assert.Equal(t, "+2.0 ▲", formatDelta(2, &contract.Config{Precision: 2}))
}

func TestFormatDelta(t *testing.T) {
	cfg := &contract.Config{Precision: 1}
	assert.Equal(t, "+2.0 ▲", formatDelta(2, cfg))
	assert.Equal(t, "-0.3 ▼", formatDelta(-0.3, cfg))
	assert.Equal(t, "0.0", formatDelta(0, cfg))
}

func TestGetMaxTableTextWidth(t *testing.T) {
	assert.Equal(t, 15, GetMaxTableTextWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 30, GetMaxTableTextWidth(&contract.Config{Width: 80}))
	assert.Equal(t, 60, GetMaxTableTextWidth(&contract.Config{Width: 300}))
}

func TestWriteReport_BaselineWithoutScore(t *testing.T) {
	report := sampleReport()
	report.Delta = &schema.Delta{BaselineAssessmentID: schema.StringPtr("q4-hq")}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report, textConfig(), 0))
	assert.Contains(t, buf.String(), "Change: n/a (q4-hq has no overall score)")

	var csvBuf bytes.Buffer
	require.NoError(t, WriteReport(&csvBuf, report, &contract.Config{Output: schema.CSVOut, Precision: 1}, 0))
	assert.Contains(t, csvBuf.String(), "q1-hq,delta,q4-hq,,,")
}
