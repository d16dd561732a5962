package algo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/huangsam/mri/schema"
)

// recordLookup serves baselines from records already sorted by date and seq.
type recordLookup []schema.AssessmentRecord

func (r recordLookup) PreviousAssessment(_ context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error) {
	day := DateOnly(before)
	for i := len(r) - 1; i >= 0; i-- {
		rec := r[i]
		if rec.OrgID != orgID || rec.SiteID != siteID {
			continue
		}
		if DateOnly(rec.Date).Before(day) {
			return schema.BaselineRecord{
				AssessmentID: rec.AssessmentID,
				OrgID:        rec.OrgID,
				SiteID:       rec.SiteID,
				Date:         rec.Date,
				Overall:      rec.Overall,
			}, true, nil
		}
	}
	return schema.BaselineRecord{}, false, nil
}

// SortRecords orders records chronologically, breaking same-day ties by
// insertion sequence.
func SortRecords(records []schema.AssessmentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, dj := DateOnly(records[i].Date), DateOnly(records[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return records[i].Seq < records[j].Seq
	})
}

// BuildTimeline turns the persisted assessments of one organization and site
// into a chronological timeline. Each point carries its delta against the most
// recent strictly earlier point, computed the same way ComputeDelta does.
func BuildTimeline(ctx context.Context, orgID, siteID string, records []schema.AssessmentRecord) (schema.HistoryResult, error) {
	sorted := make([]schema.AssessmentRecord, 0, len(records))
	for _, rec := range records {
		if rec.OrgID == orgID && rec.SiteID == siteID {
			sorted = append(sorted, rec)
		}
	}
	SortRecords(sorted)

	result := schema.HistoryResult{OrgID: orgID, SiteID: siteID, Points: make([]schema.HistoryPoint, 0, len(sorted))}
	for i, rec := range sorted {
		point := schema.HistoryPoint{
			AssessmentID: rec.AssessmentID,
			Date:         FormatDate(rec.Date),
			Overall:      rec.Overall,
			TopDriver:    rec.TopDriver,
		}
		if rec.Overall == nil {
			point.Label = "n/a"
			point.Note = "assessment has no overall score"
			result.Points = append(result.Points, point)
			continue
		}
		point.Label = schema.GetPlainLabel(*rec.Overall)

		delta, err := ComputeDelta(ctx, orgID, siteID, rec.Date, *rec.Overall, recordLookup(sorted[:i]))
		var missing *MissingBaselineScoreError
		switch {
		case errors.As(err, &missing):
			point.Delta.BaselineAssessmentID = &missing.BaselineAssessmentID
			point.Note = missing.Error()
		case err != nil:
			return schema.HistoryResult{}, err
		default:
			point.Delta = delta
		}
		result.Points = append(result.Points, point)
	}
	return result, nil
}
