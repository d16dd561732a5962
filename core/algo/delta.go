package algo

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/mri/schema"
)

// HistoryLookup finds the most recent assessment of an organization and site
// strictly before a date. The boolean is false when there is none.
type HistoryLookup interface {
	PreviousAssessment(ctx context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error)
}

// HistoryLookupFunc adapts a function to HistoryLookup.
type HistoryLookupFunc func(ctx context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error)

// PreviousAssessment calls f.
func (f HistoryLookupFunc) PreviousAssessment(ctx context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error) {
	return f(ctx, orgID, siteID, before)
}

// ComputeDelta compares overall against the baseline returned by lookup.
// Without a baseline both fields of the delta are nil. A baseline with no
// score yields a *MissingBaselineScoreError.
func ComputeDelta(ctx context.Context, orgID, siteID string, date time.Time, overall float64, lookup HistoryLookup) (schema.Delta, error) {
	if lookup == nil {
		return schema.Delta{}, ErrNoLookup
	}

	base, found, err := lookup.PreviousAssessment(ctx, orgID, siteID, date)
	if err != nil {
		return schema.Delta{}, fmt.Errorf("history lookup for %s/%s: %w", orgID, siteID, err)
	}
	if !found {
		return schema.Delta{}, nil
	}

	if base.OrgID != orgID || base.SiteID != siteID {
		return schema.Delta{}, fmt.Errorf("%w: got %s/%s for %s/%s", ErrBaselineMismatch, base.OrgID, base.SiteID, orgID, siteID)
	}
	if !DateOnly(base.Date).Before(DateOnly(date)) {
		return schema.Delta{}, fmt.Errorf("%w: baseline %s dated %s, assessment dated %s",
			ErrBaselineMismatch, base.AssessmentID, FormatDate(base.Date), FormatDate(date))
	}
	if base.Overall == nil {
		return schema.Delta{}, &MissingBaselineScoreError{BaselineAssessmentID: base.AssessmentID}
	}

	id := base.AssessmentID
	points := Round1(overall - *base.Overall)
	return schema.Delta{BaselineAssessmentID: &id, DeltaPoints: &points}, nil
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t in the assessment date layout.
func FormatDate(t time.Time) string {
	return t.Format(schema.DateLayout)
}

// ParseDate parses an assessment date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid assessment date %q: %w", s, err)
	}
	return t, nil
}
