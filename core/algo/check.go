package algo

import (
	"github.com/huangsam/mri/schema"
)

// EvaluateThresholds compares every percentage of a snapshot against the
// configured thresholds. A percentage violates its threshold when it is
// strictly greater. Scopes without a threshold are skipped.
func EvaluateThresholds(assessmentID string, snap schema.Snapshot, thresholds schema.Thresholds) schema.CheckResult {
	result := schema.CheckResult{
		AssessmentID: assessmentID,
		Overall:      snap.Overall,
		Thresholds:   thresholds,
		Violations:   []schema.Violation{},
	}

	if limit, ok := thresholds[schema.OverallScope]; ok {
		result.Checked++
		if snap.Overall > limit {
			result.Violations = append(result.Violations, schema.Violation{
				Scope: schema.OverallScope, Subject: "overall", Score: snap.Overall, Threshold: limit,
			})
		}
	}
	if limit, ok := thresholds[schema.RoleScope]; ok {
		for _, r := range snap.Roles {
			result.Checked++
			if r.Percentage > limit {
				result.Violations = append(result.Violations, schema.Violation{
					Scope: schema.RoleScope, Subject: r.RoleID, Score: r.Percentage, Threshold: limit,
				})
			}
		}
	}
	if limit, ok := thresholds[schema.DriverScope]; ok {
		for _, d := range snap.Drivers {
			result.Checked++
			if d.Percentage > limit {
				result.Violations = append(result.Violations, schema.Violation{
					Scope: schema.DriverScope, Subject: string(d.Driver), Score: d.Percentage, Threshold: limit,
				})
			}
		}
	}

	result.Passed = len(result.Violations) == 0
	return result
}
