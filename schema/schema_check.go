package schema

// Thresholds holds the maximum allowed percentage for each check scope.
type Thresholds map[CheckScope]float64

// Violation is a single percentage that exceeded its threshold.
type Violation struct {
	Scope     CheckScope `json:"scope"`
	Subject   string     `json:"subject"`
	Score     float64    `json:"score"`
	Threshold float64    `json:"threshold"`
}

// CheckResult holds the results of a threshold check.
type CheckResult struct {
	Passed       bool        `json:"passed"`
	AssessmentID string      `json:"assessment_id"`
	Overall      float64     `json:"overall"`
	Thresholds   Thresholds  `json:"thresholds"`
	Violations   []Violation `json:"violations"`
	Checked      int         `json:"checked"` // number of percentages compared
}
