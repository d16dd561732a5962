package contract

import "errors"

// Store errors shared by every backend.
var (
	// ErrAssessmentExists is returned when saving an assessment id twice.
	ErrAssessmentExists = errors.New("assessment already exists")

	// ErrAssessmentNotFound is returned when an assessment id is unknown.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrStoreDisabled is returned by commands that need history when the backend is none.
	ErrStoreDisabled = errors.New("snapshot store is disabled (store-backend=none)")
)
