package algo

import (
	"errors"
	"fmt"

	"github.com/huangsam/mri/schema"
)

// Sentinel errors returned by the engine. The typed errors below unwrap to them.
var (
	// ErrInvalidScore indicates an ordinal score outside the fixed scale.
	ErrInvalidScore = errors.New("ordinal score out of range")

	// ErrDuplicateObservation indicates more than one score for a role and driver.
	ErrDuplicateObservation = errors.New("duplicate observation")

	// ErrEmptyRole indicates an observation without a role identifier.
	ErrEmptyRole = errors.New("empty role id")

	// ErrUnknownDriver indicates an observation for a driver outside the driver set.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrInvalidWeights indicates a driver set that cannot be used for scoring.
	ErrInvalidWeights = errors.New("invalid driver weights")

	// ErrMissingBaselineScore indicates a baseline assessment without an overall score.
	ErrMissingBaselineScore = errors.New("baseline score missing")

	// ErrBaselineMismatch indicates a lookup result for another site or a later date.
	ErrBaselineMismatch = errors.New("baseline does not precede assessment")

	// ErrNoLookup indicates a delta was requested without a history lookup.
	ErrNoLookup = errors.New("history lookup is nil")
)

// ValidationError describes an observation rejected by the aggregator.
type ValidationError struct {
	RoleID string
	Driver schema.DriverKey
	Score  int

	// Err is one of ErrInvalidScore, ErrDuplicateObservation or ErrEmptyRole.
	Err error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: role=%q driver=%q score=%d: %v", e.RoleID, e.Driver, e.Score, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ValidationError) Unwrap() error { return e.Err }

// UnknownDriverError is returned when an observation names a driver the set does not define.
type UnknownDriverError struct {
	RoleID string
	Driver schema.DriverKey
}

// Error implements the error interface for UnknownDriverError.
func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown driver %q for role %q", e.Driver, e.RoleID)
}

// Unwrap returns ErrUnknownDriver.
func (e *UnknownDriverError) Unwrap() error { return ErrUnknownDriver }

// DriverWeightsInvalidError is returned when a driver set fails construction.
type DriverWeightsInvalidError struct {
	Driver schema.DriverKey // empty when the problem is the whole set
	Weight float64
	Sum    float64
	Reason string
}

// Error implements the error interface for DriverWeightsInvalidError.
func (e *DriverWeightsInvalidError) Error() string {
	if e.Driver != "" {
		return fmt.Sprintf("invalid driver weights: driver=%q weight=%v: %s", e.Driver, e.Weight, e.Reason)
	}
	return fmt.Sprintf("invalid driver weights: sum=%v: %s", e.Sum, e.Reason)
}

// Unwrap returns ErrInvalidWeights.
func (e *DriverWeightsInvalidError) Unwrap() error { return ErrInvalidWeights }

// MissingBaselineScoreError is returned when the prior assessment exists but has no overall score.
type MissingBaselineScoreError struct {
	BaselineAssessmentID string
}

// Error implements the error interface for MissingBaselineScoreError.
func (e *MissingBaselineScoreError) Error() string {
	return fmt.Sprintf("baseline assessment %q has no overall score", e.BaselineAssessmentID)
}

// Unwrap returns ErrMissingBaselineScore.
func (e *MissingBaselineScoreError) Unwrap() error { return ErrMissingBaselineScore }
