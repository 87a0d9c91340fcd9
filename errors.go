package bridge3d

import "errors"

var (
	// ErrDesignNotFound is returned when a design ID does not exist.
	ErrDesignNotFound = errors.New("bridge3d: design not found")

	// ErrAnalysisNotFound is returned when an analysis ID does not exist.
	ErrAnalysisNotFound = errors.New("bridge3d: analysis not found")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("bridge3d: invalid configuration")

	// ErrEmptyRequirements is returned when a request carries no
	// requirement text at all.
	ErrEmptyRequirements = errors.New("bridge3d: empty requirements text")
)
