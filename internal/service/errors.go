package service

import "errors"

var (
	// ErrValidation marks input rejected before any write.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a write that collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrGenerationFailed means the planner ended in its failed state. The
	// accompanying Outcome describes why.
	ErrGenerationFailed = errors.New("plan generation failed")
)
