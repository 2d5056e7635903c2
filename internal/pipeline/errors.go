package pipeline

import (
	"errors"
	"fmt"
)

// ErrBusy indicates Run was called while another run was in progress.
var ErrBusy = errors.New("an extraction is already running")

// ErrInvalidRequest indicates a request that cannot be executed as given.
var ErrInvalidRequest = errors.New("invalid request")

// Stage identifies a pipeline step.
type Stage string

// Pipeline stages, in execution order.
const (
	StageValidate Stage = "validate"
	StageResolve  Stage = "resolve"
	StageMetadata Stage = "metadata"
	StageOutput   Stage = "output"
	StageDownload Stage = "download"
	StageTrim     Stage = "trim"
	StageSplit    Stage = "split"
)

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the first StageError in err's chain.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
