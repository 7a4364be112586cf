package youtube

import (
	"errors"
	"fmt"
)

// Error kinds reported by the caption pipeline. Use errors.Is to test for them.
var (
	ErrInvalidID           = errors.New("no identifier found")
	ErrTransport           = errors.New("transport failure")
	ErrCaptionsUnavailable = errors.New("no captions available for this video")
	ErrManifestParse       = errors.New("failed to parse caption track manifest")
	ErrLanguageUnavailable = errors.New("no captions found for language")
	ErrTimedTextParse      = errors.New("failed to parse timed text")
)

// Step names a stage of the caption pipeline.
type Step string

const (
	StepResolveID     Step = "resolve-id"
	StepFetchPage     Step = "fetch-page"
	StepExtractTracks Step = "extract-tracks"
	StepSelectTrack   Step = "select-track"
	StepFetchTrack    Step = "fetch-track"
	StepDecode        Step = "decode"
)

// StepError tags a pipeline failure with the step that produced it.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step recorded in err, if any.
func FailedStep(err error) (Step, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}

func stepErr(step Step, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}
