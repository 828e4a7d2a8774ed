package conversion

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
	StageSynthesize Stage = "synthesize"
)

var (
	ErrTranscribe = errors.New("transcription failed")
	ErrTranslate  = errors.New("translation failed")
	ErrSynthesize = errors.New("synthesis failed")

	ErrEmptyAudio       = errors.New("empty audio clip")
	ErrEmptyTranscript  = errors.New("empty transcript")
	ErrEmptyTranslation = errors.New("empty translation")
	ErrEmptyText        = errors.New("empty text")
	ErrBusy             = errors.New("conversion capacity exhausted")
)

// StageError is a failure of one collaborator call. errors.Is matches both the
// stage sentinel (ErrTranscribe, ErrTranslate, ErrSynthesize) and the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{stageSentinel(e.Stage), e.Err}
}

func stageSentinel(s Stage) error {
	switch s {
	case StageTranscribe:
		return ErrTranscribe
	case StageTranslate:
		return ErrTranslate
	default:
		return ErrSynthesize
	}
}

// StageOf names the failing stage, or "" when err is not a StageError.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return string(se.Stage)
	}
	return ""
}
