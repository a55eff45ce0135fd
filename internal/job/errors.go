package job

import (
	"errors"
	"fmt"
)

// Kind classifies why a job failed.
type Kind string

const (
	KindRepair                 Kind = "repair_failure"
	KindEmptyOutput            Kind = "empty_output_failure"
	KindUnreadableAudio        Kind = "unreadable_audio_failure"
	KindRemoteProcessing       Kind = "remote_processing_failure"
	KindTranscriptionExhausted Kind = "transcription_exhausted"
	KindSummaryDecode          Kind = "summary_decode_failure"
	KindGeneric                Kind = "generic_failure"
)

// RateLimitPrefix tags failure messages caused by quota exhaustion so
// clients can tell "try again later" apart from permanent failures.
const RateLimitPrefix = "RATE_LIMIT_EXCEEDED::"

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Errorf builds an *Error of the given kind wrapping cause.
func Errorf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindGeneric when there is none.
func KindOf(err error) Kind {
	var jerr *Error
	if errors.As(err, &jerr) {
		return jerr.Kind
	}
	return KindGeneric
}
