package job

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Status is the lifecycle stage of a job record.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions can happen from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Result is the output of a completed job.
type Result struct {
	Transcript     string `json:"transcript"`
	Summary        string `json:"summary"`
	SuggestedTopic string `json:"suggestedTopic"`
}

// Record is the persisted, client-visible state of one job. Result is set
// only for completed jobs and Message only for failed ones.
type Record struct {
	Status  Status  `json:"status"`
	Result  *Result `json:"result,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Processing is the record written when a job is accepted.
func Processing() Record {
	return Record{Status: StatusProcessing}
}

// Completed builds the terminal success record.
func Completed(res Result) Record {
	return Record{Status: StatusCompleted, Result: &res}
}

// Failed builds the terminal failure record.
func Failed(message string) Record {
	return Record{Status: StatusError, Message: message}
}

// Entry pairs a record with its job id, as returned by listings and /sync.
type Entry struct {
	ID string `json:"lesson_id"`
	Record
}

// Spec is everything a pipeline run needs for one job. APIKey lives only in
// memory for the duration of the run.
type Spec struct {
	ID                 string
	Owner              string
	APIKey             string
	RawPath            string
	Subject            string
	TranscriptionModel string
	SummaryModel       string
}

// OwnerFromKey derives the storage partition key from an API key.
func OwnerFromKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// NewID returns a time-derived job id with millisecond granularity.
func NewID(now time.Time) string {
	return fmt.Sprintf("lesson_%d", now.UnixMilli())
}

// ShortOwner trims an owner hash for log lines.
func ShortOwner(owner string) string {
	if len(owner) > 8 {
		return owner[:8]
	}
	return owner
}
