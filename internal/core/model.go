package core

import (
	"time"
)

// EmailRecord is a raw email delivered by the ingestion collaborator.
// The core never mutates it.
type EmailRecord struct {
	ID      string
	Subject string
	Sender  string
	Snippet string
	Body    string
	Date    time.Time
	Read    bool
}

// Text returns the searchable text of the email. A missing body degrades
// to snippet plus subject.
func (e *EmailRecord) Text() string {
	if e.Body != "" {
		return e.Subject + "\n" + e.Body
	}
	return e.Subject + "\n" + e.Snippet
}

// Entities are the best-effort extractions from an email. A nil field means
// extraction failed, which is distinct from an extracted empty value.
type Entities struct {
	Company     *string
	Position    *string
	Interviewer *string
	Date        *time.Time
	Location    *string
}

// Classification is the classifier's verdict for one email.
type Classification struct {
	Stage      Stage
	Sentiment  Sentiment
	Confidence float64
	Keywords   []string
	Entities   Entities
}

// JobRecord is a tracked application. Owned by the job repository; the core
// reads it and proposes mutations through actions.
type JobRecord struct {
	ID            string
	Company       string
	Position      string
	Platform      string
	AppliedAt     time.Time
	Status        JobStatus
	Notes         string
	URL           *string
	TestDate      *time.Time
	InterviewDate *time.Time
}

// MatchResult pairs a candidate job with the matcher's composite confidence.
// Job is nil when no job cleared the acceptance threshold; Confidence then
// reports the highest score seen, for diagnostics.
type MatchResult struct {
	Job        *JobRecord
	Confidence float64
}

// StageSuggestion is an advisory second opinion from an external model.
// It never overrides the rule-based classification.
type StageSuggestion struct {
	Stage       Stage
	Confidence  float64
	Explanation string
	Model       string
}

/// EmailJobMatch is the outward contract of the triage pipeline: one email,
// its classification, the matched job (if any), and the proposed action.
type EmailJobMatch struct {
	Email          EmailRecord
	Classification Classification
	Match          MatchResult
	Action         Action
	Advisory       *StageSuggestion
	RunID          string
	ProcessedAt    time.Time
}

// ClassifiedEmail is one classified email in a job's history.
type ClassifiedEmail struct {
	EmailID        string
	Classification Classification
	Date           time.Time
}

// TimelineEntry is one stage observation on a job timeline.
type TimelineEntry struct {
	Stage      Stage
	Date       time.Time
	EmailID    string
	Confidence float64
	Sentiment  Sentiment
	Notes      string
}

// StagePrediction is a probable next stage with a suggested time window.
type StagePrediction struct {
	Stage       Stage
	Probability float64
	Timeframe   string
}

// TimelineConfidence summarizes how sure the engine is about a timeline's
// current stage, with a human-readable reasoning trace.
type TimelineConfidence struct {
	Stage       Stage
	Confidence  float64
	Reasoning   []string
	Predictions []StagePrediction
}

// JobTimeline is the ordered stage history for one job. It is always
// rebuildable from the job's classified emails and is never persisted on
// its own.
type JobTimeline struct {
	JobID        string
	Entries      []TimelineEntry
	CurrentStage Stage
	Confidence   TimelineConfidence
}

// AlertUrgency grades how pressing a proactive alert is.
type AlertUrgency string

const (
	UrgencyHigh   AlertUrgency = "high"
	UrgencyMedium AlertUrgency = "medium"
)

// AlertType identifies the follow-up an alert suggests.
type AlertType string

const (
	AlertThankYouNote       AlertType = "thank_you_note"
	AlertCompleteAssessment AlertType = "complete_assessment"
	AlertStatusInquiry      AlertType = "status_inquiry"
)

// Alert is a proactive follow-up suggestion for a job.
type Alert struct {
	JobID   string
	Type    AlertType
	Message string
	Urgency AlertUrgency
}
