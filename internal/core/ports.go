package core

import (
	"context"
)

// JobRepository is the read-then-propose boundary with the state-owning
// collaborator. The triage pipeline only reads jobs; mutations happen when
// the collaborator applies a resolved action.
type JobRepository interface {
	// ListJobs returns all tracked jobs.
	ListJobs(ctx context.Context) ([]JobRecord, error)

	// GetJob returns one job by id.
	GetJob(ctx context.Context, id string) (*JobRecord, error)

	// SaveJob inserts or replaces a job record.
	SaveJob(ctx context.Context, job *JobRecord) error

	// UpdateStatus sets a job's coarse status.
	UpdateStatus(ctx context.Context, id string, status JobStatus) error

	// AppendEmail records a classified email in a job's history.
	AppendEmail(ctx context.Context, jobID string, entry ClassifiedEmail) error

	// ListEmailsForJob returns a job's classified email history.
	ListEmailsForJob(ctx context.Context, jobID string) ([]ClassifiedEmail, error)
}

// StageSuggester provides an advisory second opinion on an email's stage
// from an external model. Implementations must never be treated as
// authoritative; the rule-based classification always stands.
type StageSuggester interface {
	SuggestStage(ctx context.Context, email *EmailRecord) (*StageSuggestion, error)
}
