package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRepo is an in-memory JobRepository for pipeline tests.
type stubRepo struct {
	jobs    []JobRecord
	history map[string][]ClassifiedEmail
	listErr error
}

func (r *stubRepo) ListJobs(ctx context.Context) ([]JobRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.jobs, nil
}

func (r *stubRepo) GetJob(ctx context.Context, id string) (*JobRecord, error) {
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			return &r.jobs[i], nil
		}
	}
	return nil, errors.New("job not found")
}

func (r *stubRepo) SaveJob(ctx context.Context, job *JobRecord) error {
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *stubRepo) UpdateStatus(ctx context.Context, id string, status JobStatus) error {
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs[i].Status = status
			return nil
		}
	}
	return errors.New("job not found")
}

func (r *stubRepo) AppendEmail(ctx context.Context, jobID string, entry ClassifiedEmail) error {
	if r.history == nil {
		r.history = make(map[string][]ClassifiedEmail)
	}
	r.history[jobID] = append(r.history[jobID], entry)
	return nil
}

func (r *stubRepo) ListEmailsForJob(ctx context.Context, jobID string) ([]ClassifiedEmail, error) {
	return r.history[jobID], nil
}

// stubSuggester returns a fixed suggestion and records whether it was asked.
type stubSuggester struct {
	called     bool
	suggestion StageSuggestion
	err        error
}

func (s *stubSuggester) SuggestStage(ctx context.Context, email *EmailRecord) (*StageSuggestion, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &s.suggestion, nil
}

func newTestService(t *testing.T, repo JobRepository, suggester StageSuggester, escalateBelow float64) *TriageService {
	t.Helper()
	classifier, err := NewClassifier(DefaultPatterns())
	require.NoError(t, err)
	timeline, err := NewTimelineEngine(DefaultPatterns())
	require.NoError(t, err)
	return NewTriageService(classifier, NewExtractor(), NewMatcher(), timeline,
		repo, suggester, zap.NewNop(), 4, escalateBelow)
}

func TestProcessEmailCreatesJobProposal(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, nil, 0)

	email := EmailRecord{
		ID:      "e1",
		Subject: "Thank you for your application",
		Sender:  "Acme Recruiting <jobs@acme.com>",
		Body:    "Thank you for your application to Acme Corp.",
		Date:    time.Now(),
	}

	result, err := svc.ProcessEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, StageApplicationReceived, result.Classification.Stage)
	assert.Nil(t, result.Match.Job)
	assert.Equal(t, ActionCreateJob, result.Action)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.ProcessedAt.IsZero())
}

func TestProcessEmailMatchesTrackedJob(t *testing.T) {
	applied := time.Now().AddDate(0, 0, -10)
	repo := &stubRepo{
		jobs: []JobRecord{
			{ID: "j1", Company: "Acme Corp", Position: "Software Engineer",
				Status: StatusApplied, AppliedAt: applied},
		},
	}
	svc := newTestService(t, repo, nil, 0)

	email := EmailRecord{
		ID:      "e2",
		Subject: "Interview Invitation",
		Sender:  "Acme Corp <recruiting@acme.com>",
		Body:    "We would like to invite you for an interview at Acme Corp.",
		Date:    time.Now(),
	}

	result, err := svc.ProcessEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, StageInterviewInvited, result.Classification.Stage)
	require.NotNil(t, result.Match.Job)
	assert.Equal(t, "j1", result.Match.Job.ID)
	assert.Contains(t, []Action{ActionUpdateStatus, ActionAddToTimeline}, result.Action)
}

func TestProcessEmailsBatch(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, nil, 0)

	emails := []EmailRecord{
		{ID: "e1", Subject: "Thank you for your application", Sender: "jobs@acme.com",
			Body: "Thank you for your application.", Date: time.Now()},
		{ID: "e2", Subject: "hello", Sender: "someone@example.com", Date: time.Now()},
		{ID: "e3", Subject: "Your application status", Sender: "no-reply@globex.com",
			Body: "Unfortunately, we have decided to move forward with another candidate.",
			Date: time.Now()},
	}

	results, err := svc.ProcessEmails(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Results are positionally aligned with the input regardless of worker
	// scheduling.
	assert.Equal(t, "e1", results[0].Email.ID)
	assert.Equal(t, "e2", results[1].Email.ID)
	assert.Equal(t, "e3", results[2].Email.ID)

	assert.Equal(t, ActionCreateJob, results[0].Action)
	assert.Equal(t, DefaultStage, results[1].Classification.Stage)
	assert.Equal(t, ActionIgnore, results[1].Action)
	assert.Equal(t, StageRejected, results[2].Classification.Stage)

	// One batch, one run id.
	assert.Equal(t, results[0].RunID, results[1].RunID)
	assert.Equal(t, results[1].RunID, results[2].RunID)
}

func TestProcessEmailsEmptyBatch(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil, 0)
	results, err := svc.ProcessEmails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcessEmailsRepoError(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("store down")}
	svc := newTestService(t, repo, nil, 0)
	_, err := svc.ProcessEmails(context.Background(), []EmailRecord{{ID: "e1"}})
	assert.Error(t, err)
}

func TestSuggesterConsultedOnlyOnLowConfidence(t *testing.T) {
	sugg := &stubSuggester{suggestion: StageSuggestion{
		Stage: StageUnderReview, Confidence: 0.7, Model: "stub",
	}}
	svc := newTestService(t, &stubRepo{}, sugg, 0.3)

	// No phrase fires, so confidence is zero and the suggester is asked.
	result, err := svc.ProcessEmail(context.Background(), EmailRecord{
		ID: "e1", Subject: "hello", Sender: "x@example.com", Date: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, sugg.called)
	require.NotNil(t, result.Advisory)
	assert.Equal(t, StageUnderReview, result.Advisory.Stage)

	// The advisory never overrides the rule-based classification.
	assert.Equal(t, DefaultStage, result.Classification.Stage)
	assert.Zero(t, result.Classification.Confidence)
}

func TestSuggesterSkippedOnConfidentClassification(t *testing.T) {
	sugg := &stubSuggester{}
	svc := newTestService(t, &stubRepo{}, sugg, 0.3)

	result, err := svc.ProcessEmail(context.Background(), EmailRecord{
		ID:      "e1",
		Subject: "Offer of employment",
		Sender:  "hr@acme.com",
		Body:    "We are pleased to offer you the role.",
		Date:    time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, sugg.called)
	assert.Nil(t, result.Advisory)
}

func TestSuggesterFailureIsNonFatal(t *testing.T) {
	sugg := &stubSuggester{err: errors.New("model unavailable")}
	svc := newTestService(t, &stubRepo{}, sugg, 0.3)

	result, err := svc.ProcessEmail(context.Background(), EmailRecord{
		ID: "e1", Subject: "hello", Sender: "x@example.com", Date: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, sugg.called)
	assert.Nil(t, result.Advisory)
}

func TestTimelineForJob(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{
		jobs: []JobRecord{{ID: "j1", Company: "Acme", Status: StatusApplied}},
		history: map[string][]ClassifiedEmail{
			"j1": {
				{EmailID: "e1", Date: now.AddDate(0, 0, -5),
					Classification: Classification{Stage: StageApplicationReceived, Confidence: 0.9}},
				{EmailID: "e2", Date: now.AddDate(0, 0, -1),
					Classification: Classification{Stage: StageInterviewInvited, Confidence: 0.85}},
			},
		},
	}
	svc := newTestService(t, repo, nil, 0)

	tl, err := svc.TimelineForJob(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, StageInterviewInvited, tl.CurrentStage)
	assert.Len(t, tl.Entries, 2)

	_, err = svc.TimelineForJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestAlerts(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{
		jobs: []JobRecord{
			{ID: "j1", Company: "Acme", Status: StatusInterview},
			{ID: "j2", Company: "Globex", Status: StatusApplied},
		},
		history: map[string][]ClassifiedEmail{
			"j1": {{EmailID: "e1", Date: now.AddDate(0, 0, -4),
				Classification: Classification{Stage: StageInterviewCompleted, Confidence: 0.9}}},
			// j2 has no history, so it contributes no alert.
		},
	}
	svc := newTestService(t, repo, nil, 0)

	alerts, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "j1", alerts[0].JobID)
	assert.Equal(t, AlertThankYouNote, alerts[0].Type)
}

func TestNewJobDraft(t *testing.T) {
	company := "Acme Corp"
	position := "Software Engineer"
	email := EmailRecord{
		Sender: "Hooli Recruiting <jobs@hooli.com>",
		Date:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	draft := NewJobDraft(email, Classification{
		Entities: Entities{Company: &company, Position: &position},
	})
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "Acme Corp", draft.Company)
	assert.Equal(t, "Software Engineer", draft.Position)
	assert.Equal(t, "email", draft.Platform)
	assert.Equal(t, StatusApplied, draft.Status)
	assert.Equal(t, email.Date, draft.AppliedAt)

	// Without an extracted company the sender display name fills in.
	draft = NewJobDraft(email, Classification{})
	assert.Equal(t, "Hooli Recruiting", draft.Company)
	assert.Empty(t, draft.Position)
}

func TestSenderCompany(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"Stripe Recruiting <jobs@stripe.com>", "Stripe Recruiting"},
		{"jobs@stripe.com", "stripe"},
		{"no-reply@mail.greenhouse.io", "mail"},
		{"not-an-address", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SenderCompany(tt.sender), "sender %q", tt.sender)
	}
}
