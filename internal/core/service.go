package core

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TriageService is the core pipeline: classify, extract, match, resolve.
// It reads the job repository but never mutates it; the intake surface
// applies whatever action the resolver proposes.
type TriageService struct {
	classifier    *Classifier
	extractor     *Extractor
	matcher       *Matcher
	timeline      *TimelineEngine
	jobs          JobRepository
	suggester     StageSuggester
	logger        *zap.Logger
	workers       int
	escalateBelow float64
}

// NewTriageService creates the triage pipeline. suggester may be nil; it is
// only consulted when rule confidence falls below escalateBelow.
func NewTriageService(
	classifier *Classifier,
	extractor *Extractor,
	matcher *Matcher,
	timeline *TimelineEngine,
	jobs JobRepository,
	suggester StageSuggester,
	logger *zap.Logger,
	workers int,
	escalateBelow float64,
) *TriageService {
	if workers <= 0 {
		workers = 8
	}
	return &TriageService{
		classifier:    classifier,
		extractor:     extractor,
		matcher:       matcher,
		timeline:      timeline,
		jobs:          jobs,
		suggester:     suggester,
		logger:        logger,
		workers:       workers,
		escalateBelow: escalateBelow,
	}
}

// ProcessEmails triages a batch. Emails are independent, so the batch fans
// out across workers; results come back indexed, and callers must not rely
// on any cross-email ordering effect.
func (s *TriageService) ProcessEmails(ctx context.Context, emails []EmailRecord) ([]EmailJobMatch, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	runID := uuid.NewString()
	results := make([]EmailJobMatch, len(emails))

	workers := s.workers
	if workers > len(emails) {
		workers = len(emails)
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = s.triage(ctx, emails[i], jobs, runID)
			}
		}()
	}
	for i := range emails {
		indices <- i
	}
	close(indices)
	wg.Wait()

	s.logger.Info("Triaged email batch",
		zap.String("run_id", runID),
		zap.Int("emails", len(emails)),
		zap.Int("jobs", len(jobs)))
	return results, nil
}

// ProcessEmail triages a single email against the current job list.
func (s *TriageService) ProcessEmail(ctx context.Context, email EmailRecord) (*EmailJobMatch, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	result := s.triage(ctx, email, jobs, uuid.NewString())
	return &result, nil
}

func (s *TriageService) triage(ctx context.Context, email EmailRecord, jobs []JobRecord, runID string) EmailJobMatch {
	body := email.Body
	if body == "" {
		body = email.Snippet
	}

	cls := s.classifier.Classify(email.Subject, body)
	cls.Entities = s.extractor.Extract(email.Subject, body)

	match := s.matcher.Match(cls, SenderCompany(email.Sender), email.Date, jobs)
	action := ResolveAction(cls, match)

	result := EmailJobMatch{
		Email:          email,
		Classification: cls,
		Match:          match,
		Action:         action,
		RunID:          runID,
		ProcessedAt:    time.Now(),
	}

	if s.suggester != nil && cls.Confidence < s.escalateBelow {
		suggestion, err := s.suggester.SuggestStage(ctx, &email)
		if err != nil {
			s.logger.Warn("Stage suggester failed",
				zap.String("email_id", email.ID),
				zap.Error(err))
		} else {
			result.Advisory = suggestion
		}
	}

	s.logger.Debug("Triaged email",
		zap.String("run_id", runID),
		zap.String("email_id", email.ID),
		zap.String("stage", string(cls.Stage)),
		zap.Float64("confidence", cls.Confidence),
		zap.Float64("match_confidence", match.Confidence),
		zap.String("action", string(action)))
	return result
}

// TimelineForJob rebuilds one job's timeline from its classified history.
func (s *TriageService) TimelineForJob(ctx context.Context, jobID string) (JobTimeline, error) {
	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		return JobTimeline{}, fmt.Errorf("failed to load job %s: %w", jobID, err)
	}
	history, err := s.jobs.ListEmailsForJob(ctx, jobID)
	if err != nil {
		return JobTimeline{}, fmt.Errorf("failed to load email history for job %s: %w", jobID, err)
	}
	return s.timeline.BuildTimeline(jobID, history), nil
}

// Alerts derives the proactive follow-up alerts across all tracked jobs.
func (s *TriageService) Alerts(ctx context.Context) ([]Alert, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	var alerts []Alert
	for _, job := range jobs {
		history, err := s.jobs.ListEmailsForJob(ctx, job.ID)
		if err != nil {
			s.logger.Warn("Failed to load email history",
				zap.String("job_id", job.ID),
				zap.Error(err))
			continue
		}
		if alert := s.timeline.AlertFor(job.ID, history); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts, nil
}

// NewJobDraft builds the job record a create_job action proposes. Fields
// the extraction could not fill stay empty for the user to complete.
func NewJobDraft(email EmailRecord, cls Classification) JobRecord {
	draft := JobRecord{
		ID:        uuid.NewString(),
		Platform:  "email",
		AppliedAt: email.Date,
		Status:    StatusApplied,
	}
	if cls.Entities.Company != nil {
		draft.Company = *cls.Entities.Company
	} else {
		draft.Company = SenderCompany(email.Sender)
	}
	if cls.Entities.Position != nil {
		draft.Position = *cls.Entities.Position
	}
	return draft
}

// SenderCompany guesses a company name from an RFC 5322 sender. The display
// name wins ("Stripe Recruiting <jobs@stripe.com>" gives "Stripe
// Recruiting"); otherwise the first label of the domain is used.
func SenderCompany(sender string) string {
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		addr = &mail.Address{Address: sender}
	}
	if addr.Name != "" {
		return addr.Name
	}
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return ""
	}
	domain := parts[1]
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return domain
}
