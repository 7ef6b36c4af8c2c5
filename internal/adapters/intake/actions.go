package intake

import (
	"context"
	"fmt"

	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

// ApplyAction mutates the job repository according to a resolved triage
// result. This is the state-owning side of the read-then-propose boundary:
// the core only ever proposes, intake applies.
func ApplyAction(ctx context.Context, repo core.JobRepository, result *core.EmailJobMatch, logger *zap.Logger) error {
	entry := core.ClassifiedEmail{
		EmailID:        result.Email.ID,
		Classification: result.Classification,
		Date:           result.Email.Date,
	}

	switch result.Action {
	case core.ActionUpdateStatus:
		job := result.Match.Job
		newStatus := result.Classification.Stage.Status()
		if err := repo.UpdateStatus(ctx, job.ID, newStatus); err != nil {
			return fmt.Errorf("failed to update job %s status: %w", job.ID, err)
		}
		if err := repo.AppendEmail(ctx, job.ID, entry); err != nil {
			return fmt.Errorf("failed to append email to job %s: %w", job.ID, err)
		}
		logger.Info("Updated job status",
			zap.String("job_id", job.ID),
			zap.String("status", string(newStatus)),
			zap.String("email_id", result.Email.ID))

	case core.ActionAddToTimeline:
		job := result.Match.Job
		if err := repo.AppendEmail(ctx, job.ID, entry); err != nil {
			return fmt.Errorf("failed to append email to job %s: %w", job.ID, err)
		}
		logger.Info("Added email to job timeline",
			zap.String("job_id", job.ID),
			zap.String("stage", string(result.Classification.Stage)),
			zap.String("email_id", result.Email.ID))

	case core.ActionCreateJob:
		draft := core.NewJobDraft(result.Email, result.Classification)
		if err := repo.SaveJob(ctx, &draft); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		if err := repo.AppendEmail(ctx, draft.ID, entry); err != nil {
			return fmt.Errorf("failed to append email to job %s: %w", draft.ID, err)
		}
		logger.Info("Created job from email",
			zap.String("job_id", draft.ID),
			zap.String("company", draft.Company),
			zap.String("email_id", result.Email.ID))

	case core.ActionIgnore:
		// Nothing to apply.
	}
	return nil
}
