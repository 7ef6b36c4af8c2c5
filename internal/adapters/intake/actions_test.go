package intake

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/job-mail-triage/internal/adapters/jobstore"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplyActionUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := jobstore.NewMemoryStore(zap.NewNop())
	job := &core.JobRecord{ID: "j1", Company: "Acme", Status: core.StatusApplied}
	require.NoError(t, store.SaveJob(ctx, job))

	result := &core.EmailJobMatch{
		Email: core.EmailRecord{ID: "e1", Date: time.Now()},
		Classification: core.Classification{
			Stage:      core.StageInterviewInvited,
			Confidence: 0.9,
		},
		Match:  core.MatchResult{Job: job, Confidence: 0.65},
		Action: core.ActionUpdateStatus,
	}
	require.NoError(t, ApplyAction(ctx, store, result, zap.NewNop()))

	updated, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusInterview, updated.Status)

	history, err := store.ListEmailsForJob(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "e1", history[0].EmailID)
}

func TestApplyActionAddToTimeline(t *testing.T) {
	ctx := context.Background()
	store := jobstore.NewMemoryStore(zap.NewNop())
	job := &core.JobRecord{ID: "j1", Company: "Acme", Status: core.StatusInterview}
	require.NoError(t, store.SaveJob(ctx, job))

	result := &core.EmailJobMatch{
		Email: core.EmailRecord{ID: "e1", Date: time.Now()},
		Classification: core.Classification{
			Stage:      core.StageInterviewScheduled,
			Confidence: 0.9,
		},
		Match:  core.MatchResult{Job: job, Confidence: 0.8},
		Action: core.ActionAddToTimeline,
	}
	require.NoError(t, ApplyAction(ctx, store, result, zap.NewNop()))

	// Timeline evidence is appended without touching the coarse status.
	unchanged, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusInterview, unchanged.Status)

	history, err := store.ListEmailsForJob(ctx, "j1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestApplyActionCreateJob(t *testing.T) {
	ctx := context.Background()
	store := jobstore.NewMemoryStore(zap.NewNop())

	company := "Acme Corp"
	result := &core.EmailJobMatch{
		Email: core.EmailRecord{
			ID:     "e1",
			Sender: "Acme Recruiting <jobs@acme.com>",
			Date:   time.Now(),
		},
		Classification: core.Classification{
			Stage:      core.StageApplicationReceived,
			Confidence: 0.9,
			Entities:   core.Entities{Company: &company},
		},
		Action: core.ActionCreateJob,
	}
	require.NoError(t, ApplyAction(ctx, store, result, zap.NewNop()))

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme Corp", jobs[0].Company)
	assert.Equal(t, core.StatusApplied, jobs[0].Status)
	assert.Equal(t, "email", jobs[0].Platform)

	history, err := store.ListEmailsForJob(ctx, jobs[0].ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestApplyActionIgnore(t *testing.T) {
	ctx := context.Background()
	store := jobstore.NewMemoryStore(zap.NewNop())

	result := &core.EmailJobMatch{
		Email:  core.EmailRecord{ID: "e1", Date: time.Now()},
		Action: core.ActionIgnore,
	}
	require.NoError(t, ApplyAction(ctx, store, result, zap.NewNop()))

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
