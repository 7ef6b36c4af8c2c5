package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStoreJobLifecycle(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	job := &core.JobRecord{
		ID:        "j1",
		Company:   "Acme",
		Position:  "Software Engineer",
		Status:    core.StatusApplied,
		AppliedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveJob(ctx, job))

	got, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, *job, *got)

	// The store hands out copies, not aliases.
	got.Company = "mutated"
	again, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Company)

	require.NoError(t, store.UpdateStatus(ctx, "j1", core.StatusInterview))
	updated, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusInterview, updated.Status)

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	_, err := store.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", core.StatusOffer), ErrNotFound)
	assert.ErrorIs(t, store.AppendEmail(ctx, "missing", core.ClassifiedEmail{}), ErrNotFound)
}

func TestMemoryStoreEmailHistory(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.SaveJob(ctx, &core.JobRecord{ID: "j1", Company: "Acme"}))

	first := core.ClassifiedEmail{
		EmailID: "e1",
		Date:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Classification: core.Classification{
			Stage:      core.StageApplicationReceived,
			Confidence: 0.9,
		},
	}
	second := core.ClassifiedEmail{
		EmailID: "e2",
		Date:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		Classification: core.Classification{
			Stage:      core.StageInterviewInvited,
			Confidence: 0.85,
		},
	}
	require.NoError(t, store.AppendEmail(ctx, "j1", first))
	require.NoError(t, store.AppendEmail(ctx, "j1", second))

	history, err := store.ListEmailsForJob(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "e1", history[0].EmailID)
	assert.Equal(t, "e2", history[1].EmailID)

	// Unknown jobs have an empty history, not an error.
	history, err = store.ListEmailsForJob(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.SaveJob(ctx, &core.JobRecord{ID: "j1", Company: "Acme"}))
	require.NoError(t, store.SaveJob(ctx, &core.JobRecord{ID: "j1", Company: "Acme Corp"}))

	got, err := store.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Company)

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
