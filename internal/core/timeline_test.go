package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimelineEngine(t *testing.T, now time.Time) *TimelineEngine {
	t.Helper()
	e, err := NewTimelineEngine(DefaultPatterns())
	require.NoError(t, err)
	e.now = func() time.Time { return now }
	return e
}

func classifiedAt(emailID string, stage Stage, confidence float64, date time.Time) ClassifiedEmail {
	return ClassifiedEmail{
		EmailID: emailID,
		Date:    date,
		Classification: Classification{
			Stage:      stage,
			Sentiment:  SentimentNeutral,
			Confidence: confidence,
		},
	}
}

func TestBuildTimelineEmptyHistory(t *testing.T) {
	e := newTestTimelineEngine(t, time.Now())

	tl := e.BuildTimeline("j1", nil)
	assert.Equal(t, "j1", tl.JobID)
	assert.Equal(t, DefaultStage, tl.CurrentStage)
	assert.Empty(t, tl.Entries)
	assert.Zero(t, tl.Confidence.Confidence)
	assert.Empty(t, tl.Confidence.Reasoning)
	assert.Empty(t, tl.Confidence.Predictions)
}

func TestBuildTimelineMostRecentWins(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	e := newTestTimelineEngine(t, now)

	// Delivered out of order; the engine must sort by date.
	history := []ClassifiedEmail{
		classifiedAt("e3", StageInterviewInvited, 0.9, now.AddDate(0, 0, -1)),
		classifiedAt("e1", StageApplicationReceived, 0.8, now.AddDate(0, 0, -20)),
		classifiedAt("e2", StageUnderReview, 0.5, now.AddDate(0, 0, -10)),
	}

	tl := e.BuildTimeline("j1", history)
	require.Len(t, tl.Entries, 3)
	assert.Equal(t, "e1", tl.Entries[0].EmailID)
	assert.Equal(t, "e2", tl.Entries[1].EmailID)
	assert.Equal(t, "e3", tl.Entries[2].EmailID)

	assert.Equal(t, StageInterviewInvited, tl.CurrentStage)
	assert.Equal(t, 0.9, tl.Confidence.Confidence)
}

func TestBuildTimelineBackwardsMovementIsNoted(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	e := newTestTimelineEngine(t, now)

	history := []ClassifiedEmail{
		classifiedAt("e1", StageInterviewScheduled, 0.9, now.AddDate(0, 0, -5)),
		classifiedAt("e2", StageUnderReview, 0.6, now.AddDate(0, 0, -1)),
	}

	tl := e.BuildTimeline("j1", history)
	assert.Equal(t, StageUnderReview, tl.CurrentStage)

	var noted bool
	for _, r := range tl.Confidence.Reasoning {
		if r == "stage moved backwards from interview_scheduled to under_review" {
			noted = true
		}
	}
	assert.True(t, noted, "reasoning: %v", tl.Confidence.Reasoning)
}

func TestPredictNextDecay(t *testing.T) {
	e := newTestTimelineEngine(t, time.Now())

	// application_received transitions to under_review with base 0.8.
	tests := []struct {
		name string
		days int
		want float64
	}{
		{"fresh", 0, 0.8},
		{"exactly a week", 7, 0.8},
		{"just past a week", 8, 0.72},
		{"exactly two weeks", 14, 0.72},
		{"stale", 15, 0.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := e.PredictNext(StageApplicationReceived, tt.days)
			require.Len(t, preds, 1)
			assert.Equal(t, StageUnderReview, preds[0].Stage)
			assert.InDelta(t, tt.want, preds[0].Probability, 1e-9)
		})
	}
}

func TestPredictNextTimeframes(t *testing.T) {
	e := newTestTimelineEngine(t, time.Now())

	preds := e.PredictNext(StageShortlisted, 0)
	require.Len(t, preds, 2)
	byStage := map[Stage]StagePrediction{}
	for _, p := range preds {
		byStage[p.Stage] = p
	}
	assert.Equal(t, "3-7 days", byStage[StageInterviewInvited].Timeframe)
	assert.Equal(t, "1-3 days", byStage[StageAssessmentInvited].Timeframe)

	preds = e.PredictNext(StageFinalReview, 0)
	byStage = map[Stage]StagePrediction{}
	for _, p := range preds {
		byStage[p.Stage] = p
	}
	assert.Equal(t, "1-2 weeks", byStage[StageOfferExtended].Timeframe)
	assert.Equal(t, "1-4 weeks", byStage[StageRejected].Timeframe)
}

func TestPredictNextTerminalStage(t *testing.T) {
	e := newTestTimelineEngine(t, time.Now())
	assert.Empty(t, e.PredictNext(StageRejected, 0))
	assert.Empty(t, e.PredictNext(StageOfferAccepted, 3))
}

func TestDeriveAlert(t *testing.T) {
	e := newTestTimelineEngine(t, time.Now())

	tests := []struct {
		name        string
		stage       Stage
		days        int
		wantType    AlertType
		wantUrgency AlertUrgency
		wantNil     bool
	}{
		{name: "interview completed too recent", stage: StageInterviewCompleted, days: 2, wantNil: true},
		{name: "thank-you note due", stage: StageInterviewCompleted, days: 3, wantType: AlertThankYouNote, wantUrgency: UrgencyMedium},
		{name: "thank-you note overdue", stage: StageInterviewCompleted, days: 8, wantType: AlertThankYouNote, wantUrgency: UrgencyHigh},
		{name: "assessment pending", stage: StageAssessmentInvited, days: 2, wantType: AlertCompleteAssessment, wantUrgency: UrgencyMedium},
		{name: "assessment overdue", stage: StageAssessmentInvited, days: 6, wantType: AlertCompleteAssessment, wantUrgency: UrgencyHigh},
		{name: "under review quiet spell", stage: StageUnderReview, days: 14, wantType: AlertStatusInquiry, wantUrgency: UrgencyMedium},
		{name: "under review twenty days is still medium", stage: StageUnderReview, days: 20, wantType: AlertStatusInquiry, wantUrgency: UrgencyMedium},
		{name: "under review long silence", stage: StageUnderReview, days: 22, wantType: AlertStatusInquiry, wantUrgency: UrgencyHigh},
		{name: "shortlisted quiet spell", stage: StageShortlisted, days: 15, wantType: AlertStatusInquiry, wantUrgency: UrgencyMedium},
		{name: "no rule for offer", stage: StageOfferExtended, days: 30, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := e.DeriveAlert("j1", tt.stage, SentimentNeutral, tt.days)
			if tt.wantNil {
				assert.Nil(t, alert)
				return
			}
			require.NotNil(t, alert)
			assert.Equal(t, "j1", alert.JobID)
			assert.Equal(t, tt.wantType, alert.Type)
			assert.Equal(t, tt.wantUrgency, alert.Urgency)
			assert.NotEmpty(t, alert.Message)
		})
	}
}

func TestAlertFor(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	e := newTestTimelineEngine(t, now)

	history := []ClassifiedEmail{
		classifiedAt("e1", StageInterviewCompleted, 0.9, now.AddDate(0, 0, -4)),
	}
	alert := e.AlertFor("j1", history)
	require.NotNil(t, alert)
	assert.Equal(t, AlertThankYouNote, alert.Type)
	assert.Equal(t, UrgencyMedium, alert.Urgency)

	assert.Nil(t, e.AlertFor("j2", nil))
}
