package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Prediction decay and alert boundaries, in days. Exact values preserved
// from the decision tables.
const (
	staleDecayAfter = 14
	softDecayAfter  = 7

	staleDecayFactor = 0.7
	softDecayFactor  = 0.9

	thankYouAfter     = 3
	thankYouHighAfter = 7

	assessmentAfter     = 2
	assessmentHighAfter = 5

	inquiryAfter     = 14
	inquiryHighAfter = 21
)

// TimelineEngine folds a job's classified email history into a stage
// timeline with next-stage predictions and proactive follow-up alerts.
type TimelineEngine struct {
	patterns PatternTable
	now      func() time.Time
}

// NewTimelineEngine creates a timeline engine over the given pattern table,
// whose transition entries drive the predictions.
func NewTimelineEngine(patterns PatternTable) (*TimelineEngine, error) {
	if err := patterns.Validate(); err != nil {
		return nil, err
	}
	return &TimelineEngine{patterns: patterns, now: time.Now}, nil
}

// BuildTimeline derives the timeline for one job from its classified
// emails. An empty history yields a well-formed empty timeline: default
// stage, confidence zero, no reasoning, no predictions.
func (e *TimelineEngine) BuildTimeline(jobID string, history []ClassifiedEmail) JobTimeline {
	if len(history) == 0 {
		return JobTimeline{
			JobID:        jobID,
			CurrentStage: DefaultStage,
			Confidence: TimelineConfidence{
				Stage:      DefaultStage,
				Confidence: 0,
			},
		}
	}

	sorted := make([]ClassifiedEmail, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	entries := make([]TimelineEntry, 0, len(sorted))
	for _, ce := range sorted {
		entries = append(entries, TimelineEntry{
			Stage:      ce.Classification.Stage,
			Date:       ce.Date,
			EmailID:    ce.EmailID,
			Confidence: ce.Classification.Confidence,
			Sentiment:  ce.Classification.Sentiment,
		})
	}

	// Most recent wins: no smoothing across history.
	last := sorted[len(sorted)-1]
	current := last.Classification.Stage
	daysSince := daysBetween(last.Date, e.now())

	return JobTimeline{
		JobID:        jobID,
		Entries:      entries,
		CurrentStage: current,
		Confidence: TimelineConfidence{
			Stage:       current,
			Confidence:  last.Classification.Confidence,
			Reasoning:   e.reasoning(sorted),
			Predictions: e.PredictNext(current, daysSince),
		},
	}
}

// reasoning builds the human-readable trace for the latest stage: matched
// phrases, elapsed time since the previous observation, and any backwards
// stage movement.
func (e *TimelineEngine) reasoning(sorted []ClassifiedEmail) []string {
	var out []string
	last := sorted[len(sorted)-1]
	if kw := last.Classification.Keywords; len(kw) > 0 {
		out = append(out, fmt.Sprintf("matched phrases: %s", strings.Join(kw, ", ")))
	}
	if len(sorted) >= 2 {
		prev := sorted[len(sorted)-2]
		days := daysBetween(prev.Date, last.Date)
		out = append(out, fmt.Sprintf("%d days since previous stage (%s)", days, prev.Classification.Stage))
		if last.Classification.Stage.Ordinal() < prev.Classification.Stage.Ordinal() {
			out = append(out, fmt.Sprintf("stage moved backwards from %s to %s", prev.Classification.Stage, last.Classification.Stage))
		}
	}
	return out
}

// PredictNext returns the probable next stages for the current stage with
// probabilities decayed by how long the job has been silent.
func (e *TimelineEngine) PredictNext(stage Stage, daysSinceLastUpdate int) []StagePrediction {
	pattern := e.patterns.Find(stage)
	if pattern == nil || len(pattern.Transitions) == 0 {
		return nil
	}

	factor := 1.0
	switch {
	case daysSinceLastUpdate > staleDecayAfter:
		factor = staleDecayFactor
	case daysSinceLastUpdate > softDecayAfter:
		factor = softDecayFactor
	}

	predictions := make([]StagePrediction, 0, len(pattern.Transitions))
	for _, tr := range pattern.Transitions {
		predictions = append(predictions, StagePrediction{
			Stage:       tr.Next,
			Probability: clamp01(tr.Probability * factor),
			Timeframe:   TimeframeFor(tr.Next),
		})
	}
	return predictions
}

// DeriveAlert maps (current stage, sentiment, days since last email) to a
// proactive follow-up suggestion, or nil when no rule applies.
func (e *TimelineEngine) DeriveAlert(jobID string, stage Stage, sentiment Sentiment, daysSinceLastEmail int) *Alert {
	switch {
	case stage == StageInterviewCompleted && daysSinceLastEmail >= thankYouAfter:
		return &Alert{
			JobID:   jobID,
			Type:    AlertThankYouNote,
			Message: "Send a thank-you note for your interview",
			Urgency: urgencyAfter(daysSinceLastEmail, thankYouHighAfter),
		}
	case stage == StageAssessmentInvited && daysSinceLastEmail >= assessmentAfter:
		return &Alert{
			JobID:   jobID,
			Type:    AlertCompleteAssessment,
			Message: "Complete the pending assessment",
			Urgency: urgencyAfter(daysSinceLastEmail, assessmentHighAfter),
		}
	case (stage == StageUnderReview || stage == StageShortlisted) && daysSinceLastEmail >= inquiryAfter:
		return &Alert{
			JobID:   jobID,
			Type:    AlertStatusInquiry,
			Message: "Ask for a status update on your application",
			Urgency: urgencyAfter(daysSinceLastEmail, inquiryHighAfter),
		}
	default:
		return nil
	}
}

// AlertFor derives the proactive alert for one job straight from its
// classified email history. Jobs with no history produce no alert.
func (e *TimelineEngine) AlertFor(jobID string, history []ClassifiedEmail) *Alert {
	if len(history) == 0 {
		return nil
	}
	tl := e.BuildTimeline(jobID, history)
	last := tl.Entries[len(tl.Entries)-1]
	days := daysBetween(last.Date, e.now())
	return e.DeriveAlert(jobID, tl.CurrentStage, last.Sentiment, days)
}

func urgencyAfter(days, highAfter int) AlertUrgency {
	if days > highAfter {
		return UrgencyHigh
	}
	return UrgencyMedium
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
