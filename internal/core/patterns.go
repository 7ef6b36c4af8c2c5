package core

import "fmt"

// StageTransition is a possible next stage with its base probability.
// Probabilities are plausibility scores, not a distribution; they need not
// sum to one.
type StageTransition struct {
	Next        Stage
	Probability float64
}

// StagePattern is the declarative signal table for one pipeline stage.
// Phrases are matched case-insensitively against the email text; the bucket
// with the highest summed score determines the sentiment, and the maximum
// bucket score times Weight is the stage's final score.
type StagePattern struct {
	Stage       Stage
	Weight      float64
	Positive    []string
	Negative    []string
	Neutral     []string
	Transitions []StageTransition
}

// PatternTable is an ordered set of stage patterns. Order matters: ties on
// score keep the first pattern found.
type PatternTable []StagePattern

// Validate checks the table at startup: every pattern references a known
// stage with a weight in (0,1], every transition targets a known stage with
// a probability in [0,1], and no stage appears twice.
func (t PatternTable) Validate() error {
	if err := ValidateStageTables(); err != nil {
		return err
	}
	seen := make(map[Stage]bool, len(t))
	for _, p := range t {
		if !p.Stage.IsValid() {
			return fmt.Errorf("pattern references unknown stage %q", p.Stage)
		}
		if seen[p.Stage] {
			return fmt.Errorf("duplicate pattern for stage %q", p.Stage)
		}
		seen[p.Stage] = true
		if p.Weight <= 0 || p.Weight > 1 {
			return fmt.Errorf("stage %q has weight %v outside (0,1]", p.Stage, p.Weight)
		}
		if len(p.Positive)+len(p.Negative)+len(p.Neutral) == 0 {
			return fmt.Errorf("stage %q has no signal phrases", p.Stage)
		}
		for _, tr := range p.Transitions {
			if !tr.Next.IsValid() {
				return fmt.Errorf("stage %q transition targets unknown stage %q", p.Stage, tr.Next)
			}
			if tr.Probability < 0 || tr.Probability > 1 {
				return fmt.Errorf("stage %q transition to %q has probability %v outside [0,1]", p.Stage, tr.Next, tr.Probability)
			}
		}
	}
	return nil
}

// Find returns the pattern for a stage, or nil if the table has none.
func (t PatternTable) Find(stage Stage) *StagePattern {
	for i := range t {
		if t[i].Stage == stage {
			return &t[i]
		}
	}
	return nil
}

// DefaultPatterns returns the built-in signal table covering all sixteen
// stages. Callers may supply their own table to the classifier instead.
func DefaultPatterns() PatternTable {
	return PatternTable{
		{
			Stage:  StageApplicationSubmitted,
			Weight: 0.85,
			Positive: []string{
				"your application has been submitted",
				"application submitted successfully",
				"we have sent your application",
			},
			Neutral: []string{
				"application submitted",
				"you applied to",
			},
			Transitions: []StageTransition{
				{Next: StageApplicationReceived, Probability: 0.9},
			},
		},
		{
			Stage:  StageApplicationReceived,
			Weight: 0.9,
			Positive: []string{
				"thank you for your application",
				"we have received your application",
				"thank you for applying",
				"thanks for applying",
			},
			Neutral: []string{
				"application received",
				"your application to",
			},
			Transitions: []StageTransition{
				{Next: StageUnderReview, Probability: 0.8},
			},
		},
		{
			Stage:  StageUnderReview,
			Weight: 0.7,
			Positive: []string{
				"your application is being reviewed",
				"currently reviewing your application",
			},
			Neutral: []string{
				"under review",
				"review process",
				"application status",
			},
			Transitions: []StageTransition{
				{Next: StageShortlisted, Probability: 0.4},
				{Next: StageRejected, Probability: 0.3},
			},
		},
		{
			Stage:  StageShortlisted,
			Weight: 0.85,
			Positive: []string{
				"you have been shortlisted",
				"pleased to inform you that you have been shortlisted",
				"made it to the next round",
				"selected for the next stage",
			},
			Neutral: []string{
				"shortlisted candidates",
			},
			Transitions: []StageTransition{
				{Next: StageInterviewInvited, Probability: 0.45},
				{Next: StageAssessmentInvited, Probability: 0.35},
			},
		},
		{
			Stage:  StageAssessmentInvited,
			Weight: 0.9,
			Positive: []string{
				"invite you to complete an assessment",
				"complete the online assessment",
				"coding challenge",
				"take home assignment",
				"technical assessment",
			},
			Neutral: []string{
				"assessment link",
				"online test",
			},
			Transitions: []StageTransition{
				{Next: StageAssessmentCompleted, Probability: 0.8},
			},
		},
		{
			Stage:  StageAssessmentCompleted,
			Weight: 0.85,
			Positive: []string{
				"thank you for completing the assessment",
				"we received your assessment",
				"assessment has been submitted",
			},
			Neutral: []string{
				"assessment completed",
			},
			Transitions: []StageTransition{
				{Next: StageInterviewInvited, Probability: 0.5},
				{Next: StageRejected, Probability: 0.25},
			},
		},
		{
			Stage:  StageInterviewInvited,
			Weight: 0.9,
			Positive: []string{
				"interview invitation",
				"invite you to interview",
				"would like to interview you",
				"like to invite you for an interview",
				"move forward with an interview",
			},
			Neutral: []string{
				"availability for an interview",
				"book a time",
			},
			Transitions: []StageTransition{
				{Next: StageInterviewScheduled, Probability: 0.85},
			},
		},
		{
			Stage:  StageInterviewScheduled,
			Weight: 0.9,
			Positive: []string{
				"your interview is confirmed",
				"interview has been scheduled",
				"interview confirmation",
			},
			Neutral: []string{
				"interview scheduled",
				"calendar invite",
				"meeting link",
			},
			Transitions: []StageTransition{
				{Next: StageInterviewCompleted, Probability: 0.9},
			},
		},
		{
			Stage:  StageInterviewCompleted,
			Weight: 0.85,
			Positive: []string{
				"thank you for taking the time to interview",
				"great speaking with you",
				"thank you for interviewing",
			},
			Neutral: []string{
				"following your interview",
				"after your interview",
			},
			Transitions: []StageTransition{
				{Next: StageFinalReview, Probability: 0.35},
				{Next: StageRejected, Probability: 0.3},
				{Next: StageOfferExtended, Probability: 0.25},
				{Next: StageReferenceCheck, Probability: 0.2},
			},
		},
		{
			Stage:  StageReferenceCheck,
			Weight: 0.85,
			Positive: []string{
				"checking your references",
				"contact your references",
				"reference check",
			},
			Neutral: []string{
				"list of references",
			},
			Transitions: []StageTransition{
				{Next: StageFinalReview, Probability: 0.6},
				{Next: StageOfferExtended, Probability: 0.3},
			},
		},
		{
			Stage:  StageFinalReview,
			Weight: 0.8,
			Positive: []string{
				"final round",
				"final stage of our process",
				"final decision shortly",
			},
			Neutral: []string{
				"final review",
			},
			Transitions: []StageTransition{
				{Next: StageOfferExtended, Probability: 0.5},
				{Next: StageRejected, Probability: 0.35},
			},
		},
		{
			Stage:  StageOfferExtended,
			Weight: 0.95,
			Positive: []string{
				"pleased to offer you",
				"offer of employment",
				"extend an offer",
				"job offer",
				"offer letter",
			},
			Neutral: []string{
				"compensation details",
			},
			Transitions: []StageTransition{
				{Next: StageOfferAccepted, Probability: 0.6},
				{Next: StageOfferDeclined, Probability: 0.2},
			},
		},
		{
			Stage:  StageOfferAccepted,
			Weight: 0.9,
			Positive: []string{
				"accepted the offer",
				"welcome to the team",
				"confirm your start date",
				"onboarding",
			},
		},
		{
			Stage:  StageOfferDeclined,
			Weight: 0.9,
			Neutral: []string{
				"declined the offer",
				"decided to decline",
				"withdraw from the offer",
			},
		},
		{
			Stage:  StageRejected,
			Weight: 0.95,
			Negative: []string{
				"unfortunately",
				"we have decided to move forward with another candidate",
				"regret to inform you",
				"not moving forward with your application",
				"decided not to proceed",
				"position has been filled",
				"pursue other candidates",
				"not been successful",
			},
		},
		{
			Stage:  StageWithdrawn,
			Weight: 0.85,
			Neutral: []string{
				"you have withdrawn your application",
				"application has been withdrawn",
				"withdraw your candidacy",
			},
		},
	}
}

// predictionTimeframes gives the fixed textual window attached to a
// predicted stage.
var predictionTimeframes = map[Stage]string{
	StageInterviewInvited:   "3-7 days",
	StageInterviewScheduled: "3-7 days",
	StageOfferExtended:      "1-2 weeks",
	StageRejected:           "1-4 weeks",
}

const defaultTimeframe = "1-3 days"

// TimeframeFor returns the suggested time window for a predicted stage.
func TimeframeFor(stage Stage) string {
	if tf, ok := predictionTimeframes[stage]; ok {
		return tf
	}
	return defaultTimeframe
}
