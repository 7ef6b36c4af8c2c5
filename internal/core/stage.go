package core

import "fmt"

// Stage is a discrete position in the hiring pipeline.
type Stage string

const (
	StageApplicationSubmitted Stage = "application_submitted"
	StageApplicationReceived  Stage = "application_received"
	StageUnderReview          Stage = "under_review"
	StageShortlisted          Stage = "shortlisted"
	StageAssessmentInvited    Stage = "assessment_invited"
	StageAssessmentCompleted  Stage = "assessment_completed"
	StageInterviewInvited     Stage = "interview_invited"
	StageInterviewScheduled   Stage = "interview_scheduled"
	StageInterviewCompleted   Stage = "interview_completed"
	StageReferenceCheck       Stage = "reference_check"
	StageFinalReview          Stage = "final_review"
	StageOfferExtended        Stage = "offer_extended"
	StageOfferAccepted        Stage = "offer_accepted"
	StageOfferDeclined        Stage = "offer_declined"
	StageRejected             Stage = "rejected"
	StageWithdrawn            Stage = "withdrawn"
)

// DefaultStage is the classification fallback when no pattern fires.
// It deliberately conflates "no signal" with "actively under review"; the
// resolver only acts on application_received, so the default can never
// trigger a job mutation on its own.
const DefaultStage = StageUnderReview

// AllStages lists every pipeline stage in typical progression order.
var AllStages = []Stage{
	StageApplicationSubmitted,
	StageApplicationReceived,
	StageUnderReview,
	StageShortlisted,
	StageAssessmentInvited,
	StageAssessmentCompleted,
	StageInterviewInvited,
	StageInterviewScheduled,
	StageInterviewCompleted,
	StageReferenceCheck,
	StageFinalReview,
	StageOfferExtended,
	StageOfferAccepted,
	StageOfferDeclined,
	StageRejected,
	StageWithdrawn,
}

// stageOrdinals assigns every stage its position in the progression order.
var stageOrdinals = func() map[Stage]int {
	m := make(map[Stage]int, len(AllStages))
	for i, s := range AllStages {
		m[s] = i
	}
	return m
}()

// IsValid reports whether s is one of the fixed pipeline stages.
func (s Stage) IsValid() bool {
	_, ok := stageOrdinals[s]
	return ok
}

// Ordinal returns the stage's position in the progression order.
func (s Stage) Ordinal() int {
	return stageOrdinals[s]
}

// JobStatus is the coarse status tracked on a job record.
type JobStatus string

const (
	StatusApplied   JobStatus = "applied"
	StatusTest      JobStatus = "test"
	StatusInterview JobStatus = "interview"
	StatusOffer     JobStatus = "offer"
	StatusRejected  JobStatus = "rejected"
)

// stageStatuses maps every pipeline stage onto the coarse job status.
var stageStatuses = map[Stage]JobStatus{
	StageApplicationSubmitted: StatusApplied,
	StageApplicationReceived:  StatusApplied,
	StageUnderReview:          StatusApplied,
	StageShortlisted:          StatusApplied,
	StageAssessmentInvited:    StatusTest,
	StageAssessmentCompleted:  StatusTest,
	StageInterviewInvited:     StatusInterview,
	StageInterviewScheduled:   StatusInterview,
	StageInterviewCompleted:   StatusInterview,
	StageReferenceCheck:       StatusInterview,
	StageFinalReview:          StatusInterview,
	StageOfferExtended:        StatusOffer,
	StageOfferAccepted:        StatusOffer,
	StageOfferDeclined:        StatusOffer,
	StageRejected:             StatusRejected,
	StageWithdrawn:            StatusRejected,
}

// Status returns the coarse job status a stage corresponds to.
func (s Stage) Status() JobStatus {
	if st, ok := stageStatuses[s]; ok {
		return st
	}
	return StatusApplied
}

// statusRanks orders coarse statuses for progression plausibility.
// Offer and rejected are both terminal and share the top rank.
var statusRanks = map[JobStatus]int{
	StatusApplied:   0,
	StatusTest:      1,
	StatusInterview: 2,
	StatusOffer:     3,
	StatusRejected:  3,
}

// Rank returns the status position in the progression ranking.
func (s JobStatus) Rank() int {
	return statusRanks[s]
}

// IsValid reports whether s is a known job status.
func (s JobStatus) IsValid() bool {
	_, ok := statusRanks[s]
	return ok
}

// ValidateStageTables checks the static stage tables for internal
// consistency. It is called from pattern validation at startup so a typo in
// a table surfaces immediately rather than as a silent zero score.
func ValidateStageTables() error {
	for _, s := range AllStages {
		if _, ok := stageStatuses[s]; !ok {
			return fmt.Errorf("stage %q has no job status mapping", s)
		}
	}
	if len(stageOrdinals) != len(AllStages) {
		return fmt.Errorf("duplicate stage in progression order")
	}
	return nil
}

// Sentiment expresses the tone of a classified email.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Action is the mutation the resolver proposes for a classified email.
type Action string

const (
	ActionUpdateStatus  Action = "update_status"
	ActionCreateJob     Action = "create_job"
	ActionAddToTimeline Action = "add_to_timeline"
	ActionIgnore        Action = "ignore"
)
