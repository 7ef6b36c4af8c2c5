package core

// Resolver thresholds. The exact values matter for behavioral parity with
// the decision table; change them and downstream state transitions change.
const (
	// matchIgnoreBelow drops weak matches outright.
	matchIgnoreBelow = 0.4
	// timelineAbove attaches strong matches as timeline evidence instead
	// of blindly overwriting status.
	timelineAbove = 0.7
	// updateAbove permits a status update on a moderate match.
	updateAbove = 0.5
	// createAbove is the classification confidence needed to create a new
	// job from an unmatched application confirmation.
	createAbove = 0.6
)

// ResolveAction turns a classification plus match result into the action
// the state-owning collaborator should apply. Rules are evaluated top-down,
// first applicable rule wins.
//
// The matched and unmatched paths are deliberately asymmetric: the first
// three rules gate on match confidence and only apply when a job matched,
// while job creation gates on classification confidence and only applies
// when nothing matched. A weak match therefore falls through to ignore
// rather than spawning a duplicate job.
func ResolveAction(cls Classification, match MatchResult) Action {
	switch {
	case match.Job != nil && match.Confidence < matchIgnoreBelow:
		return ActionIgnore
	case match.Job != nil && match.Confidence > timelineAbove:
		return ActionAddToTimeline
	case match.Job != nil && match.Confidence > updateAbove:
		return ActionUpdateStatus
	case match.Job == nil && cls.Stage == StageApplicationReceived && cls.Confidence > createAbove:
		return ActionCreateJob
	default:
		return ActionIgnore
	}
}
