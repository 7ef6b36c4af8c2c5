package core

import (
	"strings"
	"time"
)

// Factor weights for the composite match score. They sum to 1.0 when every
// factor is applicable; the composite divides by the weights actually
// applied, so a missing factor degrades gracefully instead of dragging the
// score down.
const (
	companyWeight     = 0.4
	positionWeight    = 0.3
	dateWeight        = 0.2
	progressionWeight = 0.1

	// MatchThreshold is the composite score a job must exceed to be
	// accepted as a match.
	MatchThreshold = 0.6

	companyContainScore  = 0.85
	positionContainScore = 0.8
)

// Matcher scores (email, job) pairs and selects the best match above the
// acceptance threshold. It holds no state and is safe for concurrent use.
// Results are computed fresh per call; job state may change between calls,
// so nothing is cached.
type Matcher struct{}

// NewMatcher creates a job matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match scores every job against the classification and returns the best
// job above the threshold. When no job clears it, Job is nil and Confidence
// still carries the highest score seen, for diagnostics.
//
// fallbackCompany is the company guess derived from the sender when entity
// extraction found none; emailDate is the email's timestamp.
func (m *Matcher) Match(cls Classification, fallbackCompany string, emailDate time.Time, jobs []JobRecord) MatchResult {
	emailCompany := fallbackCompany
	if cls.Entities.Company != nil {
		emailCompany = *cls.Entities.Company
	}

	var best *JobRecord
	bestScore := 0.0
	for i := range jobs {
		score := m.score(cls, emailCompany, emailDate, &jobs[i])
		// Strict comparison keeps the first job on ties.
		if score > bestScore {
			bestScore = score
			best = &jobs[i]
		}
	}

	if best != nil && bestScore > MatchThreshold {
		return MatchResult{Job: best, Confidence: bestScore}
	}
	return MatchResult{Job: nil, Confidence: bestScore}
}

func (m *Matcher) score(cls Classification, emailCompany string, emailDate time.Time, job *JobRecord) float64 {
	total := 0.0
	applied := 0.0

	if emailCompany != "" {
		total += companySimilarity(emailCompany, job.Company) * companyWeight
		applied += companyWeight
	}
	if cls.Entities.Position != nil {
		total += positionSimilarity(*cls.Entities.Position, job.Position) * positionWeight
		applied += positionWeight
	}
	if !emailDate.IsZero() && !job.AppliedAt.IsZero() {
		total += dateProximity(emailDate, job.AppliedAt) * dateWeight
		applied += dateWeight
	}
	total += progressionPlausibility(cls.Stage, job.Status) * progressionWeight
	applied += progressionWeight

	if applied == 0 {
		return 0
	}
	return total / applied
}

// companySimilarity compares normalized company names: exact match scores
// 1.0, containment either way 0.85, otherwise the word overlap ratio.
func companySimilarity(a, b string) float64 {
	na := NormalizeCompany(a)
	nb := NormalizeCompany(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return companyContainScore
	}
	return wordOverlap(na, nb)
}

// positionSimilarity compares titles with seniority qualifiers stripped.
func positionSimilarity(a, b string) float64 {
	na := NormalizePosition(a)
	nb := NormalizePosition(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return positionContainScore
	}
	return wordOverlap(na, nb)
}

// dateProximity scores how plausibly the email follows the application
// date. Emails that predate the application score zero.
func dateProximity(emailDate, appliedAt time.Time) float64 {
	days := emailDate.Sub(appliedAt).Hours() / 24
	switch {
	case days < 0:
		return 0
	case days <= 30:
		return 1.0
	case days <= 90:
		return 0.7
	case days <= 180:
		return 0.4
	default:
		return 0.1
	}
}

// progressionPlausibility scores whether the detected stage makes sense
// given the job's current status: at or beyond is fully plausible, exactly
// one step behind is a common out-of-order delivery, anything else is
// suspect.
func progressionPlausibility(stage Stage, status JobStatus) float64 {
	emailRank := stage.Status().Rank()
	jobRank := status.Rank()
	switch {
	case emailRank >= jobRank:
		return 1.0
	case jobRank-emailRank == 1:
		return 0.7
	default:
		return 0.3
	}
}
