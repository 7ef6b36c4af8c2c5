package core

import (
	"strings"
	"unicode"
)

// Classifier assigns an email to a pipeline stage using a weighted phrase
// table. It is stateless apart from the read-only table, so a single
// instance is safe for concurrent use.
type Classifier struct {
	patterns PatternTable
}

// NewClassifier creates a classifier over the given pattern table.
func NewClassifier(patterns PatternTable) (*Classifier, error) {
	if err := patterns.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{patterns: patterns}, nil
}

// stageScore is the outcome of evaluating one pattern against the text.
type stageScore struct {
	sentiment Sentiment
	raw       float64
	keywords  []string
}

// Classify maps the email text to a stage, sentiment and confidence.
// An empty body is tolerated; the caller decides what text to supply.
// When no phrase in the table fires, the result is the no-evidence default:
// DefaultStage with neutral sentiment and confidence zero.
func (c *Classifier) Classify(subject, body string) Classification {
	text := strings.ToLower(subject + "\n" + body)
	words := tokenSet(text)

	var (
		bestStage Stage
		bestFinal float64
		best      stageScore
	)
	for _, p := range c.patterns {
		score := c.evaluate(text, words, &p)
		final := score.raw * p.Weight
		// Strict comparison keeps the first pattern found on ties.
		if final > bestFinal {
			bestFinal = final
			bestStage = p.Stage
			best = score
		}
	}

	if bestFinal == 0 {
		return Classification{
			Stage:      DefaultStage,
			Sentiment:  SentimentNeutral,
			Confidence: 0,
		}
	}
	return Classification{
		Stage:      bestStage,
		Sentiment:  best.sentiment,
		Confidence: clamp01(bestFinal),
		Keywords:   best.keywords,
	}
}

// evaluate scores one pattern: each sentiment bucket sums its phrase scores,
// the highest bucket wins the sentiment and supplies the raw score.
func (c *Classifier) evaluate(text string, words map[string]struct{}, p *StagePattern) stageScore {
	buckets := []struct {
		sentiment Sentiment
		phrases   []string
	}{
		{SentimentPositive, p.Positive},
		{SentimentNegative, p.Negative},
		{SentimentNeutral, p.Neutral},
	}

	result := stageScore{sentiment: SentimentNeutral}
	var exact []string
	for _, b := range buckets {
		sum := 0.0
		for _, phrase := range b.phrases {
			score := phraseScore(text, words, phrase)
			sum += score
			if score == 1.0 {
				exact = append(exact, phrase)
			}
		}
		if sum > result.raw {
			result.raw = sum
			result.sentiment = b.sentiment
		}
	}
	result.keywords = dedup(exact)
	return result
}

// phraseScore is 1.0 for an exact substring match, otherwise half the
// fraction of the phrase's significant words (three or more characters)
// present in the text.
func phraseScore(text string, words map[string]struct{}, phrase string) float64 {
	if strings.Contains(text, phrase) {
		return 1.0
	}
	significant := significantWords(phrase)
	if len(significant) == 0 {
		return 0
	}
	matched := 0
	for _, w := range significant {
		if _, ok := words[w]; ok {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return float64(matched) / float64(len(significant)) * 0.5
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range tokenize(text) {
		if len(w) >= 3 {
			set[w] = struct{}{}
		}
	}
	return set
}

func significantWords(phrase string) []string {
	var out []string
	for _, w := range tokenize(phrase) {
		if len(w) >= 3 {
			out = append(out, w)
		}
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
