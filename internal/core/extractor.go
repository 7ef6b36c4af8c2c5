package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Extractor pulls company, position and date mentions out of email text with
// pattern heuristics. Extraction is best effort: a field that cannot be
// found is left nil, never set to an empty value.
type Extractor struct {
	companyPatterns  []*regexp.Regexp
	positionPatterns []*regexp.Regexp
	datePatterns     []*regexp.Regexp
}

// capitalized phrase: one or more capitalized words, allowing company-ish
// characters inside a word.
const capPhrase = `([A-Z][A-Za-z0-9&.'-]*(?:\s+[A-Z][A-Za-z0-9&.'-]*)*)`

// companyStopwords are capitalized words that open sentences far more often
// than they name a company.
var companyStopwords = map[string]struct{}{
	"the": {}, "we": {}, "our": {}, "your": {}, "you": {},
	"this": {}, "thank": {}, "thanks": {}, "please": {}, "best": {},
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// NewExtractor compiles the extraction patterns once.
func NewExtractor() *Extractor {
	return &Extractor{
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\bat\s+` + capPhrase),
			regexp.MustCompile(`\bfrom\s+` + capPhrase),
			regexp.MustCompile(capPhrase + `\s+[Tt]eam\b`),
			regexp.MustCompile(capPhrase + `\s+[Cc]areers\b`),
		},
		positionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bfor the\s+(.{2,60}?)\s+position\b`),
			regexp.MustCompile(`(?i)\bfor the\s+(.{2,60}?)\s+role\b`),
			regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z /+-]{1,60}?)\s+position at\b`),
			regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z /+-]{1,60}?)\s+role at\b`),
		},
		datePatterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
			regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`),
			regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		},
	}
}

// Extract applies the heuristics to subject first, then body; the first
// match wins per field.
func (e *Extractor) Extract(subject, body string) Entities {
	var entities Entities
	entities.Company = e.extractCompany(subject, body)
	entities.Position = e.extractPosition(subject, body)
	entities.Date = e.extractDate(subject, body)
	return entities
}

func (e *Extractor) extractCompany(subject, body string) *string {
	for _, text := range []string{subject, body} {
		for _, re := range e.companyPatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				// The word class admits inner punctuation ("O'Brien & Co"),
				// so sentence-final punctuation must be trimmed off.
				candidate := strings.Trim(strings.TrimSpace(m[1]), ".,")
				if candidate == "" {
					continue
				}
				words := strings.Fields(candidate)
				if len(words) == 1 {
					if _, stop := companyStopwords[strings.ToLower(words[0])]; stop {
						continue
					}
				}
				return &candidate
			}
		}
	}
	return nil
}

func (e *Extractor) extractPosition(subject, body string) *string {
	for _, text := range []string{subject, body} {
		for _, re := range e.positionPatterns {
			if m := re.FindStringSubmatch(text); m != nil {
				candidate := strings.TrimSpace(m[1])
				if candidate != "" {
					return &candidate
				}
			}
		}
	}
	return nil
}

func (e *Extractor) extractDate(subject, body string) *time.Time {
	for _, text := range []string{subject, body} {
		for i, re := range e.datePatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				var d time.Time
				var ok bool
				if i < 2 {
					d, ok = parseNumericDate(m[1], m[2], m[3])
				} else {
					d, ok = parseMonthDate(m[1], m[2], m[3])
				}
				// Invalid calendar dates are discarded, not defaulted.
				if ok {
					return &d
				}
			}
		}
	}
	return nil
}

// parseNumericDate interprets MM/DD/YYYY (or MM-DD-YYYY) and rejects
// values that do not survive a calendar round trip.
func parseNumericDate(mm, dd, yyyy string) (time.Time, bool) {
	month, _ := strconv.Atoi(mm)
	day, _ := strconv.Atoi(dd)
	year, _ := strconv.Atoi(yyyy)
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Month() != time.Month(month) || d.Day() != day || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}

func parseMonthDate(name, dd, yyyy string) (time.Time, bool) {
	month, ok := monthsByName[strings.ToLower(name)]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(dd)
	year, _ := strconv.Atoi(yyyy)
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}
