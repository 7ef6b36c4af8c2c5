package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFolder strips combining marks so "Zürich Labs" and "Zurich Labs"
// normalize to the same key.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return out
}

// companySuffixes are legal-form words dropped during company name
// normalization.
var companySuffixes = map[string]struct{}{
	"inc":     {},
	"ltd":     {},
	"llc":     {},
	"corp":    {},
	"company": {},
	"co":      {},
}

// seniorityQualifiers are level words dropped during position
// normalization so "Senior Backend Engineer" matches "Backend Engineer".
var seniorityQualifiers = map[string]struct{}{
	"senior":    {},
	"junior":    {},
	"sr":        {},
	"jr":        {},
	"lead":      {},
	"principal": {},
}

// NormalizeCompany lowercases a company name, folds diacritics, strips
// punctuation and drops legal suffixes. Returns "" when nothing usable
// remains.
func NormalizeCompany(name string) string {
	return normalizeName(name, companySuffixes)
}

// NormalizePosition lowercases a position title, folds diacritics, strips
// punctuation and drops seniority qualifiers.
func NormalizePosition(title string) string {
	return normalizeName(title, seniorityQualifiers)
}

func normalizeName(s string, drop map[string]struct{}) string {
	folded := strings.ToLower(foldDiacritics(s))
	var kept []string
	for _, w := range tokenize(folded) {
		if _, ok := drop[w]; ok {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// wordOverlap is the fraction of words shared between two normalized
// names, measured against the longer word list.
func wordOverlap(a, b string) float64 {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(aw))
	for _, w := range aw {
		set[w] = struct{}{}
	}
	shared := 0
	for _, w := range bw {
		if _, ok := set[w]; ok {
			shared++
		}
	}
	denom := len(aw)
	if len(bw) > denom {
		denom = len(bw)
	}
	return float64(shared) / float64(denom)
}
