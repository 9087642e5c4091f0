package resolver

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
)

const (
	similarityThreshold = 0.70
	keywordThreshold    = 0.50
	maxKeywords         = 5
)

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// uuidToken returns the first UUID-shaped substring of name, or "" when the
// name carries none.
func uuidToken(name string) string {
	m := uuidPattern.FindString(name)
	if m == "" {
		return ""
	}
	if _, err := uuid.Parse(m); err != nil {
		return ""
	}
	return m
}

// normalizeName lowercases and strips everything but letters and digits, so
// "Term_Sheet-v2.PDF" and "term sheet v2.pdf" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// similarityRatio scores two normalized names in [0, 1] by edit distance:
// (maxLen - levenshtein) / maxLen.
func similarityRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-d) / float64(maxLen)
}

// keywordSet tokenizes a name into lowercase words longer than two
// characters, capped at maxKeywords.
func keywordSet(name string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, maxKeywords)
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 2 {
			continue
		}
		if _, ok := set[f]; ok {
			continue
		}
		set[f] = struct{}{}
		if len(set) == maxKeywords {
			break
		}
	}
	return set
}

// jaccard is |intersection| / |union| of two keyword sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
