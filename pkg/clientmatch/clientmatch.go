// Package clientmatch ranks known clients against a typed query so forms can offer
// suggestions while the user types a client name or phone number.
package clientmatch

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match weights. A candidate scores the highest weight of any rule it satisfies.
const (
	WeightExact     = 1.0
	WeightPrefix    = 0.9
	WeightPhone     = 0.85
	WeightSubstring = 0.75
	WeightTokens    = 0.7
	WeightFuzzy     = 0.6 // Multiplied by the edit-distance similarity

	// Threshold is the lowest score Suggest returns
	Threshold = 0.45

	minPhoneDigits = 4
)

// Client is a known client
type Client struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Phone string `yaml:"phone" json:"phone"`
	Email string `yaml:"email" json:"email"`
}

// Match is a scored suggestion
type Match struct {
	Client Client
	Score  float64
}

// Normalize folds case, strips diacritics (including Arabic harakat) and collapses whitespace
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// Score rates how well c matches query, in [0, 1]
func Score(c Client, query string) float64 {
	q := Normalize(query)
	if q == "" {
		return 0
	}
	name := Normalize(c.Name)

	var score float64
	switch {
	case name == "":
	case name == q:
		score = WeightExact
	case strings.HasPrefix(name, q):
		score = WeightPrefix
	case strings.Contains(name, q):
		score = WeightSubstring
	case tokensPrefix(strings.Fields(name), strings.Fields(q)):
		score = WeightTokens
	}

	if qd := digits(query); len(qd) >= minPhoneDigits && strings.Contains(digits(c.Phone), qd) {
		score = max(score, WeightPhone)
	}
	if score < WeightFuzzy && name != "" {
		score = max(score, similarity(name, q)*WeightFuzzy)
	}
	return score
}

// Suggest returns the clients scoring at least Threshold, best first and then by name.
// A limit of zero or less returns every match.
func Suggest(clients []Client, query string, limit int) []Match {
	var matches []Match
	for _, c := range clients {
		if s := Score(c, query); s >= Threshold {
			matches = append(matches, Match{Client: c, Score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return Normalize(matches[i].Client.Name) < Normalize(matches[j].Client.Name)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// tokensPrefix reports whether every query token is a prefix of some name token
func tokensPrefix(name, query []string) bool {
	if len(query) == 0 {
		return false
	}
	for _, q := range query {
		found := false
		for _, n := range name {
			if strings.HasPrefix(n, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if unicode.IsDigit(r) {
			// Arabic-Indic and other decimal digits
			b.WriteRune('0' + r - digitZero(r))
		}
	}
	return b.String()
}

// digitZero returns the zero of the decimal digit block r belongs to
func digitZero(r rune) rune {
	for z := r; z > r-10; z-- {
		if !unicode.IsDigit(z - 1) {
			return z
		}
	}
	return r
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over runes
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	n := max(len(ra), len(rb))
	if n == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(n)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
