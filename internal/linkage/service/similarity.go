package service

import (
	"fmt"
	"math"

	"github.com/pmezard/go-difflib/difflib"

	"name-linker/internal/linkage/model"
)

// Scorer returns a symmetric similarity in [0..100]; 100 for identical inputs.
type Scorer func(a, b string) int

// NewScorer picks a scorer by its configuration name ("" means ratio).
func NewScorer(kind string) (Scorer, error) {
	switch kind {
	case "", model.ScorerRatio:
		return Ratio, nil
	case model.ScorerTokenSort:
		return TokenSortRatio, nil
	case model.ScorerDamerau:
		return DamerauRatio, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", kind)
	}
}

// Ratio — Ratcliff/Obershelp: 100 * 2*M / (len(a)+len(b)), where M is the
// total size of the matching blocks (longest common block first, then the
// remainders on both sides). Lengths are in code points.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	// block discovery breaks ties by position, so order the pair
	if b < a {
		a, b = b, a
	}
	sa, sb := splitRunes(a), splitRunes(b)
	m := difflib.NewMatcherWithJunk(sa, sb, false, nil)
	matched := 0
	for _, blk := range m.GetMatchingBlocks() {
		matched += blk.Size
	}
	return percent(2*matched, len(sa)+len(sb))
}

// TokenSortRatio — Ratio over alphabetically sorted tokens
// ("Pen Blue" == "Blue Pen").
func TokenSortRatio(a, b string) int {
	return Ratio(tokenSort(a), tokenSort(b))
}

// DamerauRatio — 100 * (1 - OSA distance / max length).
func DamerauRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	d := damerauLevenshtein(a, b)
	return percent(m-d, m)
}

// half-to-even, same as the rounding of the reference scorer
func percent(num, den int) int {
	if den == 0 {
		return 100
	}
	r := float64(num) / float64(den)
	return int(math.RoundToEven(100 * r))
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
