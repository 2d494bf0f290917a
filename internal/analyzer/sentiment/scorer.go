package sentiment

import "strings"

// Scorer scores free text against a Lexicon.
type Scorer interface {
	Score(text string) float64
}

type lexiconScorer struct {
	lexicon *Lexicon
}

// NewScorer returns a Scorer backed by lexicon.
func NewScorer(lexicon *Lexicon) Scorer {
	return &lexiconScorer{lexicon: lexicon}
}

// Score averages the weights of every lexicon term found as a substring of the
// lower-cased text. Each term counts once however often it occurs. Text with no
// matching term scores exactly 0.
func (s *lexiconScorer) Score(text string) float64 {
	lower := strings.ToLower(text)

	var sum float64
	var count int
	for _, e := range s.lexicon.entries {
		if strings.Contains(lower, e.term) {
			sum += e.weight
			count++
		}
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
