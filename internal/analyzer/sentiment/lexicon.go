package sentiment

import (
	"sort"
	"strings"
)

// DefaultTerms is the built-in polarity lexicon.
var DefaultTerms = map[string]float64{
	"bullish": 1.0,
	"bearish": -1.0,
	"buy":     1.0,
	"sell":    -1.0,
	"moon":    1.0,
	"dump":    -1.0,
	"long":    0.8,
	"short":   -0.8,
	"calls":   0.7,
	"puts":    -0.7,
	"tendies": 0.8,
	"rocket":  0.8,
	"yolo":    0.5,
}

type entry struct {
	term   string
	weight float64
}

// Lexicon is an immutable term -> polarity mapping. Safe for concurrent use.
type Lexicon struct {
	entries []entry
}

// NewLexicon copies terms into a lexicon. Terms are lower-cased; an empty or nil
// map yields the default lexicon.
func NewLexicon(terms map[string]float64) *Lexicon {
	if len(terms) == 0 {
		terms = DefaultTerms
	}

	merged := make(map[string]float64, len(terms))
	for term, weight := range terms {
		merged[strings.ToLower(strings.TrimSpace(term))] = weight
	}

	entries := make([]entry, 0, len(merged))
	for term, weight := range merged {
		if term == "" {
			continue
		}
		entries = append(entries, entry{term: term, weight: weight})
	}
	// fixed iteration order keeps the floating point sum reproducible
	sort.Slice(entries, func(i, j int) bool { return entries[i].term < entries[j].term })

	return &Lexicon{entries: entries}
}

// Len returns the number of terms.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Weight returns the polarity of term and whether it is present.
func (l *Lexicon) Weight(term string) (float64, bool) {
	term = strings.ToLower(term)
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].term >= term })
	if i < len(l.entries) && l.entries[i].term == term {
		return l.entries[i].weight, true
	}
	return 0, false
}
