package similarity

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/abbrev"
)

// LevenshteinCalculator scores by normalized edit distance
type LevenshteinCalculator struct{}

func NewLevenshteinCalculator() *LevenshteinCalculator {
	return &LevenshteinCalculator{}
}

func (c *LevenshteinCalculator) Name() string {
	return TechniqueLevenshtein
}

func (c *LevenshteinCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	s1 := strings.ToLower(text1)
	s2 := strings.ToLower(text2)
	distance := LevenshteinDistance(s1, s2)
	score := LevenshteinRatio(s1, s2)

	confidence := 0.8
	if score > 0.8 {
		confidence = 0.9
	}

	return Result{
		Score:      score,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"distance":   distance,
			"max_length": maxInt(len(s1), len(s2)),
		},
	}
}

// JaroWinklerCalculator scores with a prefix-weighted similarity that favors
// abbreviations sharing a stem with the full word
type JaroWinklerCalculator struct{}

func NewJaroWinklerCalculator() *JaroWinklerCalculator {
	return &JaroWinklerCalculator{}
}

func (c *JaroWinklerCalculator) Name() string {
	return TechniqueJaroWinkler
}

func (c *JaroWinklerCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	s1 := strings.ToLower(text1)
	s2 := strings.ToLower(text2)
	score := JaroWinkler(s1, s2)

	confidence := 0.8
	if score > 0.9 {
		confidence = 0.9
	}

	return Result{
		Score:      score,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"jaro": Jaro(s1, s2),
		},
	}
}

// FuzzyCalculator scores by token-set ratio, ignoring word order and
// duplication
type FuzzyCalculator struct{}

func NewFuzzyCalculator() *FuzzyCalculator {
	return &FuzzyCalculator{}
}

func (c *FuzzyCalculator) Name() string {
	return TechniqueFuzzy
}

func (c *FuzzyCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	score := TokenSetRatio(strings.ToLower(text1), strings.ToLower(text2))

	confidence := 0.8
	if score > 0.9 {
		confidence = 0.9
	}

	return Result{
		Score:      score,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"method": "token_set_ratio",
		},
	}
}

// AbbreviationCalculator cross-compares every naming variation of both
// inputs and keeps the best-scoring pair. This is the workhorse for legacy
// field names like ACCTNUM vs accountNumber.
type AbbreviationCalculator struct {
	expander *abbrev.Expander
}

// NewAbbreviationCalculator builds a calculator over the given expander.
// A nil expander falls back to the default banking dictionary.
func NewAbbreviationCalculator(expander *abbrev.Expander) *AbbreviationCalculator {
	if expander == nil {
		expander = abbrev.NewExpander(nil)
	}
	return &AbbreviationCalculator{expander: expander}
}

func (c *AbbreviationCalculator) Name() string {
	return TechniqueAbbreviation
}

func (c *AbbreviationCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	variations1 := c.expander.Variations(text1)
	variations2 := c.expander.Variations(text2)

	var bestScore float64
	bestPair := [2]string{text1, text2}
	for _, v1 := range variations1 {
		for _, v2 := range variations2 {
			score := JaroWinkler(strings.ToLower(v1), strings.ToLower(v2))
			if score > bestScore {
				bestScore = score
				bestPair = [2]string{v1, v2}
			}
		}
	}

	usedExpansion := bestPair[0] != text1 || bestPair[1] != text2

	var confidence float64
	switch {
	case usedExpansion && bestScore >= 0.8:
		confidence = 0.95
	case usedExpansion:
		confidence = 0.85
	case bestScore >= 0.8:
		confidence = 0.7
	default:
		confidence = 0.6
	}

	return Result{
		Score:      bestScore,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"variations1":    variations1,
			"variations2":    variations2,
			"best_pair":      []string{bestPair[0], bestPair[1]},
			"used_expansion": usedExpansion,
		},
	}
}
