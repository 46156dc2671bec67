// Package similarity scores how alike two schema element names are, using
// several independent techniques that can be combined and reweighted.
package similarity

// Technique names reported in Result.Technique
const (
	TechniqueLevenshtein  = "levenshtein"
	TechniqueJaroWinkler  = "jaro_winkler"
	TechniqueFuzzy        = "fuzzy"
	TechniqueAbbreviation = "abbreviation"
	TechniqueSemantic     = "semantic"
	TechniqueContextual   = "contextual"
	TechniqueComposite    = "composite"
	TechniqueAdaptive     = "adaptive"
)

// Result is the outcome of one similarity computation. Score is the
// similarity in [0, 1]; Confidence is how much the technique trusts its own
// score, independent of the score itself.
type Result struct {
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
	Technique  string         `json:"technique"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// IsMatch reports whether the score meets the given threshold
func (r Result) IsMatch(threshold float64) bool {
	return r.Score >= threshold
}

// Calculator computes a similarity score between two strings. Implementations
// must be deterministic: identical inputs always produce identical scores.
type Calculator interface {
	Name() string
	Calculate(text1, text2 string) Result
}

// BatchCalculate scores text against every candidate, preserving order
func BatchCalculate(c Calculator, text string, candidates []string) []Result {
	results := make([]Result, len(candidates))
	for i, candidate := range candidates {
		results[i] = c.Calculate(text, candidate)
	}
	return results
}

// FindBestMatch returns the best-scoring candidate at or above threshold,
// along with its index. Ties keep the earliest candidate. Returns ok=false
// when no candidate qualifies.
func FindBestMatch(c Calculator, text string, candidates []string, threshold float64) (best Result, index int, ok bool) {
	index = -1
	for i, candidate := range candidates {
		result := c.Calculate(text, candidate)
		if result.Score < threshold {
			continue
		}
		if index == -1 || result.Score > best.Score {
			best = result
			index = i
		}
	}
	return best, index, index != -1
}

// emptyResult is the uniform response to empty input: zero similarity,
// asserted with full confidence.
func emptyResult(technique string) Result {
	return Result{
		Score:      0,
		Confidence: 1,
		Technique:  technique,
		Metadata:   map[string]any{"reason": "empty_string"},
	}
}
