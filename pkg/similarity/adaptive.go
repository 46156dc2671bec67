package similarity

import (
	"strings"
	"unicode"

	"github.com/Ramsey-B/fern/pkg/abbrev"
)

// stringProfile captures the characteristics that drive weight adaptation
type stringProfile struct {
	length           int
	hasUnderscore    bool
	isCamelCase      bool
	abbreviationLike bool
	wordCount        int
}

func profileString(text string) stringProfile {
	allUpper := text != "" && strings.ToUpper(text) == text
	hasLetter := strings.IndexFunc(text, unicode.IsLetter) != -1
	return stringProfile{
		length:           len([]rune(text)),
		hasUnderscore:    strings.Contains(text, "_"),
		isCamelCase:      looksCamelCase(text),
		abbreviationLike: hasLetter && allUpper && len([]rune(text)) <= 8,
		wordCount:        len(abbrev.ExtractWords(text)),
	}
}

func looksCamelCase(text string) bool {
	if strings.ContainsAny(text, "_- ") {
		return false
	}
	hasLower := strings.IndexFunc(text, unicode.IsLower) != -1
	hasUpper := strings.IndexFunc(text, unicode.IsUpper) != -1
	return hasLower && hasUpper && !unicode.IsUpper([]rune(text)[0])
}

// Adaptive perturbs the composite's weights per input pair: short
// abbreviation-like names lean harder on abbreviation and prefix matching,
// long names lean on semantic and contextual signals.
type Adaptive struct {
	composite *Composite
}

func NewAdaptive(composite *Composite) *Adaptive {
	return &Adaptive{composite: composite}
}

func (a *Adaptive) Name() string {
	return TechniqueAdaptive
}

func (a *Adaptive) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(a.Name())
	}

	weights := a.adaptWeights(profileString(text1), profileString(text2))
	result := a.composite.CalculateWeighted(text1, text2, weights)
	result.Technique = a.Name()
	if result.Metadata == nil {
		result.Metadata = map[string]any{}
	}
	result.Metadata["adaptive_weights"] = weights
	return result
}

func (a *Adaptive) adaptWeights(p1, p2 stringProfile) map[string]float64 {
	weights := a.composite.Weights()
	avgLength := float64(p1.length+p2.length) / 2.0

	switch {
	case avgLength <= 8 || p1.abbreviationLike || p2.abbreviationLike:
		weights[TechniqueAbbreviation] += 0.1
		weights[TechniqueJaroWinkler] += 0.05
		weights[TechniqueSemantic] -= 0.1
		weights[TechniqueContextual] -= 0.05
	case avgLength > 15:
		weights[TechniqueSemantic] += 0.1
		weights[TechniqueContextual] += 0.05
		weights[TechniqueLevenshtein] -= 0.1
		weights[TechniqueAbbreviation] -= 0.05
	}

	if p1.isCamelCase && p2.isCamelCase {
		weights[TechniqueFuzzy] += 0.05
		weights[TechniqueLevenshtein] -= 0.05
	}

	for name, weight := range weights {
		if weight < 0 {
			weights[name] = 0
		}
	}
	return normalizeWeights(weights)
}
