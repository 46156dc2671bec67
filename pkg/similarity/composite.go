package similarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/abbrev"
)

const (
	consistencyBonusPerTechnique = 0.05
	consistencyBonusCap          = 0.15
	consistencyAgreementCutoff   = 0.8
)

// defaultWeights is the baseline technique mix. Abbreviation and fuzzy
// dominate because domain field names are driven by abbreviation patterns,
// not free-text semantics.
var defaultWeights = map[string]float64{
	TechniqueLevenshtein:  0.10,
	TechniqueJaroWinkler:  0.15,
	TechniqueFuzzy:        0.30,
	TechniqueAbbreviation: 0.35,
	TechniqueSemantic:     0.05,
	TechniqueContextual:   0.05,
}

// techniqueOrder fixes iteration order for deterministic results and ties
var techniqueOrder = []string{
	TechniqueLevenshtein,
	TechniqueJaroWinkler,
	TechniqueFuzzy,
	TechniqueAbbreviation,
	TechniqueSemantic,
	TechniqueContextual,
}

// CompositeConfig configures a Composite calculator
type CompositeConfig struct {
	// Weights overrides the default technique weights; it is merged over the
	// defaults and renormalized to sum to 1.
	Weights map[string]float64
	// Embedder backs the semantic technique. Nil disables it.
	Embedder Embedder
	// Expander backs abbreviation-aware techniques. Nil uses the default
	// banking dictionary.
	Expander *abbrev.Expander
}

// Composite combines all six techniques into one weighted score with a
// consistency bonus when independent signals agree
type Composite struct {
	calculators map[string]Calculator
	weights     map[string]float64
}

// NewComposite builds a composite calculator. The embedder choice is fixed
// here; the hot path never feature-detects.
func NewComposite(cfg CompositeConfig) (*Composite, error) {
	expander := cfg.Expander
	if expander == nil {
		expander = abbrev.NewExpander(nil)
	}

	c := &Composite{
		calculators: map[string]Calculator{
			TechniqueLevenshtein:  NewLevenshteinCalculator(),
			TechniqueJaroWinkler:  NewJaroWinklerCalculator(),
			TechniqueFuzzy:        NewFuzzyCalculator(),
			TechniqueAbbreviation: NewAbbreviationCalculator(expander),
			TechniqueSemantic:     NewSemanticCalculator(cfg.Embedder, expander),
			TechniqueContextual:   NewContextualCalculator(expander),
		},
		weights: copyWeights(defaultWeights),
	}

	if cfg.Weights != nil {
		if err := c.UpdateWeights(cfg.Weights); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Composite) Name() string {
	return TechniqueComposite
}

// Weights returns a copy of the current weight vector
func (c *Composite) Weights() map[string]float64 {
	return copyWeights(c.weights)
}

// UpdateWeights merges the given partial weights over the current vector and
// renormalizes so the result sums to 1. Unknown technique names are rejected.
func (c *Composite) UpdateWeights(partial map[string]float64) error {
	for name, weight := range partial {
		if _, ok := c.weights[name]; !ok {
			return fmt.Errorf("unknown similarity technique %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("weight for %q must be non-negative, got %f", name, weight)
		}
	}

	merged := copyWeights(c.weights)
	for name, weight := range partial {
		merged[name] = weight
	}
	c.weights = normalizeWeights(merged)
	return nil
}

func (c *Composite) Calculate(text1, text2 string) Result {
	return c.CalculateWeighted(text1, text2, c.weights)
}

// CalculateWeighted scores with an explicit weight vector, leaving the
// composite's configured weights untouched. The vector is normalized before
// use.
func (c *Composite) CalculateWeighted(text1, text2 string, weights map[string]float64) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	normalized := normalizeWeights(weights)

	results := make(map[string]Result, len(techniqueOrder))
	var weightedScore, weightedConfidence float64
	agreeing := 0
	bestTechnique := ""
	bestScore := -1.0

	for _, name := range techniqueOrder {
		result := c.safeCalculate(c.calculators[name], text1, text2)
		results[name] = result

		weight := normalized[name]
		weightedScore += weight * result.Score
		weightedConfidence += weight * result.Confidence

		if result.Score >= consistencyAgreementCutoff {
			agreeing++
		}
		if result.Score > bestScore {
			bestScore = result.Score
			bestTechnique = name
		}
	}

	bonus := consistencyBonusPerTechnique * float64(agreeing)
	if bonus > consistencyBonusCap {
		bonus = consistencyBonusCap
	}

	return Result{
		Score:      clamp01(weightedScore + bonus),
		Confidence: clamp01(weightedConfidence),
		Technique:  c.Name(),
		Metadata: map[string]any{
			"techniques":        results,
			"weights":           normalized,
			"consistency_bonus": bonus,
			"best_technique":    bestTechnique,
		},
	}
}

// safeCalculate absorbs a panicking technique into a low-confidence zero
// result so one broken signal never aborts the composite
func (c *Composite) safeCalculate(calc Calculator, text1, text2 string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Score:      0,
				Confidence: 0.1,
				Technique:  calc.Name(),
				Metadata:   map[string]any{"error": fmt.Sprintf("technique panicked: %v", r)},
			}
		}
	}()
	return calc.Calculate(text1, text2)
}

// Explain returns the composite result plus a human-readable breakdown of
// each technique's contribution, ranked by weighted share
func (c *Composite) Explain(text1, text2 string) (Result, string) {
	result := c.Calculate(text1, text2)

	techniques, _ := result.Metadata["techniques"].(map[string]Result)
	weights, _ := result.Metadata["weights"].(map[string]float64)

	type contribution struct {
		name     string
		score    float64
		weighted float64
	}
	contributions := make([]contribution, 0, len(techniques))
	for _, name := range techniqueOrder {
		tr, ok := techniques[name]
		if !ok {
			continue
		}
		contributions = append(contributions, contribution{
			name:     name,
			score:    tr.Score,
			weighted: weights[name] * tr.Score,
		})
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].weighted > contributions[j].weighted
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "%q vs %q scored %.3f (confidence %.2f)\n", text1, text2, result.Score, result.Confidence)
	for _, contrib := range contributions {
		fmt.Fprintf(&sb, "  %-13s score %.3f contributed %.3f\n", contrib.name, contrib.score, contrib.weighted)
	}
	if bonus, ok := result.Metadata["consistency_bonus"].(float64); ok && bonus > 0 {
		fmt.Fprintf(&sb, "  consistency bonus +%.2f\n", bonus)
	}
	return result, sb.String()
}

func copyWeights(weights map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(weights))
	for name, weight := range weights {
		out[name] = weight
	}
	return out
}

// normalizeWeights scales a weight vector to sum to 1. A nil, empty, or
// all-zero vector falls back to the defaults. The sum is accumulated in
// sorted key order: float addition is not associative, so ranging over the
// map directly would make the normalized weights vary between runs.
func normalizeWeights(weights map[string]float64) map[string]float64 {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	var sum float64
	for _, name := range names {
		sum += weights[name]
	}
	if len(weights) == 0 || sum <= 0 {
		return copyWeights(defaultWeights)
	}
	out := make(map[string]float64, len(weights))
	for _, name := range names {
		out[name] = weights[name] / sum
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
