package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdaptive(t *testing.T) *Adaptive {
	t.Helper()
	return NewAdaptive(newTestComposite(t))
}

func TestAdaptiveRelabelsResult(t *testing.T) {
	adaptive := newTestAdaptive(t)

	result := adaptive.Calculate("acct", "account")
	assert.Equal(t, TechniqueAdaptive, result.Technique)
	assert.Contains(t, result.Metadata, "adaptive_weights")
}

func TestAdaptiveWeightShifts(t *testing.T) {
	adaptive := newTestAdaptive(t)

	weightsOf := func(text1, text2 string) map[string]float64 {
		result := adaptive.Calculate(text1, text2)
		weights, ok := result.Metadata["adaptive_weights"].(map[string]float64)
		require.True(t, ok)
		return weights
	}

	t.Run("weights always sum to 1", func(t *testing.T) {
		for _, pair := range [][2]string{
			{"acct", "cust"},
			{"ACCTNUM", "accountNumber"},
			{"relationshipIdentifier", "customerRelationshipKey"},
		} {
			var sum float64
			for _, weight := range weightsOf(pair[0], pair[1]) {
				sum += weight
			}
			assert.InDelta(t, 1.0, sum, 0.0001)
		}
	})

	t.Run("short abbreviation-like pairs favor abbreviation matching", func(t *testing.T) {
		weights := weightsOf("ACCT", "CUST")
		assert.Greater(t, weights[TechniqueAbbreviation], defaultWeights[TechniqueAbbreviation])
		assert.Less(t, weights[TechniqueSemantic], defaultWeights[TechniqueSemantic])
	})

	t.Run("long pairs favor semantic and contextual signals", func(t *testing.T) {
		weights := weightsOf("relationshipIdentifier", "customerRelationshipKey")
		assert.Greater(t, weights[TechniqueSemantic], weights[TechniqueLevenshtein])
	})

	t.Run("camelCase pairs favor fuzzy token matching", func(t *testing.T) {
		short := weightsOf("openDate", "closeDate")
		assert.Greater(t, short[TechniqueFuzzy], defaultWeights[TechniqueFuzzy])
	})
}

func TestAdaptiveMatchesCompositeContract(t *testing.T) {
	adaptive := newTestAdaptive(t)

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		first := adaptive.Calculate("CUSTNUM", "customerId")
		for i := 0; i < 50; i++ {
			assert.Equal(t, first.Score, adaptive.Calculate("CUSTNUM", "customerId").Score)
		}
	})

	t.Run("abbreviation pairs still clear the threshold", func(t *testing.T) {
		result := adaptive.Calculate("acct", "Account")
		assert.GreaterOrEqual(t, result.Score, 0.7)
	})
}
