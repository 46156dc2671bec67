package similarity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposite(t *testing.T) *Composite {
	t.Helper()
	composite, err := NewComposite(CompositeConfig{})
	require.NoError(t, err)
	return composite
}

func TestCompositeDefaults(t *testing.T) {
	composite := newTestComposite(t)

	t.Run("default weights sum to 1", func(t *testing.T) {
		var sum float64
		for _, weight := range composite.Weights() {
			sum += weight
		}
		assert.InDelta(t, 1.0, sum, 0.0001)
	})

	t.Run("abbreviation carries the largest default weight", func(t *testing.T) {
		weights := composite.Weights()
		for name, weight := range weights {
			if name == TechniqueAbbreviation {
				continue
			}
			assert.GreaterOrEqual(t, weights[TechniqueAbbreviation], weight)
		}
	})
}

func TestCompositeCalculate(t *testing.T) {
	composite := newTestComposite(t)

	t.Run("identical names score at the top", func(t *testing.T) {
		result := composite.Calculate("account", "account")
		assert.GreaterOrEqual(t, result.Score, 0.95)
		assert.Equal(t, TechniqueComposite, result.Technique)
	})

	t.Run("abbreviation pairs clear the default threshold", func(t *testing.T) {
		result := composite.Calculate("acct", "Account")
		assert.GreaterOrEqual(t, result.Score, 0.7)
	})

	t.Run("banking round-trip scores at least 0.6", func(t *testing.T) {
		result := composite.Calculate("CUSTNUM", "customerId")
		assert.GreaterOrEqual(t, result.Score, 0.6)
	})

	t.Run("unrelated names stay below the threshold", func(t *testing.T) {
		result := composite.Calculate("ZZZ_UNKNOWN", "Account")
		assert.Less(t, result.Score, 0.7)
	})

	t.Run("metadata retains the full breakdown", func(t *testing.T) {
		result := composite.Calculate("acct", "account")
		techniques, ok := result.Metadata["techniques"].(map[string]Result)
		require.True(t, ok)
		assert.Len(t, techniques, 6)
		assert.Contains(t, result.Metadata, "weights")
		assert.Contains(t, result.Metadata, "consistency_bonus")
		assert.Contains(t, result.Metadata, "best_technique")
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		first := composite.Calculate("CUSTNUM", "customerId")
		for i := 0; i < 50; i++ {
			assert.Equal(t, first.Score, composite.Calculate("CUSTNUM", "customerId").Score)
		}

		// a separately constructed instance must agree bit for bit
		other := newTestComposite(t)
		assert.Equal(t, first.Score, other.Calculate("CUSTNUM", "customerId").Score)
	})

	t.Run("weight normalization is stable", func(t *testing.T) {
		composite := newTestComposite(t)
		require.NoError(t, composite.UpdateWeights(map[string]float64{TechniqueFuzzy: 0.9}))
		first := composite.Calculate("acct_num", "accountNumber")
		for i := 0; i < 50; i++ {
			result := composite.Calculate("acct_num", "accountNumber")
			assert.Equal(t, first.Score, result.Score)
			assert.Equal(t, first.Metadata["weights"], result.Metadata["weights"])
		}
	})
}

func TestCompositeConsistencyBonus(t *testing.T) {
	composite := newTestComposite(t)

	// every string technique agrees on identical inputs, so the bonus is
	// pinned at the cap
	result := composite.Calculate("account", "account")
	bonus, ok := result.Metadata["consistency_bonus"].(float64)
	require.True(t, ok)
	assert.Equal(t, 0.15, bonus)
}

func TestUpdateWeights(t *testing.T) {
	t.Run("renormalizes and keeps the boosted technique largest", func(t *testing.T) {
		composite := newTestComposite(t)
		require.NoError(t, composite.UpdateWeights(map[string]float64{TechniqueFuzzy: 0.9}))

		weights := composite.Weights()
		var sum float64
		for _, weight := range weights {
			sum += weight
		}
		assert.InDelta(t, 1.0, sum, 0.0001)
		for name, weight := range weights {
			if name == TechniqueFuzzy {
				continue
			}
			assert.Greater(t, weights[TechniqueFuzzy], weight, "fuzzy should outweigh %s", name)
		}
	})

	t.Run("rejects unknown technique names", func(t *testing.T) {
		composite := newTestComposite(t)
		err := composite.UpdateWeights(map[string]float64{"soundex": 0.5})
		assert.Error(t, err)
	})

	t.Run("rejects negative weights", func(t *testing.T) {
		composite := newTestComposite(t)
		err := composite.UpdateWeights(map[string]float64{TechniqueFuzzy: -0.1})
		assert.Error(t, err)
	})
}

// panicEmbedder simulates a backend bug that escapes as a panic
type panicEmbedder struct{}

func (panicEmbedder) Available() bool { return true }

func (panicEmbedder) Embed(string) ([]float64, error) {
	panic("embedding backend corrupted state")
}

func TestCompositeAbsorbsPanickingTechnique(t *testing.T) {
	composite, err := NewComposite(CompositeConfig{Embedder: panicEmbedder{}})
	require.NoError(t, err)

	result := composite.Calculate("acct", "account")
	assert.Greater(t, result.Score, 0.0, "remaining techniques must still contribute")

	techniques, ok := result.Metadata["techniques"].(map[string]Result)
	require.True(t, ok)
	semantic := techniques[TechniqueSemantic]
	assert.Equal(t, 0.0, semantic.Score)
	assert.Contains(t, fmt.Sprintf("%v", semantic.Metadata["error"]), "panicked")
}

func TestCompositeDegradedEmbedder(t *testing.T) {
	composite, err := NewComposite(CompositeConfig{
		Embedder: &stubEmbedder{err: errors.New("dial tcp: connection refused")},
	})
	require.NoError(t, err)

	// a dead embedding backend must never abort the comparison
	result := composite.Calculate("acct", "account")
	assert.GreaterOrEqual(t, result.Score, 0.7)
}

func TestExplain(t *testing.T) {
	composite := newTestComposite(t)

	result, explanation := composite.Explain("ACCTNUM", "accountNumber")
	assert.Greater(t, result.Score, 0.7)
	assert.Contains(t, explanation, TechniqueAbbreviation)
	assert.Contains(t, explanation, "consistency bonus")
}
