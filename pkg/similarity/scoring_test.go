package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaro(t *testing.T) {
	t.Run("identical strings score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, Jaro("account", "account"))
	})

	t.Run("disjoint strings score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Jaro("abc", "xyz"))
	})

	t.Run("empty input scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, Jaro("", "account"))
		assert.Equal(t, 0.0, Jaro("account", ""))
	})

	t.Run("similar strings score between 0 and 1", func(t *testing.T) {
		score := Jaro("acct", "account")
		assert.Greater(t, score, 0.5)
		assert.Less(t, score, 1.0)
	})
}

func TestJaroWinkler(t *testing.T) {
	t.Run("shared prefix boosts the score", func(t *testing.T) {
		assert.Greater(t, JaroWinkler("acct", "account"), Jaro("acct", "account"))
	})

	t.Run("never exceeds 1", func(t *testing.T) {
		assert.LessOrEqual(t, JaroWinkler("accountNumber", "accountnumber"), 1.0)
	})

	t.Run("abbreviation against full word scores high", func(t *testing.T) {
		assert.Greater(t, JaroWinkler("acct", "account"), 0.75)
	})
}

func TestLevenshtein(t *testing.T) {
	t.Run("distance", func(t *testing.T) {
		assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
		assert.Equal(t, 0, LevenshteinDistance("same", "same"))
		assert.Equal(t, 4, LevenshteinDistance("", "acct"))
	})

	t.Run("ratio", func(t *testing.T) {
		assert.Equal(t, 1.0, LevenshteinRatio("account", "account"))
		assert.Equal(t, 1.0, LevenshteinRatio("", ""))
		assert.InDelta(t, 1.0-3.0/7.0, LevenshteinRatio("kitten", "sitting"), 0.0001)
	})
}

func TestTokenSetRatio(t *testing.T) {
	t.Run("word order is ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, TokenSetRatio("first name", "name first"))
	})

	t.Run("duplication is ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, TokenSetRatio("name name", "name"))
	})

	t.Run("partial overlap scores between 0 and 1", func(t *testing.T) {
		score := TokenSetRatio("account number", "account code")
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Equal(t, 1.0, TokenSetRatio("", ""))
		assert.Equal(t, 0.0, TokenSetRatio("", "account"))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{1, 2, 3}), 0.0001)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}))
	})

	t.Run("mismatched lengths score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
	})

	t.Run("negative cosine clamps to 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}))
	})
}
