package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
)

func TestCollectorSummary(t *testing.T) {
	collector := NewCollector()

	collector.RecordNodeMatch("acct", "Account", models.MatchStrong, 0.88, similarity.TechniqueComposite)
	collector.RecordNodeMatch("customer", "Customer", models.MatchExact, 1.0, similarity.TechniqueComposite)
	collector.RecordNodeMatch("ZZZ_UNKNOWN", "", models.MatchNone, 0.31, similarity.TechniqueComposite)

	collector.RecordRelationshipMatch("has_account", "HAS_ACCOUNT", models.MatchStrong, 0.97, similarity.TechniqueComposite)

	collector.RecordPropertyMatch("acct_num", "accountNumber", models.MatchModerate, 0.78, similarity.TechniqueComposite, "node", "acct")
	collector.RecordPropertyMatch("mystery_field", "", models.MatchNone, 0.2, similarity.TechniqueComposite, "node", "acct")

	summary := collector.Summary()

	t.Run("overview totals and rates", func(t *testing.T) {
		assert.Equal(t, 3, summary.Overview.TotalNodesAnalyzed)
		assert.Equal(t, 1, summary.Overview.TotalRelationshipsAnalyzed)
		assert.Equal(t, 2, summary.Overview.TotalPropertiesAnalyzed)
		assert.InDelta(t, 2.0/3.0, summary.Overview.NodeMatchRate, 1e-9)
		assert.Equal(t, 1.0, summary.Overview.RelationshipMatchRate)
		assert.Equal(t, 0.5, summary.Overview.PropertyMatchRate)
	})

	t.Run("match distribution", func(t *testing.T) {
		assert.Equal(t, 1, summary.NodeMatchesByType[models.MatchExact])
		assert.Equal(t, 1, summary.NodeMatchesByType[models.MatchStrong])
		assert.Equal(t, 1, summary.NodeMatchesByType[models.MatchNone])
	})

	t.Run("technique effectiveness", func(t *testing.T) {
		effectiveness, ok := summary.Techniques[similarity.TechniqueComposite]
		require.True(t, ok)
		assert.Equal(t, 6, effectiveness.UsageCount)
		assert.InDelta(t, 4.0/6.0, effectiveness.SuccessRate, 1e-9)
		assert.InDelta(t, (0.88+1.0+0.31+0.97+0.78+0.2)/6.0, effectiveness.AverageScore, 1e-9)
	})

	t.Run("abbreviation patterns", func(t *testing.T) {
		patterns := collector.AbbreviationPatterns()
		assert.Equal(t, "Account", patterns["acct"])
		assert.Equal(t, "accountNumber", patterns["acct_num"])
	})

	t.Run("naming convention issues", func(t *testing.T) {
		assert.Equal(t, 1, summary.NamingConventionIssues["underscore_to_camel"])
	})

	t.Run("unmatched analysis", func(t *testing.T) {
		assert.Equal(t, 1, summary.Unmatched.NodeCount)
		assert.InDelta(t, 0.31, summary.Unmatched.NodeAverageBestScore, 1e-9)
		assert.True(t, summary.Unmatched.LikelyMissingFromStandard)
		assert.Equal(t, 1, summary.Unmatched.PropertyCount)
	})
}

func TestCollectorCaseMismatchConventions(t *testing.T) {
	collector := NewCollector()

	// target violates the expected convention for its element kind
	collector.RecordNodeMatch("Account", "account", models.MatchStrong, 0.96, similarity.TechniqueComposite)
	collector.RecordRelationshipMatch("HAS_ACCOUNT", "has_account", models.MatchStrong, 0.96, similarity.TechniqueComposite)
	collector.RecordPropertyMatch("accountNumber", "AccountNumber", models.MatchStrong, 0.96, similarity.TechniqueComposite, "node", "Account")

	summary := collector.Summary()
	assert.Equal(t, 3, summary.CaseMismatches)
	assert.Equal(t, 1, summary.NamingConventionIssues["node_not_pascal"])
	assert.Equal(t, 1, summary.NamingConventionIssues["rel_not_upper"])
	assert.Equal(t, 1, summary.NamingConventionIssues["prop_not_camel"])
}

func TestCollectorRecommendations(t *testing.T) {
	t.Run("low success rate technique", func(t *testing.T) {
		collector := NewCollector()
		for i := 0; i < 10; i++ {
			collector.RecordNodeMatch("Unknown", "", models.MatchNone, 0.1, similarity.TechniqueSemantic)
		}

		recommendations := collector.Recommendations()
		require.NotEmpty(t, recommendations)
		assert.Contains(t, recommendations[0], similarity.TechniqueSemantic)
	})

	t.Run("unmatched nodes suggest standard additions", func(t *testing.T) {
		collector := NewCollector()
		collector.RecordNodeMatch("AuditLog", "", models.MatchNone, 0.2, similarity.TechniqueComposite)

		recommendations := collector.Recommendations()
		found := false
		for _, rec := range recommendations {
			if rec == "Consider adding these nodes to the standard schema: AuditLog" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("clean run yields no recommendations", func(t *testing.T) {
		collector := NewCollector()
		collector.RecordNodeMatch("Account", "Account", models.MatchExact, 1.0, similarity.TechniqueComposite)
		assert.Empty(t, collector.Recommendations())
	})
}

func TestCollectReport(t *testing.T) {
	target := models.Node{Label: "Account"}
	report := &models.MatchReport{
		NodeMatches: []models.NodeMatch{
			{
				SourceNode: models.Node{Label: "acct"},
				TargetNode: &target,
				LabelMatch: &models.FieldMatch{
					SourceField: "acct",
					TargetField: "Account",
					MatchType:   models.MatchStrong,
					Similarity:  similarity.Result{Score: 0.89, Technique: similarity.TechniqueAdaptive},
				},
				PropertyMatches: []models.FieldMatch{
					{
						SourceField: "ACCTNUM",
						TargetField: "accountNumber",
						MatchType:   models.MatchModerate,
						Similarity:  similarity.Result{Score: 0.75, Technique: similarity.TechniqueAdaptive},
					},
				},
			},
			{
				SourceNode: models.Node{Label: "ZZZ_UNKNOWN"},
				Candidates: []models.CandidateScore{{Target: "Account", Score: 0.33}},
			},
		},
	}

	collector := NewCollector()
	collector.CollectReport(report)

	summary := collector.Summary()
	assert.Equal(t, 2, summary.Overview.TotalNodesAnalyzed)
	assert.Equal(t, 1, summary.Overview.TotalPropertiesAnalyzed)
	assert.Equal(t, 1, summary.Unmatched.NodeCount)
	assert.InDelta(t, 0.33, summary.Unmatched.NodeAverageBestScore, 1e-9)
}

func TestCommonPrefixes(t *testing.T) {
	prefixes := commonPrefixes([]string{"tmp_users", "tmp_orders", "audit"}, 3)
	require.NotEmpty(t, prefixes)
	assert.Equal(t, "tmp_", prefixes[0])
}

func TestCaseHelpers(t *testing.T) {
	assert.True(t, isPascalCase("Account"))
	assert.False(t, isPascalCase("account"))
	assert.False(t, isPascalCase("Account_Type"))

	assert.True(t, isCamelCase("accountNumber"))
	assert.False(t, isCamelCase("AccountNumber"))

	assert.True(t, isUpperSnakeCase("HAS_ACCOUNT"))
	assert.True(t, isUpperSnakeCase("TRANSFER"))
	assert.False(t, isUpperSnakeCase("has_account"))
}
