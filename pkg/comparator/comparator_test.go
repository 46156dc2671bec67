package comparator

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/matcher"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
)

func newTestComparator(t *testing.T) *Comparator {
	t.Helper()
	composite, err := similarity.NewComposite(similarity.CompositeConfig{})
	require.NoError(t, err)
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return New(logger, matcher.New(logger, composite, matcher.DefaultConfig()))
}

func accountStandardSchema() models.GraphSchema {
	return models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Properties: []models.PropertyDefinition{
					{Name: "accountNumber", Types: []string{"String"}, Mandatory: true},
					{Name: "accountType", Types: []string{"String"}, Mandatory: true},
					{Name: "openDate", Types: []string{"Date"}, Mandatory: true},
					{Name: "closedDate", Types: []string{"Date"}},
				},
			},
		},
	}
}

func legacyCustomerSchema() models.GraphSchema {
	return models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "acct",
				Properties: []models.PropertyDefinition{
					{Name: "ACCTNUM", Types: []string{"String"}, Mandatory: true},
					{Name: "ACCT_TYPE", Types: []string{"String"}, Mandatory: true},
					{Name: "OPEN_DT", Types: []string{"Date"}, Mandatory: true},
				},
			},
		},
	}
}

func TestCompareLegacyAccount(t *testing.T) {
	c := newTestComparator(t)

	report := c.Compare(context.Background(), legacyCustomerSchema(), accountStandardSchema())

	t.Run("matches one node out of one", func(t *testing.T) {
		assert.Equal(t, 1, report.Summary.MatchedNodes)
		assert.Equal(t, 1, report.Summary.TotalCustomerNodes)
	})

	t.Run("missing optional closedDate lands in important, not critical", func(t *testing.T) {
		var found bool
		for _, rec := range report.Categorized.Important {
			if rec.Element == "acct.closedDate" {
				found = true
			}
		}
		assert.True(t, found, "closedDate should be flagged as important")
		for _, rec := range report.Categorized.Critical {
			assert.NotEqual(t, "acct.closedDate", rec.Element)
		}
	})

	t.Run("label rename is captured as a typed recommendation", func(t *testing.T) {
		require.Len(t, report.ByType.NodeRenames, 1)
		rename := report.ByType.NodeRenames[0]
		assert.Equal(t, "acct", rename.CurrentName)
		assert.Equal(t, "Account", rename.StandardName)
		assert.Greater(t, rename.Similarity, 0.7)
	})

	t.Run("compliance level is not critical", func(t *testing.T) {
		assert.NotEqual(t, models.ComplianceCritical, report.ComplianceLevel)
	})

	t.Run("priority scores add up to the categorized totals", func(t *testing.T) {
		total := 0
		for _, count := range report.PriorityScores {
			total += count
		}
		expected := len(report.Categorized.Critical) +
			len(report.Categorized.Important) +
			len(report.Categorized.Style) +
			len(report.Categorized.Optimization)
		assert.Equal(t, expected, total)
	})
}

func TestCompareUnmatchedNode(t *testing.T) {
	c := newTestComparator(t)

	customer := legacyCustomerSchema()
	customer.Nodes = append(customer.Nodes, models.Node{Label: "ZZZ_UNKNOWN"})

	baseline := c.Compare(context.Background(), legacyCustomerSchema(), accountStandardSchema())
	report := c.Compare(context.Background(), customer, accountStandardSchema())

	t.Run("unmatched node lands in critical", func(t *testing.T) {
		var found bool
		for _, rec := range report.Categorized.Critical {
			if rec.Element == "ZZZ_UNKNOWN" {
				found = true
				assert.Equal(t, models.PriorityCritical, rec.Priority)
			}
		}
		assert.True(t, found)
	})

	t.Run("compliance score drops versus the clean schema", func(t *testing.T) {
		assert.Less(t, report.Summary.OverallComplianceScore, baseline.Summary.OverallComplianceScore)
	})
}

func TestCaseOnlyRenameIsStyle(t *testing.T) {
	c := newTestComparator(t)

	customer := models.GraphSchema{Nodes: []models.Node{{Label: "ACCOUNT"}}}
	standard := models.GraphSchema{Nodes: []models.Node{{Label: "Account"}}}

	report := c.Compare(context.Background(), customer, standard)

	require.NotEmpty(t, report.Categorized.Style)
	assert.Equal(t, models.ReasonCaseOnly, report.Categorized.Style[0].Reason)
	assert.Empty(t, report.Categorized.Critical)
}

func TestTypeMismatchIsCritical(t *testing.T) {
	c := newTestComparator(t)

	customer := models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Properties: []models.PropertyDefinition{
					{Name: "accountNumber", Types: []string{"Long"}, Mandatory: true},
				},
			},
		},
	}
	standard := models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Properties: []models.PropertyDefinition{
					{Name: "accountNumber", Types: []string{"String"}, Mandatory: true},
				},
			},
		},
	}

	report := c.Compare(context.Background(), customer, standard)

	t.Run("routes into the critical bucket", func(t *testing.T) {
		var found bool
		for _, rec := range report.Categorized.Critical {
			if rec.Reason == models.ReasonTypeMismatch {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("typed record carries both type lists", func(t *testing.T) {
		require.Len(t, report.ByType.DataTypeMismatches, 1)
		mismatch := report.ByType.DataTypeMismatches[0]
		assert.Equal(t, []string{"Long"}, mismatch.CurrentTypes)
		assert.Equal(t, []string{"String"}, mismatch.StandardTypes)
		assert.Equal(t, models.PriorityCritical, mismatch.Priority)
	})
}

func TestMissingIndexDetection(t *testing.T) {
	c := newTestComparator(t)

	customer := models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Indexes: []models.Index{
					{Kind: models.IndexProperty, Properties: []string{"accountNumber"}},
				},
			},
		},
	}
	standard := models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Indexes: []models.Index{
					{Kind: models.IndexProperty, Properties: []string{"accountNumber"}},
					{Kind: models.IndexProperty, Properties: []string{"openDate"}},
					{Kind: models.IndexFulltext, Properties: []string{"accountType"}},
				},
			},
		},
	}

	report := c.Compare(context.Background(), customer, standard)

	require.Len(t, report.ByType.MissingIndexes, 2)

	commands := map[string]string{}
	for _, missing := range report.ByType.MissingIndexes {
		commands[string(missing.Kind)+":"+missing.Properties[0]] = missing.CreateCommand
	}
	assert.Equal(t, "CREATE INDEX FOR (n:Account) ON (n.openDate)", commands["PROPERTY:openDate"])
	assert.Equal(t, "CREATE FULLTEXT INDEX FOR (n:Account) ON EACH [n.accountType]", commands["FULLTEXT:accountType"])
}

func TestIndexKeyOrderInsensitive(t *testing.T) {
	a := models.Index{Kind: models.IndexProperty, Properties: []string{"b", "a"}}
	b := models.Index{Kind: models.IndexProperty, Properties: []string{"a", "b"}}
	assert.Equal(t, indexKey(a), indexKey(b))
}

func TestClassifyCompliance(t *testing.T) {
	cases := []struct {
		critical int
		score    float64
		expected models.ComplianceLevel
	}{
		{0, 0.96, models.ComplianceExcellent},
		{0, 0.95, models.ComplianceExcellent},
		{0, 0.90, models.ComplianceGood},
		{0, 0.85, models.ComplianceGood},
		{1, 0.90, models.ComplianceFair},
		{2, 0.70, models.ComplianceFair},
		{3, 0.70, models.CompliancePoor},
		{5, 0.50, models.CompliancePoor},
		{6, 0.90, models.ComplianceCritical},
		{0, 0.40, models.ComplianceCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, classifyCompliance(tc.critical, tc.score),
			"critical=%d score=%.2f", tc.critical, tc.score)
	}
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, models.PriorityLow, priorityFor(models.MatchExact))
	assert.Equal(t, models.PriorityMedium, priorityFor(models.MatchStrong))
	assert.Equal(t, models.PriorityHigh, priorityFor(models.MatchModerate))
	assert.Equal(t, models.PriorityCritical, priorityFor(models.MatchWeak))
	assert.Equal(t, models.PriorityCritical, priorityFor(models.MatchNone))
}

func TestEnhanceEmptyReport(t *testing.T) {
	report := Enhance(&models.MatchReport{})
	assert.Empty(t, report.Categorized.Critical)
	assert.Equal(t, models.ComplianceCritical, report.ComplianceLevel)
}
