package similarity

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/abbrev"
)

// synonymGroup is one canonical domain concept and the names it travels under
type synonymGroup struct {
	concept string
	terms   []string
}

// fieldPattern is one structural field category and its keyword triggers
type fieldPattern struct {
	category string
	keywords []string
}

// Synonym groups and pattern categories are evaluated in declaration order
// so results stay deterministic.
var domainSynonyms = []synonymGroup{
	{"customer", []string{"customer", "client", "cust", "person", "party", "holder"}},
	{"account", []string{"account", "acct", "acc", "wallet"}},
	{"transaction", []string{"transaction", "txn", "trx", "payment", "transfer", "movement"}},
	{"amount", []string{"amount", "amt", "value", "sum", "balance", "bal", "total"}},
	{"identifier", []string{"identifier", "id", "key", "number", "num", "code", "ref"}},
	{"date", []string{"date", "dt", "time", "timestamp", "created", "updated", "opened", "closed"}},
	{"type", []string{"type", "typ", "kind", "category", "class"}},
	{"status", []string{"status", "state", "flag", "active"}},
	{"description", []string{"description", "desc", "note", "comment", "detail"}},
	{"address", []string{"address", "addr", "street", "city", "country", "postal"}},
}

var fieldPatterns = []fieldPattern{
	{"primary_key", []string{"id", "key", "uuid", "guid"}},
	{"foreign_key", []string{"ref", "fk", "parent", "owner"}},
	{"monetary", []string{"amount", "balance", "price", "fee", "cost", "currency"}},
	{"temporal", []string{"date", "time", "timestamp", "at", "when"}},
	{"categorical", []string{"type", "status", "category", "kind", "level"}},
	{"descriptive", []string{"name", "description", "label", "title", "text"}},
}

// ContextualCalculator scores by shared domain meaning rather than string
// shape: two names in the same concept group score high even when their
// spellings share nothing.
type ContextualCalculator struct {
	expander *abbrev.Expander
}

func NewContextualCalculator(expander *abbrev.Expander) *ContextualCalculator {
	if expander == nil {
		expander = abbrev.NewExpander(nil)
	}
	return &ContextualCalculator{expander: expander}
}

func (c *ContextualCalculator) Name() string {
	return TechniqueContextual
}

func (c *ContextualCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	raw1 := strings.ToLower(text1)
	raw2 := strings.ToLower(text2)
	expanded1 := c.expander.Expand(text1)
	expanded2 := c.expander.Expand(text2)

	score, basis := c.score(raw1, raw2)
	if expandedScore, expandedBasis := c.score(expanded1, expanded2); expandedScore > score {
		score = expandedScore
		basis = expandedBasis
	}

	confidence := 0.5
	if score > 0 {
		confidence = 0.85
	}

	return Result{
		Score:      score,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"basis": basis,
		},
	}
}

// score returns 0.9 when both names land in the same synonym group, 0.7 when
// they land in the same structural pattern category, otherwise 0
func (c *ContextualCalculator) score(s1, s2 string) (float64, string) {
	for _, group := range domainSynonyms {
		if containsAny(s1, group.terms) && containsAny(s2, group.terms) {
			return 0.9, "synonym:" + group.concept
		}
	}
	for _, pattern := range fieldPatterns {
		if containsAny(s1, pattern.keywords) && containsAny(s2, pattern.keywords) {
			return 0.7, "pattern:" + pattern.category
		}
	}
	return 0, "none"
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
