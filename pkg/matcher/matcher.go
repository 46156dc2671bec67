// Package matcher aligns a customer graph schema against the standard model
// using greedy 1:1 field matching backed by the similarity engine.
package matcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/abbrev"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/similarity"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Config contains configuration for the field matcher
type Config struct {
	Threshold       float64 // minimum similarity score to accept a match (default: 0.7)
	UseAdaptive     bool    // whether to adapt technique weights per input pair
	TrackCandidates bool    // whether to retain every candidate score for transparency
}

// DefaultConfig returns default matcher configuration
func DefaultConfig() Config {
	return Config{
		Threshold:       0.7,
		UseAdaptive:     true,
		TrackCandidates: false,
	}
}

// FieldMatcher matches nodes, relationships, and properties between two
// schemas. Matching is a pure function of its inputs: repeated runs over the
// same schemas produce identical assignments.
type FieldMatcher struct {
	logger ectologger.Logger
	engine similarity.Calculator
	config Config
}

// New creates a field matcher over the given composite engine
func New(logger ectologger.Logger, composite *similarity.Composite, config Config) *FieldMatcher {
	if config.Threshold <= 0 {
		config.Threshold = DefaultConfig().Threshold
	}
	var engine similarity.Calculator = composite
	if config.UseAdaptive {
		engine = similarity.NewAdaptive(composite)
	}
	return &FieldMatcher{
		logger: logger,
		engine: engine,
		config: config,
	}
}

// MatchSchemas matches every customer node and relationship against the
// standard schema and aggregates the results into a report
func (m *FieldMatcher) MatchSchemas(ctx context.Context, customer, standard models.GraphSchema) *models.MatchReport {
	ctx, span := tracing.StartSpan(ctx, "matcher.FieldMatcher.MatchSchemas")
	defer span.End()

	log := m.logger.WithContext(ctx).WithFields(map[string]any{
		"customer_nodes":         len(customer.Nodes),
		"standard_nodes":         len(standard.Nodes),
		"customer_relationships": len(customer.Relationships),
		"standard_relationships": len(standard.Relationships),
		"threshold":              m.config.Threshold,
	})
	log.Info("Matching customer schema against standard model")

	nodeMatches := m.matchNodes(customer.Nodes, standard.Nodes)
	relationshipMatches := m.matchRelationships(customer.Relationships, standard.Relationships)

	matchedNodes := 0
	for _, match := range nodeMatches {
		if match.TargetNode != nil {
			matchedNodes++
		}
	}
	matchedRelationships := 0
	for _, match := range relationshipMatches {
		if match.TargetRelationship != nil {
			matchedRelationships++
		}
	}

	report := &models.MatchReport{
		NodeMatches:         nodeMatches,
		RelationshipMatches: relationshipMatches,
		Summary: models.MatchSummary{
			TotalCustomerNodes:         len(customer.Nodes),
			TotalStandardNodes:         len(standard.Nodes),
			MatchedNodes:               matchedNodes,
			TotalCustomerRelationships: len(customer.Relationships),
			TotalStandardRelationships: len(standard.Relationships),
			MatchedRelationships:       matchedRelationships,
			OverallComplianceScore:     complianceScore(nodeMatches, relationshipMatches),
		},
		Recommendations: collectRecommendations(nodeMatches, relationshipMatches),
	}

	log.WithFields(map[string]any{
		"matched_nodes":         matchedNodes,
		"matched_relationships": matchedRelationships,
		"compliance_score":      report.Summary.OverallComplianceScore,
	}).Info("Schema matching complete")

	return report
}

// matchNodes runs the greedy 1:1 assignment over node labels. Each standard
// node can be claimed by at most one customer node; ties keep the
// first-encountered target in standard schema order.
func (m *FieldMatcher) matchNodes(customerNodes, standardNodes []models.Node) []models.NodeMatch {
	used := make(map[int]bool, len(standardNodes))
	matches := make([]models.NodeMatch, 0, len(customerNodes))

	for _, source := range customerNodes {
		bestIdx := -1
		var best similarity.Result
		var bestAnyLabel string
		bestAnyScore := -1.0
		var candidates []models.CandidateScore

		for i, target := range standardNodes {
			if used[i] {
				continue
			}
			result := m.engine.Calculate(source.Label, target.Label)
			if m.config.TrackCandidates {
				candidates = append(candidates, models.CandidateScore{Target: target.Label, Score: result.Score})
			}
			if result.Score > bestAnyScore {
				bestAnyScore = result.Score
				bestAnyLabel = target.Label
			}
			if result.Score >= m.config.Threshold && (bestIdx == -1 || result.Score > best.Score) {
				best = result
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			matches = append(matches, models.NodeMatch{
				SourceNode:        source,
				PropertyMatches:   []models.FieldMatch{},
				MissingProperties: []models.PropertyDefinition{},
				ExtraProperties:   []models.PropertyDefinition{},
				OverallConfidence: 0,
				Candidates:        candidates,
				Rationale:         m.noMatchRationale(bestAnyLabel, bestAnyScore),
			})
			continue
		}

		used[bestIdx] = true
		target := standardNodes[bestIdx]
		labelMatch := m.buildFieldMatch(source.Label, target.Label, best, false)
		propertyMatches, missing, extra := m.matchProperties(source.Properties, target.Properties)

		missingMandatory := countMandatory(missing)
		confidence := clamp01(0.4*labelMatch.Confidence +
			0.4*meanConfidence(propertyMatches) -
			0.1*float64(missingMandatory) -
			0.02*float64(len(extra)))

		matches = append(matches, models.NodeMatch{
			SourceNode:        source,
			TargetNode:        &target,
			LabelMatch:        &labelMatch,
			PropertyMatches:   propertyMatches,
			MissingProperties: missing,
			ExtraProperties:   extra,
			OverallConfidence: confidence,
			Candidates:        candidates,
		})
	}

	return matches
}

// matchRelationships is the relationship-type counterpart of matchNodes
func (m *FieldMatcher) matchRelationships(customerRels, standardRels []models.Relationship) []models.RelationshipMatch {
	used := make(map[int]bool, len(standardRels))
	matches := make([]models.RelationshipMatch, 0, len(customerRels))

	for _, source := range customerRels {
		bestIdx := -1
		var best similarity.Result
		var bestAnyType string
		bestAnyScore := -1.0
		var candidates []models.CandidateScore

		for i, target := range standardRels {
			if used[i] {
				continue
			}
			result := m.engine.Calculate(source.Type, target.Type)
			if m.config.TrackCandidates {
				candidates = append(candidates, models.CandidateScore{Target: target.Type, Score: result.Score})
			}
			if result.Score > bestAnyScore {
				bestAnyScore = result.Score
				bestAnyType = target.Type
			}
			if result.Score >= m.config.Threshold && (bestIdx == -1 || result.Score > best.Score) {
				best = result
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			matches = append(matches, models.RelationshipMatch{
				SourceRelationship: source,
				PropertyMatches:    []models.FieldMatch{},
				MissingProperties:  []models.PropertyDefinition{},
				ExtraProperties:    []models.PropertyDefinition{},
				OverallConfidence:  0,
				Candidates:         candidates,
				Rationale:          m.noMatchRationale(bestAnyType, bestAnyScore),
			})
			continue
		}

		used[bestIdx] = true
		target := standardRels[bestIdx]
		typeMatch := m.buildFieldMatch(source.Type, target.Type, best, false)
		propertyMatches, missing, extra := m.matchProperties(source.Properties, target.Properties)

		missingMandatory := countMandatory(missing)
		confidence := clamp01(0.5*typeMatch.Confidence +
			0.3*meanConfidence(propertyMatches) -
			0.05*float64(missingMandatory))

		matches = append(matches, models.RelationshipMatch{
			SourceRelationship: source,
			TargetRelationship: &target,
			TypeMatch:          &typeMatch,
			PropertyMatches:    propertyMatches,
			MissingProperties:  missing,
			ExtraProperties:    extra,
			OverallConfidence:  confidence,
			Candidates:         candidates,
		})
	}

	return matches
}

// matchProperties runs the same greedy 1:1 assignment within one matched
// node/relationship pair. Unclaimed target properties are missing; unclaimed
// source properties are extra.
func (m *FieldMatcher) matchProperties(sourceProps, targetProps []models.PropertyDefinition) ([]models.FieldMatch, []models.PropertyDefinition, []models.PropertyDefinition) {
	used := make(map[int]bool, len(targetProps))
	matches := make([]models.FieldMatch, 0, len(sourceProps))
	extra := []models.PropertyDefinition{}

	for _, source := range sourceProps {
		bestIdx := -1
		var best similarity.Result

		for i, target := range targetProps {
			if used[i] {
				continue
			}
			result := m.engine.Calculate(source.Name, target.Name)
			if result.Score >= m.config.Threshold && (bestIdx == -1 || result.Score > best.Score) {
				best = result
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			extra = append(extra, source)
			continue
		}

		used[bestIdx] = true
		target := targetProps[bestIdx]
		match := m.buildFieldMatch(source.Name, target.Name, best, true)

		if !equalTypes(source.Types, target.Types) {
			match.Recommendations = append(match.Recommendations, models.FieldRecommendation{
				Reason: models.ReasonTypeMismatch,
				Detail: fmt.Sprintf("property '%s' has types %v but the standard defines %v", source.Name, source.Types, target.Types),
			})
		}
		if target.Mandatory && !source.Mandatory {
			match.Recommendations = append(match.Recommendations, models.FieldRecommendation{
				Reason: models.ReasonMandatoryMismatch,
				Detail: fmt.Sprintf("property '%s' should be mandatory per the standard model", source.Name),
			})
		}

		matches = append(matches, match)
	}

	missing := []models.PropertyDefinition{}
	for i, target := range targetProps {
		if !used[i] {
			missing = append(missing, target)
		}
	}

	return matches, missing, extra
}

// buildFieldMatch classifies the similarity score and attaches rename
// recommendations. allowFormatDowngrade enables the underscore-vs-camelCase
// downgrade, which only applies on property matching paths.
func (m *FieldMatcher) buildFieldMatch(source, target string, result similarity.Result, allowFormatDowngrade bool) models.FieldMatch {
	matchType := ClassifyMatchType(result.Score)

	var recommendations []models.FieldRecommendation
	switch {
	case caseOnlyDifference(source, target):
		if matchType == models.MatchExact {
			matchType = models.MatchStrong
		}
		recommendations = append(recommendations, models.FieldRecommendation{
			Reason: models.ReasonCaseOnly,
			Detail: fmt.Sprintf("rename '%s' to '%s' (case sensitivity difference only)", source, target),
		})
	case allowFormatDowngrade && formatOnlyDifference(source, target):
		if matchType == models.MatchExact {
			matchType = models.MatchStrong
		}
		recommendations = append(recommendations, models.FieldRecommendation{
			Reason: models.ReasonFormatOnly,
			Detail: fmt.Sprintf("rename '%s' to '%s' (underscore vs camelCase formatting only)", source, target),
		})
	case source != target:
		recommendations = append(recommendations, models.FieldRecommendation{
			Reason: models.ReasonGeneralRename,
			Detail: fmt.Sprintf("rename '%s' to '%s' to match the standard model", source, target),
		})
	}

	return models.FieldMatch{
		SourceField:     source,
		TargetField:     target,
		MatchType:       matchType,
		Similarity:      result,
		Confidence:      result.Confidence,
		Recommendations: recommendations,
	}
}

func (m *FieldMatcher) noMatchRationale(bestLabel string, bestScore float64) string {
	if bestLabel == "" {
		return "no standard elements were available to match"
	}
	return fmt.Sprintf("no candidate met threshold %.2f; best was '%s' at %.2f", m.config.Threshold, bestLabel, bestScore)
}

// ClassifyMatchType maps a similarity score to its match tier using fixed,
// boundary-inclusive cutoffs
func ClassifyMatchType(score float64) models.MatchType {
	switch {
	case score >= 0.95:
		return models.MatchExact
	case score >= 0.85:
		return models.MatchStrong
	case score >= 0.70:
		return models.MatchModerate
	case score >= 0.50:
		return models.MatchWeak
	default:
		return models.MatchNone
	}
}

func caseOnlyDifference(source, target string) bool {
	return source != target && strings.EqualFold(source, target)
}

// formatOnlyDifference reports whether two names differ only in
// underscore-vs-camelCase formatting
func formatOnlyDifference(source, target string) bool {
	if source == target {
		return false
	}
	return abbrev.ToCamelCase(source) == target ||
		abbrev.ToCamelCase(target) == source ||
		abbrev.ToSnakeCase(source) == target ||
		abbrev.ToSnakeCase(target) == source
}

func equalTypes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countMandatory(props []models.PropertyDefinition) int {
	count := 0
	for _, prop := range props {
		if prop.Mandatory {
			count++
		}
	}
	return count
}

func meanConfidence(matches []models.FieldMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	var sum float64
	for _, match := range matches {
		sum += match.Confidence
	}
	return sum / float64(len(matches))
}

// complianceScore is the mean overall confidence across every customer
// element; unmatched elements contribute 0
func complianceScore(nodes []models.NodeMatch, relationships []models.RelationshipMatch) float64 {
	total := len(nodes) + len(relationships)
	if total == 0 {
		return 0
	}
	var sum float64
	for _, match := range nodes {
		sum += match.OverallConfidence
	}
	for _, match := range relationships {
		sum += match.OverallConfidence
	}
	return sum / float64(total)
}

// collectRecommendations flattens per-field recommendation details into the
// report-level list, in schema order
func collectRecommendations(nodes []models.NodeMatch, relationships []models.RelationshipMatch) []string {
	recommendations := []string{}

	for _, match := range nodes {
		prefix := fmt.Sprintf("Node '%s': ", match.SourceNode.Label)
		if match.TargetNode == nil {
			recommendations = append(recommendations, prefix+"no standard node matched; review whether this node belongs in the model")
			continue
		}
		for _, rec := range match.LabelMatch.Recommendations {
			recommendations = append(recommendations, prefix+rec.Detail)
		}
		for _, propMatch := range match.PropertyMatches {
			for _, rec := range propMatch.Recommendations {
				recommendations = append(recommendations, prefix+rec.Detail)
			}
		}
		for _, missing := range match.MissingProperties {
			if missing.Mandatory {
				recommendations = append(recommendations, fmt.Sprintf("%sadd mandatory property '%s'", prefix, missing.Name))
			} else {
				recommendations = append(recommendations, fmt.Sprintf("%sconsider adding property '%s'", prefix, missing.Name))
			}
		}
	}

	for _, match := range relationships {
		prefix := fmt.Sprintf("Relationship '%s': ", match.SourceRelationship.Type)
		if match.TargetRelationship == nil {
			recommendations = append(recommendations, prefix+"no standard relationship matched; review whether this relationship belongs in the model")
			continue
		}
		for _, rec := range match.TypeMatch.Recommendations {
			recommendations = append(recommendations, prefix+rec.Detail)
		}
		for _, propMatch := range match.PropertyMatches {
			for _, rec := range propMatch.Recommendations {
				recommendations = append(recommendations, prefix+rec.Detail)
			}
		}
		for _, missing := range match.MissingProperties {
			if missing.Mandatory {
				recommendations = append(recommendations, fmt.Sprintf("%sadd mandatory property '%s'", prefix, missing.Name))
			} else {
				recommendations = append(recommendations, fmt.Sprintf("%sconsider adding property '%s'", prefix, missing.Name))
			}
		}
	}

	return recommendations
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
