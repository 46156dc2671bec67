// Package comparator enriches raw match results with severity buckets,
// typed fix recommendations, and an overall compliance level.
package comparator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/matcher"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// cosmeticRenameCutoff splits renames between the style bucket (cosmetic,
// high similarity) and the important bucket (genuinely divergent names)
const cosmeticRenameCutoff = 0.9

// Comparator runs the field matcher and categorizes its findings
type Comparator struct {
	logger  ectologger.Logger
	matcher *matcher.FieldMatcher
}

// New creates a comparator over the given field matcher
func New(logger ectologger.Logger, m *matcher.FieldMatcher) *Comparator {
	return &Comparator{logger: logger, matcher: m}
}

// Compare matches the customer schema against the standard model and
// enriches the result with categorized and typed recommendations
func (c *Comparator) Compare(ctx context.Context, customer, standard models.GraphSchema) *models.ComparisonReport {
	ctx, span := tracing.StartSpan(ctx, "comparator.Comparator.Compare")
	defer span.End()

	matchReport := c.matcher.MatchSchemas(ctx, customer, standard)
	report := Enhance(matchReport)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"compliance_score": report.Summary.OverallComplianceScore,
		"compliance_level": report.ComplianceLevel,
		"critical_issues":  len(report.Categorized.Critical),
	}).Info("Schema comparison complete")

	return report
}

// Enhance categorizes a match report. It is a pure function of the report:
// no hidden state, deterministic across runs.
func Enhance(matchReport *models.MatchReport) *models.ComparisonReport {
	report := &models.ComparisonReport{
		MatchReport: *matchReport,
		Categorized: models.CategorizedRecommendations{
			Critical:     []models.CategorizedRecommendation{},
			Important:    []models.CategorizedRecommendation{},
			Style:        []models.CategorizedRecommendation{},
			Optimization: []models.CategorizedRecommendation{},
		},
		ByType: models.RecommendationsByType{
			NodeRenames:         []models.RenameRecommendation{},
			RelationshipRenames: []models.RenameRecommendation{},
			PropertyRenames:     []models.PropertyRenameRecommendation{},
			MissingIndexes:      []models.MissingIndexRecommendation{},
			DataTypeMismatches:  []models.TypeMismatchRecommendation{},
		},
	}

	for _, match := range matchReport.NodeMatches {
		categorizeNodeMatch(report, match)
	}
	for _, match := range matchReport.RelationshipMatches {
		categorizeRelationshipMatch(report, match)
	}

	report.PriorityScores = countPriorities(report.Categorized)
	report.ComplianceLevel = classifyCompliance(len(report.Categorized.Critical), matchReport.Summary.OverallComplianceScore)
	return report
}

func categorizeNodeMatch(report *models.ComparisonReport, match models.NodeMatch) {
	if match.TargetNode == nil {
		report.Categorized.Critical = append(report.Categorized.Critical, models.CategorizedRecommendation{
			Message:  fmt.Sprintf("node '%s' has no counterpart in the standard model", match.SourceNode.Label),
			Element:  match.SourceNode.Label,
			Priority: models.PriorityCritical,
		})
		return
	}

	element := match.SourceNode.Label
	if len(match.LabelMatch.Recommendations) > 0 {
		report.ByType.NodeRenames = append(report.ByType.NodeRenames, models.RenameRecommendation{
			CurrentName:  match.LabelMatch.SourceField,
			StandardName: match.LabelMatch.TargetField,
			Similarity:   match.LabelMatch.Similarity.Score,
			Priority:     priorityFor(match.LabelMatch.MatchType),
		})
	}
	for _, rec := range match.LabelMatch.Recommendations {
		categorizeFieldRecommendation(report, *match.LabelMatch, rec, element)
	}

	categorizeProperties(report, element, match.PropertyMatches, match.MissingProperties, match.SourceNode.Properties, match.TargetNode.Properties)
	categorizeMissingIndexes(report, match)
}

func categorizeRelationshipMatch(report *models.ComparisonReport, match models.RelationshipMatch) {
	if match.TargetRelationship == nil {
		report.Categorized.Critical = append(report.Categorized.Critical, models.CategorizedRecommendation{
			Message:  fmt.Sprintf("relationship '%s' has no counterpart in the standard model", match.SourceRelationship.Type),
			Element:  match.SourceRelationship.Type,
			Priority: models.PriorityCritical,
		})
		return
	}

	element := match.SourceRelationship.Type
	if len(match.TypeMatch.Recommendations) > 0 {
		report.ByType.RelationshipRenames = append(report.ByType.RelationshipRenames, models.RenameRecommendation{
			CurrentName:  match.TypeMatch.SourceField,
			StandardName: match.TypeMatch.TargetField,
			Similarity:   match.TypeMatch.Similarity.Score,
			Priority:     priorityFor(match.TypeMatch.MatchType),
		})
	}
	for _, rec := range match.TypeMatch.Recommendations {
		categorizeFieldRecommendation(report, *match.TypeMatch, rec, element)
	}

	categorizeProperties(report, element, match.PropertyMatches, match.MissingProperties, match.SourceRelationship.Properties, match.TargetRelationship.Properties)
}

func categorizeProperties(report *models.ComparisonReport, parent string, propertyMatches []models.FieldMatch, missing, sourceProps, targetProps []models.PropertyDefinition) {
	for _, propMatch := range propertyMatches {
		element := parent + "." + propMatch.SourceField

		renamed := false
		for _, rec := range propMatch.Recommendations {
			switch rec.Reason {
			case models.ReasonCaseOnly, models.ReasonFormatOnly, models.ReasonGeneralRename:
				renamed = true
			case models.ReasonTypeMismatch:
				report.ByType.DataTypeMismatches = append(report.ByType.DataTypeMismatches, models.TypeMismatchRecommendation{
					Parent:        parent,
					Property:      propMatch.SourceField,
					CurrentTypes:  typesOf(sourceProps, propMatch.SourceField),
					StandardTypes: typesOf(targetProps, propMatch.TargetField),
					Priority:      models.PriorityCritical,
				})
			}
			categorizeFieldRecommendation(report, propMatch, rec, element)
		}

		if renamed {
			report.ByType.PropertyRenames = append(report.ByType.PropertyRenames, models.PropertyRenameRecommendation{
				Parent:       parent,
				CurrentName:  propMatch.SourceField,
				StandardName: propMatch.TargetField,
				Similarity:   propMatch.Similarity.Score,
				Priority:     priorityFor(propMatch.MatchType),
			})
		}
	}

	for _, prop := range missing {
		if prop.Mandatory {
			report.Categorized.Critical = append(report.Categorized.Critical, models.CategorizedRecommendation{
				Message:  fmt.Sprintf("'%s' is missing mandatory property '%s'", parent, prop.Name),
				Element:  parent + "." + prop.Name,
				Reason:   models.ReasonMandatoryMismatch,
				Priority: models.PriorityCritical,
			})
		} else {
			report.Categorized.Important = append(report.Categorized.Important, models.CategorizedRecommendation{
				Message:  fmt.Sprintf("'%s' is missing optional property '%s'", parent, prop.Name),
				Element:  parent + "." + prop.Name,
				Priority: models.PriorityMedium,
			})
		}
	}
}

// categorizeFieldRecommendation routes one reason-coded recommendation into
// its severity bucket
func categorizeFieldRecommendation(report *models.ComparisonReport, match models.FieldMatch, rec models.FieldRecommendation, element string) {
	entry := models.CategorizedRecommendation{
		Message:  rec.Detail,
		Element:  element,
		Reason:   rec.Reason,
		Priority: priorityFor(match.MatchType),
	}

	switch rec.Reason {
	case models.ReasonTypeMismatch, models.ReasonMandatoryMismatch:
		entry.Priority = models.PriorityCritical
		report.Categorized.Critical = append(report.Categorized.Critical, entry)
	case models.ReasonCaseOnly, models.ReasonFormatOnly:
		report.Categorized.Style = append(report.Categorized.Style, entry)
	case models.ReasonGeneralRename:
		if match.Similarity.Score >= cosmeticRenameCutoff {
			report.Categorized.Style = append(report.Categorized.Style, entry)
		} else {
			report.Categorized.Important = append(report.Categorized.Important, entry)
		}
	}
}

// categorizeMissingIndexes compares index structural keys between the
// matched pair and reports standard indexes the customer lacks
func categorizeMissingIndexes(report *models.ComparisonReport, match models.NodeMatch) {
	if len(match.TargetNode.Indexes) == 0 {
		return
	}

	customerKeys := make(map[string]struct{}, len(match.SourceNode.Indexes))
	for _, index := range match.SourceNode.Indexes {
		customerKeys[indexKey(index)] = struct{}{}
	}

	for _, index := range match.TargetNode.Indexes {
		if _, ok := customerKeys[indexKey(index)]; ok {
			continue
		}
		report.ByType.MissingIndexes = append(report.ByType.MissingIndexes, models.MissingIndexRecommendation{
			Label:         match.TargetNode.Label,
			Kind:          index.Kind,
			Properties:    index.Properties,
			CreateCommand: indexCreateCommand(match.TargetNode.Label, index),
			Priority:      models.PriorityMedium,
		})
	}
}

// indexKey builds the structural identity of an index: its kind plus its
// property set, order-insensitive
func indexKey(index models.Index) string {
	props := make([]string, len(index.Properties))
	copy(props, index.Properties)
	sort.Strings(props)
	return string(index.Kind) + ":" + strings.Join(props, ",")
}

func indexCreateCommand(label string, index models.Index) string {
	qualified := make([]string, len(index.Properties))
	for i, prop := range index.Properties {
		qualified[i] = "n." + prop
	}
	switch index.Kind {
	case models.IndexFulltext:
		return fmt.Sprintf("CREATE FULLTEXT INDEX FOR (n:%s) ON EACH [%s]", label, strings.Join(qualified, ", "))
	case models.IndexVector:
		return fmt.Sprintf("CREATE VECTOR INDEX FOR (n:%s) ON (%s)", label, strings.Join(qualified, ", "))
	default:
		return fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (%s)", label, strings.Join(qualified, ", "))
	}
}

// priorityFor derives fix urgency from match quality: the weaker the match,
// the more urgent the correction
func priorityFor(matchType models.MatchType) models.Priority {
	switch matchType {
	case models.MatchExact:
		return models.PriorityLow
	case models.MatchStrong:
		return models.PriorityMedium
	case models.MatchModerate:
		return models.PriorityHigh
	default:
		return models.PriorityCritical
	}
}

// classifyCompliance maps the critical-issue count and compliance score to a
// level. Pure function, boundary-inclusive on the score.
func classifyCompliance(criticalCount int, score float64) models.ComplianceLevel {
	switch {
	case criticalCount == 0 && score >= 0.95:
		return models.ComplianceExcellent
	case criticalCount == 0 && score >= 0.85:
		return models.ComplianceGood
	case criticalCount <= 2 && score >= 0.70:
		return models.ComplianceFair
	case criticalCount <= 5 && score >= 0.50:
		return models.CompliancePoor
	default:
		return models.ComplianceCritical
	}
}

func countPriorities(categorized models.CategorizedRecommendations) map[models.Priority]int {
	counts := map[models.Priority]int{}
	for _, bucket := range [][]models.CategorizedRecommendation{
		categorized.Critical,
		categorized.Important,
		categorized.Style,
		categorized.Optimization,
	} {
		for _, rec := range bucket {
			counts[rec.Priority]++
		}
	}
	return counts
}

func typesOf(props []models.PropertyDefinition, name string) []string {
	for _, prop := range props {
		if prop.Name == name {
			return prop.Types
		}
	}
	return nil
}
