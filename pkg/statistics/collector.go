// Package statistics aggregates matching metrics across a comparison run to
// surface technique effectiveness and systematic naming issues.
package statistics

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Ramsey-B/fern/pkg/models"
)

// UnmatchedElement records one source element that found no counterpart
type UnmatchedElement struct {
	Name       string  `json:"name"`
	ParentKind string  `json:"parent_kind,omitempty"`
	ParentName string  `json:"parent_name,omitempty"`
	BestScore  float64 `json:"best_score"`
	Technique  string  `json:"technique"`
}

// TechniqueEffectiveness summarizes how one similarity technique performed
type TechniqueEffectiveness struct {
	UsageCount   int     `json:"usage_count"`
	SuccessRate  float64 `json:"success_rate"`
	AverageScore float64 `json:"average_score"`
}

// Overview holds the run-level totals and match rates
type Overview struct {
	TotalNodesAnalyzed         int     `json:"total_nodes_analyzed"`
	TotalRelationshipsAnalyzed int     `json:"total_relationships_analyzed"`
	TotalPropertiesAnalyzed    int     `json:"total_properties_analyzed"`
	NodeMatchRate              float64 `json:"node_match_rate"`
	RelationshipMatchRate      float64 `json:"relationship_match_rate"`
	PropertyMatchRate          float64 `json:"property_match_rate"`
}

// UnmatchedAnalysis characterizes the elements that never matched
type UnmatchedAnalysis struct {
	NodeCount                 int      `json:"node_count"`
	NodeAverageBestScore      float64  `json:"node_average_best_score"`
	CommonNodePrefixes        []string `json:"common_node_prefixes,omitempty"`
	LikelyMissingFromStandard bool     `json:"likely_missing_from_standard"`
	RelationshipCount         int      `json:"relationship_count"`
	RelationshipTypes         []string `json:"relationship_types,omitempty"`
	PropertyCount             int      `json:"property_count"`
}

// Summary is the full statistics rollup for one comparison run
type Summary struct {
	Overview               Overview                          `json:"overview"`
	NodeMatchesByType      map[models.MatchType]int          `json:"node_matches_by_type"`
	RelationshipsByType    map[models.MatchType]int          `json:"relationship_matches_by_type"`
	PropertiesByType       map[models.MatchType]int          `json:"property_matches_by_type"`
	Techniques             map[string]TechniqueEffectiveness `json:"technique_effectiveness"`
	CaseMismatches         int                               `json:"case_mismatches"`
	AbbreviationsFound     int                               `json:"abbreviations_found"`
	NamingConventionIssues map[string]int                    `json:"naming_convention_issues"`
	Unmatched              UnmatchedAnalysis                 `json:"unmatched_analysis"`
}

// Collector accumulates per-element match outcomes and derives run statistics.
// A Collector is not safe for concurrent use; each comparison run gets its own.
type Collector struct {
	nodesAnalyzed         int
	relationshipsAnalyzed int
	propertiesAnalyzed    int

	nodeMatchesByType map[models.MatchType]int
	relMatchesByType  map[models.MatchType]int
	propMatchesByType map[models.MatchType]int

	techniqueUsage   map[string]int
	techniqueScores  map[string][]float64
	techniqueMatches map[string]int

	unmatchedNodes         []UnmatchedElement
	unmatchedRelationships []UnmatchedElement
	unmatchedProperties    []UnmatchedElement

	abbreviationPatterns map[string]string
	caseMismatches       [][2]string
	conventionIssues     map[string][]string
}

// NewCollector creates an empty statistics collector
func NewCollector() *Collector {
	return &Collector{
		nodeMatchesByType:    map[models.MatchType]int{},
		relMatchesByType:     map[models.MatchType]int{},
		propMatchesByType:    map[models.MatchType]int{},
		techniqueUsage:       map[string]int{},
		techniqueScores:      map[string][]float64{},
		techniqueMatches:     map[string]int{},
		abbreviationPatterns: map[string]string{},
		conventionIssues:     map[string][]string{},
	}
}

// CollectReport feeds a whole match report through the collector
func (c *Collector) CollectReport(report *models.MatchReport) {
	if report == nil {
		return
	}
	for _, nodeMatch := range report.NodeMatches {
		c.collectNodeMatch(nodeMatch)
	}
	for _, relMatch := range report.RelationshipMatches {
		c.collectRelationshipMatch(relMatch)
	}
}

func (c *Collector) collectNodeMatch(match models.NodeMatch) {
	if match.TargetNode != nil && match.LabelMatch != nil {
		c.RecordNodeMatch(match.SourceNode.Label, match.TargetNode.Label,
			match.LabelMatch.MatchType, match.LabelMatch.Similarity.Score, match.LabelMatch.Similarity.Technique)
		for _, prop := range match.PropertyMatches {
			c.RecordPropertyMatch(prop.SourceField, prop.TargetField,
				prop.MatchType, prop.Similarity.Score, prop.Similarity.Technique, "node", match.SourceNode.Label)
		}
		return
	}

	bestScore := 0.0
	for _, candidate := range match.Candidates {
		if candidate.Score > bestScore {
			bestScore = candidate.Score
		}
	}
	c.RecordNodeMatch(match.SourceNode.Label, "", models.MatchNone, bestScore, "")
}

func (c *Collector) collectRelationshipMatch(match models.RelationshipMatch) {
	if match.TargetRelationship != nil && match.TypeMatch != nil {
		c.RecordRelationshipMatch(match.SourceRelationship.Type, match.TargetRelationship.Type,
			match.TypeMatch.MatchType, match.TypeMatch.Similarity.Score, match.TypeMatch.Similarity.Technique)
		for _, prop := range match.PropertyMatches {
			c.RecordPropertyMatch(prop.SourceField, prop.TargetField,
				prop.MatchType, prop.Similarity.Score, prop.Similarity.Technique, "relationship", match.SourceRelationship.Type)
		}
		return
	}

	bestScore := 0.0
	for _, candidate := range match.Candidates {
		if candidate.Score > bestScore {
			bestScore = candidate.Score
		}
	}
	c.RecordRelationshipMatch(match.SourceRelationship.Type, "", models.MatchNone, bestScore, "")
}

// RecordNodeMatch records one node label match attempt. An empty target means
// the node found no counterpart.
func (c *Collector) RecordNodeMatch(source, target string, matchType models.MatchType, score float64, technique string) {
	c.nodesAnalyzed++
	c.nodeMatchesByType[matchType]++
	c.recordTechnique(technique, score, target != "")

	if target == "" {
		c.unmatchedNodes = append(c.unmatchedNodes, UnmatchedElement{
			Name: source, BestScore: score, Technique: technique,
		})
		return
	}
	c.analyzeNamingPattern(source, target, "node")
}

// RecordRelationshipMatch records one relationship type match attempt
func (c *Collector) RecordRelationshipMatch(source, target string, matchType models.MatchType, score float64, technique string) {
	c.relationshipsAnalyzed++
	c.relMatchesByType[matchType]++
	c.recordTechnique(technique, score, target != "")

	if target == "" {
		c.unmatchedRelationships = append(c.unmatchedRelationships, UnmatchedElement{
			Name: source, BestScore: score, Technique: technique,
		})
		return
	}
	c.analyzeNamingPattern(source, target, "relationship")
}

// RecordPropertyMatch records one property match attempt under the given
// parent element
func (c *Collector) RecordPropertyMatch(source, target string, matchType models.MatchType, score float64, technique, parentKind, parentName string) {
	c.propertiesAnalyzed++
	c.propMatchesByType[matchType]++
	c.recordTechnique(technique, score, target != "")

	if target == "" {
		c.unmatchedProperties = append(c.unmatchedProperties, UnmatchedElement{
			Name: source, ParentKind: parentKind, ParentName: parentName,
			BestScore: score, Technique: technique,
		})
		return
	}
	c.analyzeNamingPattern(source, target, "property")
}

func (c *Collector) recordTechnique(technique string, score float64, matched bool) {
	if technique == "" {
		return
	}
	c.techniqueUsage[technique]++
	c.techniqueScores[technique] = append(c.techniqueScores[technique], score)
	if matched {
		c.techniqueMatches[technique]++
	}
}

func (c *Collector) analyzeNamingPattern(source, target, elementKind string) {
	if strings.EqualFold(source, target) && source != target {
		c.caseMismatches = append(c.caseMismatches, [2]string{source, target})

		switch elementKind {
		case "node":
			if !isPascalCase(target) {
				c.conventionIssues["node_not_pascal"] = append(c.conventionIssues["node_not_pascal"], source)
			}
		case "relationship":
			if !isUpperSnakeCase(target) {
				c.conventionIssues["rel_not_upper"] = append(c.conventionIssues["rel_not_upper"], source)
			}
		case "property":
			if !isCamelCase(target) {
				c.conventionIssues["prop_not_camel"] = append(c.conventionIssues["prop_not_camel"], source)
			}
		}
	}

	// a source substantially shorter than its target is likely abbreviated
	if float64(len(source)) < float64(len(target))*0.7 {
		c.abbreviationPatterns[source] = target
	}

	if strings.Contains(source, "_") && !strings.Contains(target, "_") {
		c.conventionIssues["underscore_to_camel"] = append(c.conventionIssues["underscore_to_camel"], source+" -> "+target)
	}
	if strings.Contains(source, "-") && !strings.Contains(target, "-") {
		c.conventionIssues["hyphen_to_camel"] = append(c.conventionIssues["hyphen_to_camel"], source+" -> "+target)
	}
}

// Summary derives the full statistics rollup from everything recorded so far
func (c *Collector) Summary() Summary {
	summary := Summary{
		Overview: Overview{
			TotalNodesAnalyzed:         c.nodesAnalyzed,
			TotalRelationshipsAnalyzed: c.relationshipsAnalyzed,
			TotalPropertiesAnalyzed:    c.propertiesAnalyzed,
			NodeMatchRate:              matchRate(c.nodesAnalyzed, len(c.unmatchedNodes)),
			RelationshipMatchRate:      matchRate(c.relationshipsAnalyzed, len(c.unmatchedRelationships)),
			PropertyMatchRate:          matchRate(c.propertiesAnalyzed, len(c.unmatchedProperties)),
		},
		NodeMatchesByType:      copyCounts(c.nodeMatchesByType),
		RelationshipsByType:    copyCounts(c.relMatchesByType),
		PropertiesByType:       copyCounts(c.propMatchesByType),
		Techniques:             c.techniqueEffectiveness(),
		CaseMismatches:         len(c.caseMismatches),
		AbbreviationsFound:     len(c.abbreviationPatterns),
		NamingConventionIssues: map[string]int{},
		Unmatched:              c.analyzeUnmatched(),
	}
	for issue, examples := range c.conventionIssues {
		summary.NamingConventionIssues[issue] = len(examples)
	}
	return summary
}

func (c *Collector) techniqueEffectiveness() map[string]TechniqueEffectiveness {
	out := make(map[string]TechniqueEffectiveness, len(c.techniqueUsage))
	for technique, usage := range c.techniqueUsage {
		effectiveness := TechniqueEffectiveness{UsageCount: usage}
		if scores := c.techniqueScores[technique]; len(scores) > 0 {
			total := 0.0
			for _, score := range scores {
				total += score
			}
			effectiveness.AverageScore = total / float64(len(scores))
		}
		if usage > 0 {
			effectiveness.SuccessRate = float64(c.techniqueMatches[technique]) / float64(usage)
		}
		out[technique] = effectiveness
	}
	return out
}

func (c *Collector) analyzeUnmatched() UnmatchedAnalysis {
	analysis := UnmatchedAnalysis{
		NodeCount:         len(c.unmatchedNodes),
		RelationshipCount: len(c.unmatchedRelationships),
		PropertyCount:     len(c.unmatchedProperties),
	}

	if len(c.unmatchedNodes) > 0 {
		total := 0.0
		labels := make([]string, 0, len(c.unmatchedNodes))
		for _, node := range c.unmatchedNodes {
			total += node.BestScore
			labels = append(labels, node.Name)
		}
		analysis.NodeAverageBestScore = total / float64(len(c.unmatchedNodes))
		analysis.CommonNodePrefixes = commonPrefixes(labels, 3)
		analysis.LikelyMissingFromStandard = analysis.NodeAverageBestScore < 0.5
	}

	for _, rel := range c.unmatchedRelationships {
		analysis.RelationshipTypes = append(analysis.RelationshipTypes, rel.Name)
	}
	return analysis
}

// Recommendations suggests process improvements based on the recorded
// patterns: underperforming techniques, systematic case drift, dictionary
// gaps, and candidates for standard-model additions.
func (c *Collector) Recommendations() []string {
	var recommendations []string

	techniques := make([]string, 0, len(c.techniqueUsage))
	for technique := range c.techniqueUsage {
		techniques = append(techniques, technique)
	}
	sort.Strings(techniques)

	for _, technique := range techniques {
		usage := c.techniqueUsage[technique]
		if usage == 0 {
			continue
		}
		rate := float64(c.techniqueMatches[technique]) / float64(usage)
		if rate < 0.3 {
			recommendations = append(recommendations, fmt.Sprintf(
				"Consider adjusting weights for the '%s' technique (current success rate: %.0f%%)", technique, rate*100))
		}
	}

	if len(c.caseMismatches) > 5 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Found %d case-only mismatches; consider a case-insensitive first pass", len(c.caseMismatches)))
	}
	if len(c.abbreviationPatterns) > 10 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Detected %d abbreviations; consider expanding the abbreviation dictionary", len(c.abbreviationPatterns)))
	}

	if len(c.unmatchedNodes) > 0 {
		limit := len(c.unmatchedNodes)
		if limit > 5 {
			limit = 5
		}
		labels := make([]string, 0, limit)
		for _, node := range c.unmatchedNodes[:limit] {
			labels = append(labels, node.Name)
		}
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider adding these nodes to the standard schema: %s", strings.Join(labels, ", ")))
	}

	return recommendations
}

// AbbreviationPatterns returns the abbreviated-source -> full-target pairs
// observed during matching
func (c *Collector) AbbreviationPatterns() map[string]string {
	out := make(map[string]string, len(c.abbreviationPatterns))
	for abbrev, full := range c.abbreviationPatterns {
		out[abbrev] = full
	}
	return out
}

func matchRate(total, unmatched int) float64 {
	if total == 0 {
		return 0
	}
	return float64(total-unmatched) / float64(total)
}

func copyCounts(counts map[models.MatchType]int) map[models.MatchType]int {
	out := make(map[models.MatchType]int, len(counts))
	for matchType, count := range counts {
		out[matchType] = count
	}
	return out
}

func isPascalCase(text string) bool {
	if text == "" {
		return false
	}
	first := rune(text[0])
	return unicode.IsUpper(first) && !strings.ContainsAny(text, "_-")
}

func isCamelCase(text string) bool {
	if text == "" {
		return false
	}
	first := rune(text[0])
	return unicode.IsLower(first) && !strings.ContainsAny(text, "_-")
}

func isUpperSnakeCase(text string) bool {
	if text == "" {
		return false
	}
	stripped := strings.ReplaceAll(text, "_", "")
	if stripped == "" {
		return false
	}
	return stripped == strings.ToUpper(stripped) && strings.ContainsAny(stripped, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

// commonPrefixes finds prefixes of at least minLength shared by two or more
// strings, ranked by frequency then length, capped at five
func commonPrefixes(strs []string, minLength int) []string {
	if len(strs) == 0 {
		return nil
	}

	counts := map[string]int{}
	for _, s := range strs {
		limit := len(s)
		if limit > 10 {
			limit = 10
		}
		for length := minLength; length < limit; length++ {
			counts[s[:length]]++
		}
	}

	var prefixes []string
	for prefix, count := range counts {
		if count >= 2 {
			prefixes = append(prefixes, prefix)
		}
	}

	sort.Slice(prefixes, func(i, j int) bool {
		if counts[prefixes[i]] != counts[prefixes[j]] {
			return counts[prefixes[i]] > counts[prefixes[j]]
		}
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	if len(prefixes) > 5 {
		prefixes = prefixes[:5]
	}
	return prefixes
}
