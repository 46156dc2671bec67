package models

import "github.com/Ramsey-B/fern/pkg/similarity"

// MatchType is the discretized quality tier of one field-level similarity score
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchStrong   MatchType = "strong"
	MatchModerate MatchType = "moderate"
	MatchWeak     MatchType = "weak"
	MatchNone     MatchType = "no_match"
)

// ReasonCode tags a field recommendation with a machine-readable cause so the
// comparator can route it without sniffing message text.
type ReasonCode string

const (
	ReasonCaseOnly          ReasonCode = "case_only"
	ReasonFormatOnly        ReasonCode = "format_only" // underscore vs camelCase
	ReasonGeneralRename     ReasonCode = "general_rename"
	ReasonTypeMismatch      ReasonCode = "type_mismatch"
	ReasonMandatoryMismatch ReasonCode = "mandatory_mismatch"
)

// FieldRecommendation is one actionable note attached to a field match
type FieldRecommendation struct {
	Reason ReasonCode `json:"reason"`
	Detail string     `json:"detail"`
}

// FieldMatch represents a match between two schema element names
type FieldMatch struct {
	SourceField     string                `json:"source_field"`
	TargetField     string                `json:"target_field"`
	MatchType       MatchType             `json:"match_type"`
	Similarity      similarity.Result     `json:"similarity"`
	Confidence      float64               `json:"confidence"`
	Recommendations []FieldRecommendation `json:"recommendations,omitempty"`
}

// IsAcceptable reports whether the match meets the minimum threshold
func (m FieldMatch) IsAcceptable(threshold float64) bool {
	return m.Similarity.Score >= threshold
}

// CandidateScore records one scored (source, candidate) pair, kept for
// transparency when candidate tracking is enabled
type CandidateScore struct {
	Target string  `json:"target"`
	Score  float64 `json:"score"`
}

// NodeMatch aggregates the label-level match for one customer node plus its
// per-property matches. TargetNode is nil when no standard node met the
// threshold; that is a normal outcome, not an error.
type NodeMatch struct {
	SourceNode        Node                 `json:"source_node"`
	TargetNode        *Node                `json:"target_node,omitempty"`
	LabelMatch        *FieldMatch          `json:"label_match,omitempty"`
	PropertyMatches   []FieldMatch         `json:"property_matches"`
	MissingProperties []PropertyDefinition `json:"missing_properties"`
	ExtraProperties   []PropertyDefinition `json:"extra_properties"`
	OverallConfidence float64              `json:"overall_confidence"`
	Candidates        []CandidateScore     `json:"candidates,omitempty"`
	Rationale         string               `json:"rationale,omitempty"`
}

// RelationshipMatch is the relationship-type counterpart of NodeMatch
type RelationshipMatch struct {
	SourceRelationship Relationship         `json:"source_relationship"`
	TargetRelationship *Relationship        `json:"target_relationship,omitempty"`
	TypeMatch          *FieldMatch          `json:"type_match,omitempty"`
	PropertyMatches    []FieldMatch         `json:"property_matches"`
	MissingProperties  []PropertyDefinition `json:"missing_properties"`
	ExtraProperties    []PropertyDefinition `json:"extra_properties"`
	OverallConfidence  float64              `json:"overall_confidence"`
	Candidates         []CandidateScore     `json:"candidates,omitempty"`
	Rationale          string               `json:"rationale,omitempty"`
}

// MatchSummary holds the aggregate counts for one comparison run
type MatchSummary struct {
	TotalCustomerNodes         int     `json:"total_customer_nodes"`
	TotalStandardNodes         int     `json:"total_standard_nodes"`
	MatchedNodes               int     `json:"matched_nodes"`
	TotalCustomerRelationships int     `json:"total_customer_relationships"`
	TotalStandardRelationships int     `json:"total_standard_relationships"`
	MatchedRelationships       int     `json:"matched_relationships"`
	OverallComplianceScore     float64 `json:"overall_compliance_score"`
}

// MatchReport is the full output of one schema matching pass
type MatchReport struct {
	NodeMatches         []NodeMatch         `json:"node_matches"`
	RelationshipMatches []RelationshipMatch `json:"relationship_matches"`
	Summary             MatchSummary        `json:"summary"`
	Recommendations     []string            `json:"recommendations"`
}
