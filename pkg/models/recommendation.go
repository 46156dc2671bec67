package models

// Priority is the urgency level assigned to one typed recommendation
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ComplianceLevel classifies an overall comparison result
type ComplianceLevel string

const (
	ComplianceExcellent ComplianceLevel = "excellent"
	ComplianceGood      ComplianceLevel = "good"
	ComplianceFair      ComplianceLevel = "fair"
	CompliancePoor      ComplianceLevel = "poor"
	ComplianceCritical  ComplianceLevel = "critical"
)

// CategorizedRecommendation is one issue routed into a severity bucket
type CategorizedRecommendation struct {
	Message  string     `json:"message"`
	Element  string     `json:"element"`
	Reason   ReasonCode `json:"reason,omitempty"`
	Priority Priority   `json:"priority"`
}

// CategorizedRecommendations groups issues by severity. Optimization is
// reserved for future use and currently always empty.
type CategorizedRecommendations struct {
	Critical     []CategorizedRecommendation `json:"critical"`
	Important    []CategorizedRecommendation `json:"important"`
	Style        []CategorizedRecommendation `json:"style"`
	Optimization []CategorizedRecommendation `json:"optimization"`
}

// RenameRecommendation captures a node label or relationship type rename with
// enough detail to template a fix command
type RenameRecommendation struct {
	CurrentName  string   `json:"current_name"`
	StandardName string   `json:"standard_name"`
	Similarity   float64  `json:"similarity"`
	Priority     Priority `json:"priority"`
}

// PropertyRenameRecommendation captures a property rename within a parent
// node label or relationship type
type PropertyRenameRecommendation struct {
	Parent       string   `json:"parent"`
	CurrentName  string   `json:"current_name"`
	StandardName string   `json:"standard_name"`
	Similarity   float64  `json:"similarity"`
	Priority     Priority `json:"priority"`
}

// MissingIndexRecommendation captures a standard index absent from the
// customer schema, with a mechanically generated creation command
type MissingIndexRecommendation struct {
	Label         string    `json:"label"`
	Kind          IndexKind `json:"kind"`
	Properties    []string  `json:"properties"`
	CreateCommand string    `json:"create_command"`
	Priority      Priority  `json:"priority"`
}

// TypeMismatchRecommendation captures a property whose types differ from the
// standard definition
type TypeMismatchRecommendation struct {
	Parent        string   `json:"parent"`
	Property      string   `json:"property"`
	CurrentTypes  []string `json:"current_types"`
	StandardTypes []string `json:"standard_types"`
	Priority      Priority `json:"priority"`
}

// RecommendationsByType groups typed recommendations by the kind of fix
type RecommendationsByType struct {
	NodeRenames         []RenameRecommendation         `json:"node_renames"`
	RelationshipRenames []RenameRecommendation         `json:"relationship_renames"`
	PropertyRenames     []PropertyRenameRecommendation `json:"property_renames"`
	MissingIndexes      []MissingIndexRecommendation   `json:"missing_indexes"`
	DataTypeMismatches  []TypeMismatchRecommendation   `json:"data_type_mismatches"`
}

// ComparisonReport is a MatchReport enriched with categorized and typed
// recommendations plus the overall compliance level
type ComparisonReport struct {
	MatchReport
	Categorized     CategorizedRecommendations `json:"categorized_recommendations"`
	ByType          RecommendationsByType      `json:"recommendations_by_type"`
	PriorityScores  map[Priority]int           `json:"priority_scores"`
	ComplianceLevel ComplianceLevel            `json:"compliance_level"`
}
