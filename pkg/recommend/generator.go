// Package recommend turns a comparison report into an ordered migration plan
// with concrete Cypher commands, impact notes, and rollback guidance.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

// ActionType classifies the kind of change a plan entry proposes
type ActionType string

const (
	ActionSchemaMigration    ActionType = "schema_migration"
	ActionPropertyChange     ActionType = "property_change"
	ActionConstraintAddition ActionType = "constraint_addition"
	ActionIndexAddition      ActionType = "index_addition"
	ActionDataTypeChange     ActionType = "data_type_change"
	ActionNamingConvention   ActionType = "naming_convention"
	ActionStructuralChange   ActionType = "structural_change"
)

// Plan is one actionable migration step. CypherCommands may include comment
// lines guiding manual review steps.
type Plan struct {
	ID               string          `json:"id"`
	Type             ActionType      `json:"type"`
	Priority         models.Priority `json:"priority"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	CypherCommands   []string        `json:"cypher_commands"`
	ImpactAssessment string          `json:"impact_assessment"`
	EstimatedEffort  string          `json:"estimated_effort"`
	Prerequisites    []string        `json:"prerequisites"`
	RollbackStrategy string          `json:"rollback_strategy"`
	AffectedElements []string        `json:"affected_elements"`
}

// migrationThreshold is the compliance score below which a comprehensive
// migration plan is appended
const migrationThreshold = 0.5

// Generator produces migration plans from match reports. Plan IDs are
// sequential per generator instance.
type Generator struct {
	nextID int
}

// NewGenerator creates a plan generator
func NewGenerator() *Generator {
	return &Generator{nextID: 1}
}

// Generate builds the full ordered plan for a match report: node and
// relationship fixes first, then a comprehensive-migration entry when overall
// compliance is below the migration threshold. Plans are sorted critical
// first; entries of equal priority keep generation order.
func (g *Generator) Generate(report *models.MatchReport) []Plan {
	var plans []Plan
	if report == nil {
		return plans
	}

	for _, nodeMatch := range report.NodeMatches {
		plans = append(plans, g.nodePlans(nodeMatch)...)
	}
	for _, relMatch := range report.RelationshipMatches {
		plans = append(plans, g.relationshipPlans(relMatch)...)
	}

	if report.Summary.OverallComplianceScore < migrationThreshold {
		plans = append(plans, g.comprehensiveMigrationPlan(report.Summary.OverallComplianceScore))
	}

	order := map[models.Priority]int{
		models.PriorityCritical: 0,
		models.PriorityHigh:     1,
		models.PriorityMedium:   2,
		models.PriorityLow:      3,
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return order[plans[i].Priority] < order[plans[j].Priority]
	})
	return plans
}

func (g *Generator) nodePlans(match models.NodeMatch) []Plan {
	if match.TargetNode == nil {
		return []Plan{g.unmatchedNodePlan(match)}
	}

	var plans []Plan
	if match.LabelMatch != nil && match.LabelMatch.MatchType != models.MatchExact {
		plans = append(plans, g.labelRenamePlan(match))
	}
	for _, missing := range match.MissingProperties {
		plans = append(plans, g.missingPropertyPlan(match.SourceNode.Label, missing))
	}
	for _, propMatch := range match.PropertyMatches {
		if hasReason(propMatch, models.ReasonTypeMismatch) {
			plans = append(plans, g.propertyTypePlan(match.SourceNode.Label, propMatch))
		}
	}
	for _, constraint := range missingConstraints(match.SourceNode, *match.TargetNode) {
		plans = append(plans, g.constraintPlan(match.SourceNode.Label, constraint))
	}
	for _, index := range missingIndexes(match.SourceNode, *match.TargetNode) {
		plans = append(plans, g.indexPlan(match.SourceNode.Label, index))
	}
	return plans
}

func (g *Generator) relationshipPlans(match models.RelationshipMatch) []Plan {
	if match.TargetRelationship == nil {
		return []Plan{g.unmatchedRelationshipPlan(match)}
	}

	var plans []Plan
	if match.TypeMatch != nil && match.TypeMatch.MatchType != models.MatchExact {
		plans = append(plans, g.relationshipRenamePlan(match))
	}
	for _, missing := range match.MissingProperties {
		plans = append(plans, g.missingRelationshipPropertyPlan(match.SourceRelationship.Type, missing))
	}
	return plans
}

func (g *Generator) unmatchedNodePlan(match models.NodeMatch) Plan {
	label := match.SourceNode.Label
	return Plan{
		ID:       g.id(),
		Type:     ActionStructuralChange,
		Priority: models.PriorityHigh,
		Title:    fmt.Sprintf("Review unmatched node: %s", label),
		Description: fmt.Sprintf("The node '%s' does not correspond to any standard node type. "+
			"Decide whether it is necessary or should be mapped to a standard type.", label),
		CypherCommands: []string{
			fmt.Sprintf("// Review all %s nodes and their usage", label),
			fmt.Sprintf("MATCH (n:%s) RETURN n LIMIT 10", label),
			fmt.Sprintf("MATCH (n:%s)-[r]-() RETURN type(r), count(*) ORDER BY count(*) DESC", label),
		},
		ImpactAssessment: "Medium - affects data model consistency but may not impact functionality",
		EstimatedEffort:  "2-4 hours for analysis and decision",
		Prerequisites:    []string{"Business stakeholder consultation", "Data usage analysis"},
		RollbackStrategy: "No changes made until decision is final",
		AffectedElements: []string{label},
	}
}

func (g *Generator) labelRenamePlan(match models.NodeMatch) Plan {
	source := match.SourceNode.Label
	target := match.TargetNode.Label

	caseOnly := strings.EqualFold(source, target)
	priority := models.PriorityHigh
	impact := "Medium - schema change affects queries"
	if caseOnly {
		priority = models.PriorityMedium
		impact = "Low - naming change only, no data loss"
	}

	return Plan{
		ID:          g.id(),
		Type:        ActionNamingConvention,
		Priority:    priority,
		Title:       fmt.Sprintf("Rename node label: %s -> %s", source, target),
		Description: fmt.Sprintf("Update node label '%s' to '%s' to match the standard naming convention.", source, target),
		CypherCommands: []string{
			fmt.Sprintf("MATCH (n:%s) SET n:%s", source, target),
			fmt.Sprintf("MATCH (n:%s) REMOVE n:%s", target, source),
		},
		ImpactAssessment: impact,
		EstimatedEffort:  "30 minutes - 1 hour",
		Prerequisites:    []string{"Backup database", "Update application queries"},
		RollbackStrategy: fmt.Sprintf("Rename back from %s to %s", target, source),
		AffectedElements: []string{source, target},
	}
}

func (g *Generator) missingPropertyPlan(label string, missing models.PropertyDefinition) Plan {
	priority := models.PriorityMedium
	impact := "Medium - optional property for completeness"
	kind := "optional"
	commands := []string{
		fmt.Sprintf("// Add optional property %s to %s nodes as needed", missing.Name, label),
		fmt.Sprintf("MATCH (n:%s) WHERE <condition> SET n.%s = <value>", label, missing.Name),
	}
	if missing.Mandatory {
		priority = models.PriorityCritical
		impact = "High - data model change affects compliance"
		kind = "mandatory"
		commands = []string{
			fmt.Sprintf("// Backfill %s with a default before enforcing it", missing.Name),
			fmt.Sprintf("MATCH (n:%s) WHERE n.%s IS NULL SET n.%s = '' // Replace with appropriate default", label, missing.Name, missing.Name),
			fmt.Sprintf("CREATE CONSTRAINT FOR (n:%s) REQUIRE n.%s IS NOT NULL", label, missing.Name),
		}
	}

	return Plan{
		ID:       g.id(),
		Type:     ActionPropertyChange,
		Priority: priority,
		Title:    fmt.Sprintf("Add missing property: %s.%s", label, missing.Name),
		Description: fmt.Sprintf("Add the %s property '%s' (type: %s) to %s nodes as required by the standard.",
			kind, missing.Name, strings.Join(missing.Types, ", "), label),
		CypherCommands:   commands,
		ImpactAssessment: impact,
		EstimatedEffort:  "1-3 hours depending on data migration needs",
		Prerequisites:    []string{"Determine appropriate default values", "Plan data migration strategy"},
		RollbackStrategy: fmt.Sprintf("MATCH (n:%s) REMOVE n.%s", label, missing.Name),
		AffectedElements: []string{label + "." + missing.Name},
	}
}

func (g *Generator) propertyTypePlan(label string, propMatch models.FieldMatch) Plan {
	prop := propMatch.SourceField
	return Plan{
		ID:          g.id(),
		Type:        ActionDataTypeChange,
		Priority:    models.PriorityHigh,
		Title:       fmt.Sprintf("Fix property type: %s.%s", label, prop),
		Description: fmt.Sprintf("Property '%s' has an incorrect data type. Update it to match the standard specification.", prop),
		CypherCommands: []string{
			fmt.Sprintf("MATCH (n:%s) RETURN DISTINCT valueType(n.%s) LIMIT 10", label, prop),
			"// Convert the type (adjust the conversion to the actual target type)",
			fmt.Sprintf("MATCH (n:%s) WHERE n.%s IS NOT NULL SET n.%s = toString(n.%s)", label, prop, prop, prop),
		},
		ImpactAssessment: "High - data type changes can affect application compatibility",
		EstimatedEffort:  "2-6 hours including testing",
		Prerequisites:    []string{"Backup database", "Test type conversion logic", "Update application code"},
		RollbackStrategy: "Restore from backup if conversion fails",
		AffectedElements: []string{label + "." + prop},
	}
}

func (g *Generator) constraintPlan(label string, constraint models.Constraint) Plan {
	propList := strings.Join(constraint.Properties, ", ")

	var command string
	switch constraint.Kind {
	case models.ConstraintUnique:
		command = fmt.Sprintf("CREATE CONSTRAINT FOR (n:%s) REQUIRE n.%s IS UNIQUE", label, constraint.Properties[0])
	case models.ConstraintNodeKey:
		specs := make([]string, len(constraint.Properties))
		for i, prop := range constraint.Properties {
			specs[i] = "n." + prop
		}
		command = fmt.Sprintf("CREATE CONSTRAINT FOR (n:%s) REQUIRE (%s) IS NODE KEY", label, strings.Join(specs, ", "))
	default:
		command = fmt.Sprintf("// Create %s constraint for %s(%s)", constraint.Kind, label, propList)
	}

	rollback := "DROP CONSTRAINT <constraint_name>"
	if constraint.Name != "" {
		rollback = "DROP CONSTRAINT " + constraint.Name
	}

	affected := make([]string, len(constraint.Properties))
	for i, prop := range constraint.Properties {
		affected[i] = label + "." + prop
	}

	return Plan{
		ID:          g.id(),
		Type:        ActionConstraintAddition,
		Priority:    models.PriorityHigh,
		Title:       fmt.Sprintf("Add %s constraint: %s(%s)", constraint.Kind, label, propList),
		Description: fmt.Sprintf("Add a %s constraint on %s properties (%s) as required by the standard.", constraint.Kind, label, propList),
		CypherCommands: []string{
			"// Check for existing data that would violate the constraint",
			fmt.Sprintf("MATCH (n:%s) WITH n.%s AS prop, count(*) AS cnt WHERE cnt > 1 RETURN prop, cnt", label, constraint.Properties[0]),
			command,
		},
		ImpactAssessment: "High - constraint addition may fail if data violates uniqueness",
		EstimatedEffort:  "1-2 hours including data validation",
		Prerequisites:    []string{"Clean duplicate data if necessary", "Validate constraint compatibility"},
		RollbackStrategy: rollback,
		AffectedElements: affected,
	}
}

func (g *Generator) indexPlan(label string, index models.Index) Plan {
	propList := strings.Join(index.Properties, ", ")

	var command string
	switch index.Kind {
	case models.IndexProperty:
		command = fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (n.%s)", label, index.Properties[0])
	case models.IndexFulltext:
		specs := make([]string, len(index.Properties))
		for i, prop := range index.Properties {
			specs[i] = "n." + prop
		}
		command = fmt.Sprintf("CREATE FULLTEXT INDEX FOR (n:%s) ON EACH [%s]", label, strings.Join(specs, ", "))
	default:
		command = fmt.Sprintf("// Create %s index for %s(%s)", index.Kind, label, propList)
	}

	rollback := "DROP INDEX <index_name>"
	if index.Name != "" {
		rollback = "DROP INDEX " + index.Name
	}

	affected := make([]string, len(index.Properties))
	for i, prop := range index.Properties {
		affected[i] = label + "." + prop
	}

	return Plan{
		ID:               g.id(),
		Type:             ActionIndexAddition,
		Priority:         models.PriorityMedium,
		Title:            fmt.Sprintf("Add %s index: %s(%s)", index.Kind, label, propList),
		Description:      fmt.Sprintf("Add a %s index on %s properties (%s) to improve query performance.", index.Kind, label, propList),
		CypherCommands:   []string{command},
		ImpactAssessment: "Low - performance improvement, no data changes",
		EstimatedEffort:  "15-30 minutes",
		Prerequisites:    []string{"Monitor query performance before and after"},
		RollbackStrategy: rollback,
		AffectedElements: affected,
	}
}

func (g *Generator) unmatchedRelationshipPlan(match models.RelationshipMatch) Plan {
	relType := match.SourceRelationship.Type
	return Plan{
		ID:          g.id(),
		Type:        ActionStructuralChange,
		Priority:    models.PriorityMedium,
		Title:       fmt.Sprintf("Review unmatched relationship: %s", relType),
		Description: fmt.Sprintf("The relationship type '%s' does not correspond to any standard relationship. Decide whether it is necessary.", relType),
		CypherCommands: []string{
			fmt.Sprintf("MATCH ()-[r:%s]-() RETURN count(r) AS relationship_count", relType),
			fmt.Sprintf("MATCH (a)-[r:%s]->(b) RETURN labels(a), labels(b), count(*) LIMIT 10", relType),
		},
		ImpactAssessment: "Medium - may affect data model semantics",
		EstimatedEffort:  "1-2 hours for analysis",
		Prerequisites:    []string{"Business stakeholder consultation"},
		RollbackStrategy: "No changes until decision is made",
		AffectedElements: []string{relType},
	}
}

func (g *Generator) relationshipRenamePlan(match models.RelationshipMatch) Plan {
	source := match.SourceRelationship.Type
	target := match.TargetRelationship.Type
	return Plan{
		ID:          g.id(),
		Type:        ActionNamingConvention,
		Priority:    models.PriorityMedium,
		Title:       fmt.Sprintf("Rename relationship: %s -> %s", source, target),
		Description: fmt.Sprintf("Update relationship type '%s' to '%s' to match standard naming.", source, target),
		CypherCommands: []string{
			fmt.Sprintf("MATCH (a)-[r:%s]->(b) CREATE (a)-[r2:%s]->(b) SET r2 = properties(r) DELETE r", source, target),
		},
		ImpactAssessment: "Medium - relationship type change affects queries",
		EstimatedEffort:  "1-2 hours",
		Prerequisites:    []string{"Update application queries", "Test relationship functionality"},
		RollbackStrategy: fmt.Sprintf("Rename back from %s to %s", target, source),
		AffectedElements: []string{source, target},
	}
}

func (g *Generator) missingRelationshipPropertyPlan(relType string, missing models.PropertyDefinition) Plan {
	return Plan{
		ID:          g.id(),
		Type:        ActionPropertyChange,
		Priority:    models.PriorityMedium,
		Title:       fmt.Sprintf("Add missing relationship property: %s.%s", relType, missing.Name),
		Description: fmt.Sprintf("Add property '%s' to %s relationships as required by the standard.", missing.Name, relType),
		CypherCommands: []string{
			fmt.Sprintf("MATCH ()-[r:%s]-() WHERE r.%s IS NULL SET r.%s = '' // Set appropriate default value", relType, missing.Name, missing.Name),
		},
		ImpactAssessment: "Medium - relationship property change",
		EstimatedEffort:  "1-2 hours",
		Prerequisites:    []string{"Determine appropriate default values"},
		RollbackStrategy: fmt.Sprintf("MATCH ()-[r:%s]-() REMOVE r.%s", relType, missing.Name),
		AffectedElements: []string{relType + "." + missing.Name},
	}
}

func (g *Generator) comprehensiveMigrationPlan(complianceScore float64) Plan {
	return Plan{
		ID:       g.id(),
		Type:     ActionSchemaMigration,
		Priority: models.PriorityCritical,
		Title:    "Comprehensive schema migration required",
		Description: fmt.Sprintf("The schema has a low compliance score (%.0f%%). "+
			"Consider a comprehensive migration to align with the standard.", complianceScore*100),
		CypherCommands: []string{
			"// Requires a staged migration strategy:",
			"// 1. Create migration plan",
			"// 2. Implement changes incrementally",
			"// 3. Validate at each step",
		},
		ImpactAssessment: "Critical - major schema restructuring required",
		EstimatedEffort:  "2-4 weeks depending on complexity",
		Prerequisites:    []string{"Complete data backup", "Staging environment"},
		RollbackStrategy: "Restore from backup - full migration rollback",
		AffectedElements: []string{"entire_schema"},
	}
}

func (g *Generator) id() string {
	id := fmt.Sprintf("REC-%04d", g.nextID)
	g.nextID++
	return id
}

func hasReason(match models.FieldMatch, reason models.ReasonCode) bool {
	for _, rec := range match.Recommendations {
		if rec.Reason == reason {
			return true
		}
	}
	return false
}

// missingConstraints returns target constraints with no structural
// counterpart on the source node. Identity is kind plus the sorted property
// set, so names do not matter.
func missingConstraints(source, target models.Node) []models.Constraint {
	existing := map[string]bool{}
	for _, constraint := range source.Constraints {
		existing[constraintKey(constraint)] = true
	}

	var missing []models.Constraint
	for _, constraint := range target.Constraints {
		if !existing[constraintKey(constraint)] {
			missing = append(missing, constraint)
		}
	}
	return missing
}

func missingIndexes(source, target models.Node) []models.Index {
	existing := map[string]bool{}
	for _, index := range source.Indexes {
		existing[indexKey(index)] = true
	}

	var missing []models.Index
	for _, index := range target.Indexes {
		if !existing[indexKey(index)] {
			missing = append(missing, index)
		}
	}
	return missing
}

func constraintKey(constraint models.Constraint) string {
	props := append([]string(nil), constraint.Properties...)
	sort.Strings(props)
	return string(constraint.Kind) + ":" + strings.Join(props, ":")
}

func indexKey(index models.Index) string {
	props := append([]string(nil), index.Properties...)
	sort.Strings(props)
	return string(index.Kind) + ":" + strings.Join(props, ":")
}
