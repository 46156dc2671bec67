// Package standard fetches and parses the reference graph model a customer
// schema is compared against.
package standard

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

var (
	propertyLinePattern = regexp.MustCompile("^\\s*-\\s*`([^`]+)`\\s*\\(([^)]+)\\):\\s*(.*)$")
	labelLinePattern    = regexp.MustCompile("^\\s*-\\s*`([^`]+)`:")
	nodeSectionPattern  = regexp.MustCompile(`(?s)## 1\. Node Labels and Properties\n(.*?)(?:## 2\.|$)`)
	relSectionPattern   = regexp.MustCompile(`(?s)## 2\. Relationship Types and Properties\n(.*?)(?:## 3\.|$)`)
)

// ParseSchema parses the standard model's markdown document into a
// GraphSchema. Section 1 describes nodes, section 2 relationships.
func ParseSchema(markdown string) models.GraphSchema {
	schema := models.GraphSchema{
		Nodes:         []models.Node{},
		Relationships: []models.Relationship{},
	}

	if match := nodeSectionPattern.FindStringSubmatch(markdown); match != nil {
		schema.Nodes = parseNodeSection(match[1])
	}
	if match := relSectionPattern.FindStringSubmatch(markdown); match != nil {
		schema.Relationships = mergeRelationshipPaths(parseRelationshipSection(match[1]))
	}

	return schema
}

// parsePropertyLine parses one "- `name` (Type): description" bullet.
// A description starting with "Optional:" marks the property optional.
func parsePropertyLine(line string) (models.PropertyDefinition, bool) {
	match := propertyLinePattern.FindStringSubmatch(line)
	if match == nil {
		return models.PropertyDefinition{}, false
	}

	typeStr := strings.TrimSpace(match[2])
	var types []string
	if strings.Contains(typeStr, "List of") {
		inner := strings.TrimSpace(strings.ReplaceAll(typeStr, "List of", ""))
		types = []string{"List[" + inner + "]"}
	} else {
		types = []string{typeStr}
	}

	return models.PropertyDefinition{
		Name:      match[1],
		Types:     types,
		Mandatory: !strings.HasPrefix(match[3], "Optional:"),
	}, true
}

func parseNodeSection(content string) []models.Node {
	var nodes []models.Node
	var current *models.Node
	inProperties := false
	inLabels := false

	flush := func() {
		if current != nil {
			nodes = append(nodes, *current)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "### "):
			flush()
			label := strings.TrimSpace(line[4:])
			current = &models.Node{
				CypherRepresentation: "(:" + label + ")",
				Label:                label,
				AdditionalLabels:     []string{},
				Indexes:              []models.Index{},
				Constraints:          []models.Constraint{},
				Properties:           []models.PropertyDefinition{},
			}
			inProperties = false
			inLabels = false

		case trimmed == "- Labels:":
			inLabels = true
			inProperties = false

		case trimmed == "- Properties:":
			inProperties = true
			inLabels = false

		case inLabels && current != nil:
			if match := labelLinePattern.FindStringSubmatch(line); match != nil {
				label := match[1]
				if label != current.Label {
					current.AdditionalLabels = append(current.AdditionalLabels, label)
				}
			}

		case inProperties && current != nil:
			if prop, ok := parsePropertyLine(line); ok {
				current.Properties = append(current.Properties, prop)
			}
		}
	}

	flush()
	return nodes
}

func parseRelationshipSection(content string) []models.Relationship {
	var relationships []models.Relationship
	var current *models.Relationship
	direction := ""
	inProperties := false

	flush := func() {
		if current == nil || direction == "" {
			return
		}
		parts := strings.Split(direction, "->")
		if len(parts) != 2 {
			return
		}
		source := strings.TrimSpace(parts[0])
		target := strings.TrimSpace(parts[1])
		current.Paths = []models.Path{
			{Pattern: "(:" + source + ")-[:" + current.Type + "]->(:" + target + ")"},
		}
		relationships = append(relationships, *current)
	}

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "### :"):
			flush()
			relType := strings.TrimSpace(line[5:])
			current = &models.Relationship{
				CypherRepresentation: "[:" + relType + "]",
				Type:                 relType,
				Paths:                []models.Path{},
				Properties:           []models.PropertyDefinition{},
			}
			direction = ""
			inProperties = false

		case strings.HasPrefix(line, "- Direction:"):
			direction = strings.TrimSpace(strings.TrimPrefix(line, "- Direction:"))

		case strings.HasPrefix(line, "- Properties:"):
			inProperties = true
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "None" {
				inProperties = false
				i++
			}

		case inProperties && current != nil:
			if prop, ok := parsePropertyLine(line); ok {
				current.Properties = append(current.Properties, prop)
			}
		}
	}

	flush()
	return relationships
}

// mergeRelationshipPaths merges entries sharing a relationship type; a type
// documented once per endpoint pair becomes one relationship with multiple
// paths
func mergeRelationshipPaths(relationships []models.Relationship) []models.Relationship {
	merged := []models.Relationship{}
	index := map[string]int{}

	for _, rel := range relationships {
		if at, ok := index[rel.Type]; ok {
			merged[at].Paths = append(merged[at].Paths, rel.Paths...)
			continue
		}
		index[rel.Type] = len(merged)
		merged = append(merged, rel)
	}
	return merged
}
