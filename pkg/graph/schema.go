package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	nodePropertiesQuery  = "CALL db.schema.nodeTypeProperties() YIELD nodeLabels, propertyName, propertyTypes, mandatory RETURN nodeLabels, propertyName, propertyTypes, mandatory"
	relPropertiesQuery   = "CALL db.schema.relTypeProperties() YIELD relType, propertyName, propertyTypes, mandatory RETURN relType, propertyName, propertyTypes, mandatory"
	relPathsQuery        = "MATCH (a)-[r]->(b) RETURN DISTINCT labels(a) AS fromLabels, type(r) AS relType, labels(b) AS toLabels"
	showIndexesQuery     = "SHOW INDEXES YIELD name, type, labelsOrTypes, properties RETURN name, type, labelsOrTypes, properties"
	showConstraintsQuery = "SHOW CONSTRAINTS YIELD name, type, labelsOrTypes, properties RETURN name, type, labelsOrTypes, properties"
)

// Extractor introspects a live database into a GraphSchema
type Extractor struct {
	client *Client
	logger ectologger.Logger
}

// NewExtractor creates a schema extractor over the given client
func NewExtractor(client *Client, logger ectologger.Logger) *Extractor {
	return &Extractor{client: client, logger: logger}
}

// ExtractSchema reads node shapes, relationship shapes, indexes, and
// constraints from the live database. Output ordering is deterministic
// (sorted by label/type) so downstream matching is reproducible.
func (e *Extractor) ExtractSchema(ctx context.Context) (*models.GraphSchema, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Extractor.ExtractSchema")
	defer span.End()

	log := e.logger.WithContext(ctx)
	log.Info("Extracting schema from live database")

	nodes, err := e.extractNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract node schema: %w", err)
	}

	relationships, err := e.extractRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relationship schema: %w", err)
	}

	if err := e.attachIndexesAndConstraints(ctx, nodes); err != nil {
		// older servers may not support SHOW INDEXES; the schema is still
		// usable without them
		log.WithError(err).Warn("Failed to read indexes and constraints")
	}

	schema := &models.GraphSchema{
		Nodes:         sortedNodes(nodes),
		Relationships: relationships,
	}

	log.WithFields(map[string]any{
		"nodes":         len(schema.Nodes),
		"relationships": len(schema.Relationships),
	}).Info("Schema extraction complete")

	return schema, nil
}

func (e *Extractor) extractNodes(ctx context.Context) (map[string]*models.Node, error) {
	nodes := make(map[string]*models.Node)

	_, err := e.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, nodePropertiesQuery, nil)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			labels := stringSliceValue(record, "nodeLabels")
			if len(labels) == 0 {
				continue
			}
			primary := labels[0]

			node, ok := nodes[primary]
			if !ok {
				node = &models.Node{
					CypherRepresentation: "(:" + strings.Join(labels, ":") + ")",
					Label:                primary,
					AdditionalLabels:     labels[1:],
					Indexes:              []models.Index{},
					Constraints:          []models.Constraint{},
					Properties:           []models.PropertyDefinition{},
				}
				nodes[primary] = node
			}

			name := stringValue(record, "propertyName")
			if name == "" {
				continue
			}
			node.Properties = append(node.Properties, models.PropertyDefinition{
				Name:      name,
				Types:     stringSliceValue(record, "propertyTypes"),
				Mandatory: boolValue(record, "mandatory"),
			})
		}
		return nil, nil
	})
	return nodes, err
}

func (e *Extractor) extractRelationships(ctx context.Context) ([]models.Relationship, error) {
	relationships := make(map[string]*models.Relationship)

	_, err := e.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, relPropertiesQuery, nil)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			relType := strings.Trim(stringValue(record, "relType"), ":`")
			if relType == "" {
				continue
			}

			rel, ok := relationships[relType]
			if !ok {
				rel = &models.Relationship{
					CypherRepresentation: "[:" + relType + "]",
					Type:                 relType,
					Paths:                []models.Path{},
					Properties:           []models.PropertyDefinition{},
				}
				relationships[relType] = rel
			}

			name := stringValue(record, "propertyName")
			if name == "" {
				continue
			}
			rel.Properties = append(rel.Properties, models.PropertyDefinition{
				Name:      name,
				Types:     stringSliceValue(record, "propertyTypes"),
				Mandatory: boolValue(record, "mandatory"),
			})
		}

		paths, err := tx.Run(ctx, relPathsQuery, nil)
		if err != nil {
			return nil, err
		}
		pathRecords, err := paths.Collect(ctx)
		if err != nil {
			return nil, err
		}

		for _, record := range pathRecords {
			relType := stringValue(record, "relType")
			rel, ok := relationships[relType]
			if !ok {
				rel = &models.Relationship{
					CypherRepresentation: "[:" + relType + "]",
					Type:                 relType,
					Paths:                []models.Path{},
					Properties:           []models.PropertyDefinition{},
				}
				relationships[relType] = rel
			}
			from := strings.Join(stringSliceValue(record, "fromLabels"), ":")
			to := strings.Join(stringSliceValue(record, "toLabels"), ":")
			rel.Paths = append(rel.Paths, models.Path{
				Pattern: fmt.Sprintf("(:%s)-[:%s]->(:%s)", from, relType, to),
			})
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(relationships))
	for relType := range relationships {
		types = append(types, relType)
	}
	sort.Strings(types)

	out := make([]models.Relationship, 0, len(types))
	for _, relType := range types {
		rel := relationships[relType]
		sort.Slice(rel.Paths, func(i, j int) bool { return rel.Paths[i].Pattern < rel.Paths[j].Pattern })
		out = append(out, *rel)
	}
	return out, nil
}

func (e *Extractor) attachIndexesAndConstraints(ctx context.Context, nodes map[string]*models.Node) error {
	_, err := e.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		indexes, err := tx.Run(ctx, showIndexesQuery, nil)
		if err != nil {
			return nil, err
		}
		indexRecords, err := indexes.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range indexRecords {
			labels := stringSliceValue(record, "labelsOrTypes")
			if len(labels) == 0 {
				continue
			}
			node, ok := nodes[labels[0]]
			if !ok {
				continue
			}
			node.Indexes = append(node.Indexes, models.Index{
				Kind:       indexKindOf(stringValue(record, "type")),
				Properties: stringSliceValue(record, "properties"),
				Name:       stringValue(record, "name"),
			})
		}

		constraints, err := tx.Run(ctx, showConstraintsQuery, nil)
		if err != nil {
			return nil, err
		}
		constraintRecords, err := constraints.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range constraintRecords {
			labels := stringSliceValue(record, "labelsOrTypes")
			if len(labels) == 0 {
				continue
			}
			node, ok := nodes[labels[0]]
			if !ok {
				continue
			}
			node.Constraints = append(node.Constraints, models.Constraint{
				Kind:       constraintKindOf(stringValue(record, "type")),
				Properties: stringSliceValue(record, "properties"),
				Name:       stringValue(record, "name"),
			})
		}
		return nil, nil
	})
	return err
}

func indexKindOf(serverType string) models.IndexKind {
	switch strings.ToUpper(serverType) {
	case "FULLTEXT":
		return models.IndexFulltext
	case "VECTOR":
		return models.IndexVector
	default:
		return models.IndexProperty
	}
}

func constraintKindOf(serverType string) models.ConstraintKind {
	upper := strings.ToUpper(serverType)
	switch {
	case strings.Contains(upper, "KEY"):
		return models.ConstraintNodeKey
	case strings.Contains(upper, "UNIQUE"):
		return models.ConstraintUnique
	default:
		return models.ConstraintExists
	}
}

func sortedNodes(nodes map[string]*models.Node) []models.Node {
	labels := make([]string, 0, len(nodes))
	for label := range nodes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]models.Node, 0, len(labels))
	for _, label := range labels {
		out = append(out, *nodes[label])
	}
	return out
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func stringSliceValue(record *neo4j.Record, key string) []string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolValue(record *neo4j.Record, key string) bool {
	value, ok := record.Get(key)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}
