// Package models defines the schema and comparison types shared across Fern
package models

// PropertyDefinition describes one property slot on a node or relationship.
// Types is a list because a graph property may carry more than one type
// (e.g. ["String"] or ["Long", "String"] when the data is inconsistent).
type PropertyDefinition struct {
	Name      string   `json:"name"`
	Types     []string `json:"types"`
	Mandatory bool     `json:"mandatory"`
}

// ConstraintKind identifies the kind of a graph constraint
type ConstraintKind string

const (
	ConstraintNodeKey ConstraintKind = "NODE_KEY"
	ConstraintUnique  ConstraintKind = "UNIQUE"
	ConstraintExists  ConstraintKind = "EXISTS"
)

// Constraint describes a constraint declared on a node label
type Constraint struct {
	Kind       ConstraintKind `json:"kind"`
	Properties []string       `json:"properties"`
	Name       string         `json:"name,omitempty"`
}

// IndexKind identifies the kind of a graph index
type IndexKind string

const (
	IndexProperty IndexKind = "PROPERTY"
	IndexFulltext IndexKind = "FULLTEXT"
	IndexVector   IndexKind = "VECTOR"
)

// Index describes an index declared on a node label
type Index struct {
	Kind       IndexKind      `json:"kind"`
	Properties []string       `json:"properties"`
	Name       string         `json:"name,omitempty"`
	Config     map[string]any `json:"config,omitempty"`
}

// Node is one labeled node shape in a graph schema.
// Label is the primary identity used for matching; AdditionalLabels
// support multi-label composite nodes (e.g. Account:Internal).
type Node struct {
	CypherRepresentation string               `json:"cypher_representation"`
	Label                string               `json:"label"`
	AdditionalLabels     []string             `json:"additional_labels,omitempty"`
	Indexes              []Index              `json:"indexes"`
	Constraints          []Constraint         `json:"constraints"`
	Properties           []PropertyDefinition `json:"properties"`
}

// Path records one observed (:Start)-[:TYPE]->(:End) shape for a relationship type
type Path struct {
	Pattern string `json:"pattern"`
}

// Relationship is one relationship type in a graph schema. A type may have
// multiple paths when its endpoints are polymorphic.
type Relationship struct {
	CypherRepresentation string               `json:"cypher_representation"`
	Type                 string               `json:"type"`
	Paths                []Path               `json:"paths"`
	Properties           []PropertyDefinition `json:"properties"`
}

// GraphSchema is the full shape of one graph database: the customer schema
// as introspected from a live database, or the standard schema parsed from
// the reference model. Treated as immutable input to matching.
type GraphSchema struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}
