package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// DefaultModelURL points at the published Transactions and Accounts base
// model documentation
const DefaultModelURL = "https://neo4j.com/developer/industry-use-cases/_attachments/transactions-base-model.txt"

// Provider supplies the standard schema to compare against
type Provider interface {
	StandardSchema(ctx context.Context) (models.GraphSchema, error)
}

// HTTPProvider fetches and parses the published model document, falling back
// to a minimal hardcoded schema when the document is unreachable. The parsed
// schema is memoized for the provider's lifetime.
type HTTPProvider struct {
	url    string
	client *http.Client
	logger ectologger.Logger

	mu     sync.Mutex
	cached *models.GraphSchema
}

// NewHTTPProvider creates a provider for the given document URL. An empty
// URL uses the published default.
func NewHTTPProvider(url string, timeout time.Duration, logger ectologger.Logger) *HTTPProvider {
	if url == "" {
		url = DefaultModelURL
	}
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// StandardSchema returns the parsed standard model. Fetch or parse failures
// degrade to the fallback schema rather than failing the comparison.
func (p *HTTPProvider) StandardSchema(ctx context.Context) (models.GraphSchema, error) {
	ctx, span := tracing.StartSpan(ctx, "standard.HTTPProvider.StandardSchema")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return *p.cached, nil
	}

	log := p.logger.WithContext(ctx).WithFields(map[string]any{"url": p.url})

	markdown, err := p.fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch standard model document, using fallback schema")
		fallback := FallbackSchema()
		p.cached = &fallback
		return fallback, nil
	}

	schema := ParseSchema(markdown)
	if len(schema.Nodes) == 0 {
		log.Warn("Standard model document parsed to an empty schema, using fallback schema")
		fallback := FallbackSchema()
		p.cached = &fallback
		return fallback, nil
	}

	log.WithFields(map[string]any{
		"nodes":         len(schema.Nodes),
		"relationships": len(schema.Relationships),
	}).Info("Parsed standard model document")

	p.cached = &schema
	return schema, nil
}

func (p *HTTPProvider) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build standard model request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch standard model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("standard model fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read standard model response: %w", err)
	}
	return string(body), nil
}

// StaticProvider serves a fixed schema, used in tests and offline runs
type StaticProvider struct {
	Schema models.GraphSchema
}

func (p *StaticProvider) StandardSchema(context.Context) (models.GraphSchema, error) {
	return p.Schema, nil
}

// FallbackSchema is the minimal Customer/Account model used when the
// published document cannot be fetched or parsed
func FallbackSchema() models.GraphSchema {
	return models.GraphSchema{
		Nodes: []models.Node{
			{
				CypherRepresentation: "(:Customer)",
				Label:                "Customer",
				Indexes:              []models.Index{},
				Constraints:          []models.Constraint{},
				Properties: []models.PropertyDefinition{
					{Name: "customerId", Types: []string{"String"}, Mandatory: true},
				},
			},
			{
				CypherRepresentation: "(:Account)",
				Label:                "Account",
				Indexes:              []models.Index{},
				Constraints:          []models.Constraint{},
				Properties: []models.PropertyDefinition{
					{Name: "accountNumber", Types: []string{"String"}, Mandatory: true},
				},
			},
		},
		Relationships: []models.Relationship{
			{
				CypherRepresentation: "[:HAS_ACCOUNT]",
				Type:                 "HAS_ACCOUNT",
				Paths: []models.Path{
					{Pattern: "(:Customer)-[:HAS_ACCOUNT]->(:Account)"},
				},
				Properties: []models.PropertyDefinition{},
			},
		},
	}
}
