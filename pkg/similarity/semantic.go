package similarity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/Ramsey-B/fern/pkg/abbrev"
)

// ErrEmbedderDisabled is returned by DisabledEmbedder.Embed
var ErrEmbedderDisabled = errors.New("embedding backend is not configured")

// domainContext primes the embedding model with the kind of text it is
// scoring; bare field names embed poorly without it.
const domainContext = "database field schema property"

// Embedder produces a vector embedding for a short text. Implementations
// must be safe for repeated sequential use.
type Embedder interface {
	Embed(text string) ([]float64, error)
	Available() bool
}

// DisabledEmbedder is the stub wired in when no embedding backend is
// configured. Selected at construction time, never by runtime detection.
type DisabledEmbedder struct{}

func (DisabledEmbedder) Embed(string) ([]float64, error) {
	return nil, ErrEmbedderDisabled
}

func (DisabledEmbedder) Available() bool {
	return false
}

// HTTPEmbedder calls an OpenAI-compatible embeddings endpoint
type HTTPEmbedder struct {
	url    string
	model  string
	client *http.Client
}

func NewHTTPEmbedder(url, model string, timeout time.Duration) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (e *HTTPEmbedder) Available() bool {
	return true
}

func (e *HTTPEmbedder) Embed(text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	resp, err := e.client.Post(e.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding backend returned status %d", resp.StatusCode)
	}

	var body struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(body.Data) == 0 || len(body.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding backend returned no vectors")
	}
	return body.Data[0].Embedding, nil
}

// SemanticCalculator scores by embedding-vector cosine similarity. When the
// backend is unavailable it reports a legitimate zero-signal result rather
// than an error.
type SemanticCalculator struct {
	embedder Embedder
	expander *abbrev.Expander
}

func NewSemanticCalculator(embedder Embedder, expander *abbrev.Expander) *SemanticCalculator {
	if embedder == nil {
		embedder = DisabledEmbedder{}
	}
	if expander == nil {
		expander = abbrev.NewExpander(nil)
	}
	return &SemanticCalculator{embedder: embedder, expander: expander}
}

func (c *SemanticCalculator) Name() string {
	return TechniqueSemantic
}

func (c *SemanticCalculator) Calculate(text1, text2 string) Result {
	if text1 == "" || text2 == "" {
		return emptyResult(c.Name())
	}

	if !c.embedder.Available() {
		return Result{
			Score:      0,
			Confidence: 0,
			Technique:  c.Name(),
			Metadata:   map[string]any{"reason": "model_not_available"},
		}
	}

	rawScore, err := c.cosineOf(c.prepareText(text1), c.prepareText(text2))
	if err != nil {
		return c.degraded(err)
	}

	score := rawScore
	usedExpansion := false
	expanded1 := c.expander.Expand(text1)
	expanded2 := c.expander.Expand(text2)
	if expanded1 != strings.ToLower(text1) || expanded2 != strings.ToLower(text2) {
		expandedScore, err := c.cosineOf(c.prepareText(expanded1), c.prepareText(expanded2))
		if err != nil {
			return c.degraded(err)
		}
		if expandedScore > score {
			score = expandedScore
			usedExpansion = true
		}
	}

	confidence := 0.7
	if score > 0.8 {
		confidence = 0.9
	} else if score > 0.6 {
		confidence = 0.8
	}

	return Result{
		Score:      score,
		Confidence: confidence,
		Technique:  c.Name(),
		Metadata: map[string]any{
			"raw_score":      rawScore,
			"used_expansion": usedExpansion,
		},
	}
}

// degraded absorbs a backend failure into a low-confidence zero result so a
// broken embedding service never aborts a comparison
func (c *SemanticCalculator) degraded(err error) Result {
	return Result{
		Score:      0,
		Confidence: 0.3,
		Technique:  c.Name(),
		Metadata:   map[string]any{"error": err.Error()},
	}
}

func (c *SemanticCalculator) cosineOf(text1, text2 string) (float64, error) {
	vec1, err := c.embedder.Embed(text1)
	if err != nil {
		return 0, err
	}
	vec2, err := c.embedder.Embed(text2)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(vec1, vec2), nil
}

// prepareText turns a field name into readable text the embedding model can
// make sense of, prefixed with the domain context
func (c *SemanticCalculator) prepareText(text string) string {
	readable := strings.Join(abbrev.ExtractWords(text), " ")
	if readable == "" {
		readable = strings.ToLower(text)
	}
	return domainContext + ": " + readable
}

// CosineSimilarity computes the cosine of the angle between two vectors,
// clamped to [0, 1]. Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(vec1, vec2 []float64) float64 {
	if len(vec1) == 0 || len(vec1) != len(vec2) {
		return 0
	}
	var dot, norm1, norm2 float64
	for i := range vec1 {
		dot += vec1[i] * vec2[i]
		norm1 += vec1[i] * vec1[i]
		norm2 += vec2[i] * vec2[i]
	}
	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
