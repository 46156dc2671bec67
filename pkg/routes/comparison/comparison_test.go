package comparison

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/comparator"
	"github.com/Ramsey-B/fern/pkg/matcher"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/orchestrator"
	"github.com/Ramsey-B/fern/pkg/similarity"
	"github.com/Ramsey-B/fern/pkg/standard"
)

type staticSource struct {
	schema *models.GraphSchema
}

func (s *staticSource) ExtractSchema(context.Context) (*models.GraphSchema, error) {
	return s.schema, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	composite, err := similarity.NewComposite(similarity.CompositeConfig{})
	require.NoError(t, err)
	comp := comparator.New(logger, matcher.New(logger, composite, matcher.DefaultConfig()))

	source := &staticSource{schema: &models.GraphSchema{
		Nodes: []models.Node{
			{
				Label: "Account",
				Properties: []models.PropertyDefinition{
					{Name: "accountNumber", Types: []string{"String"}, Mandatory: true},
				},
			},
		},
	}}
	provider := &standard.StaticProvider{Schema: standard.FallbackSchema()}
	orch := orchestrator.New(logger, source, provider, comp, nil, "neo4j")

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	NewHandler(orch, logger).Register(e.Group("/api/v1/comparison"))
	return e
}

func doRequest(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRunEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/comparison/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result orchestrator.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Report)
	assert.Equal(t, 1, result.Report.Summary.TotalCustomerNodes)
	assert.Equal(t, 2, result.Report.Summary.TotalStandardNodes)
}

func TestCompareSchemasEndpoint(t *testing.T) {
	e := newTestServer(t)

	body := CompareSchemasRequest{
		CustomerSchema: models.GraphSchema{
			Nodes: []models.Node{{Label: "ACCOUNT"}},
		},
		StandardSchema: models.GraphSchema{
			Nodes: []models.Node{{Label: "Account"}},
		},
	}

	rec := doRequest(e, http.MethodPost, "/api/v1/comparison/schemas", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result orchestrator.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Report.Summary.MatchedNodes)
}

func TestStandardSchemaEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/comparison/schema/standard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var schema models.GraphSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Len(t, schema.Nodes, 2)
}

func TestDatabaseSchemaEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/comparison/schema/database", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var schema models.GraphSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	require.Len(t, schema.Nodes, 1)
	assert.Equal(t, "Account", schema.Nodes[0].Label)
}

func TestValidateSettingsEndpoint(t *testing.T) {
	e := newTestServer(t)

	t.Run("invalid threshold reports valid=false with 200", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/comparison/settings/validate",
			ValidateSettingsRequest{SimilarityThreshold: 1.5, UseAdaptive: true})
		require.Equal(t, http.StatusOK, rec.Code)

		var result orchestrator.ValidationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Valid)
	})

	t.Run("default threshold is valid", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/v1/comparison/settings/validate",
			ValidateSettingsRequest{SimilarityThreshold: 0.7, UseAdaptive: true})
		require.Equal(t, http.StatusOK, rec.Code)

		var result orchestrator.ValidationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Warnings)
	})
}

func TestRunWithoutComparatorIsUnavailable(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	NewHandler(nil, logger).Register(e.Group("/api/v1/comparison"))

	rec := doRequest(e, http.MethodPost, "/api/v1/comparison/run", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
