package standard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestHTTPProviderParsesDocument(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second, testLogger())

	schema, err := provider.StandardSchema(context.Background())
	require.NoError(t, err)
	assert.Len(t, schema.Nodes, 2)

	t.Run("result is memoized", func(t *testing.T) {
		_, err := provider.StandardSchema(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, requests)
	})
}

func TestHTTPProviderFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, 5*time.Second, testLogger())

	schema, err := provider.StandardSchema(context.Background())
	require.NoError(t, err)

	// the fallback is the minimal Customer/Account model
	require.Len(t, schema.Nodes, 2)
	assert.Equal(t, "Customer", schema.Nodes[0].Label)
	assert.Equal(t, "Account", schema.Nodes[1].Label)
	require.Len(t, schema.Relationships, 1)
	assert.Equal(t, "HAS_ACCOUNT", schema.Relationships[0].Type)
}

func TestStaticProvider(t *testing.T) {
	provider := &StaticProvider{Schema: FallbackSchema()}
	schema, err := provider.StandardSchema(context.Background())
	require.NoError(t, err)
	assert.Len(t, schema.Nodes, 2)
}
