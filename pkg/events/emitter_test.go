package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

type capturePublisher struct {
	events []*kafka.ComparisonEvent
	err    error
}

func (p *capturePublisher) PublishComparisonEvent(_ context.Context, event *kafka.ComparisonEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestEmitComparisonCompleted(t *testing.T) {
	publisher := &capturePublisher{}
	emitter := NewEmitter(publisher, testLogger())

	report := &models.ComparisonReport{
		MatchReport: models.MatchReport{
			Summary: models.MatchSummary{
				TotalCustomerNodes:     3,
				MatchedNodes:           2,
				OverallComplianceScore: 0.82,
			},
		},
		Categorized: models.CategorizedRecommendations{
			Critical:  []models.CategorizedRecommendation{{Message: "unmatched node"}},
			Important: []models.CategorizedRecommendation{},
			Style:     []models.CategorizedRecommendation{},
		},
		ComplianceLevel: models.ComplianceFair,
	}

	err := emitter.EmitComparisonCompleted(context.Background(), "run-1", "neo4j", report)
	require.NoError(t, err)
	require.Len(t, publisher.events, 1)

	event := publisher.events[0]
	assert.Equal(t, "comparison.completed", event.EventType)
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, "neo4j", event.Database)
	assert.Equal(t, string(models.ComplianceFair), event.ComplianceLevel)
	assert.Equal(t, 0.82, event.ComplianceScore)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, SchemaVersion, payload["schema_version"])
	assert.Equal(t, float64(1), payload["critical_issues"])
	assert.Equal(t, float64(2), payload["matched_nodes"])
}

func TestEmitComparisonStartedAndFailed(t *testing.T) {
	publisher := &capturePublisher{}
	emitter := NewEmitter(publisher, testLogger())

	require.NoError(t, emitter.EmitComparisonStarted(context.Background(), "run-2", "neo4j"))
	require.NoError(t, emitter.EmitComparisonFailed(context.Background(), "run-2", "neo4j", errors.New("boom")))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, "comparison.started", publisher.events[0].EventType)
	assert.Equal(t, "comparison.failed", publisher.events[1].EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(publisher.events[1].Data, &payload))
	assert.Equal(t, "boom", payload["error"])
}

func TestEmitterPropagatesPublishError(t *testing.T) {
	publisher := &capturePublisher{err: errors.New("broker unavailable")}
	emitter := NewEmitter(publisher, testLogger())

	err := emitter.EmitComparisonStarted(context.Background(), "run-3", "neo4j")
	assert.Error(t, err)
}
