// Package events handles event emission for comparison run lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher is the producer surface the emitter needs
type Publisher interface {
	PublishComparisonEvent(ctx context.Context, event *kafka.ComparisonEvent) error
}

// Emitter publishes comparison lifecycle events
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitComparisonStarted emits a comparison.started event
func (e *Emitter) EmitComparisonStarted(ctx context.Context, runID, database string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitComparisonStarted")
	defer span.End()

	event := &kafka.ComparisonEvent{
		EventType: "comparison.started",
		RunID:     runID,
		Database:  database,
	}

	if err := e.producer.PublishComparisonEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit comparison.started event")
		return err
	}

	return nil
}

// EmitComparisonCompleted emits a comparison.completed event with the run's
// compliance summary
func (e *Emitter) EmitComparisonCompleted(ctx context.Context, runID, database string, report *models.ComparisonReport) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitComparisonCompleted")
	defer span.End()

	summary := map[string]any{
		"schema_version":        SchemaVersion,
		"compliance_level":      report.ComplianceLevel,
		"compliance_score":      report.Summary.OverallComplianceScore,
		"matched_nodes":         report.Summary.MatchedNodes,
		"total_customer_nodes":  report.Summary.TotalCustomerNodes,
		"matched_relationships": report.Summary.MatchedRelationships,
		"critical_issues":       len(report.Categorized.Critical),
		"important_issues":      len(report.Categorized.Important),
		"style_issues":          len(report.Categorized.Style),
	}
	dataJSON, _ := json.Marshal(summary)

	event := &kafka.ComparisonEvent{
		EventType:       "comparison.completed",
		RunID:           runID,
		Database:        database,
		ComplianceLevel: string(report.ComplianceLevel),
		ComplianceScore: report.Summary.OverallComplianceScore,
		Data:            dataJSON,
	}

	if err := e.producer.PublishComparisonEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit comparison.completed event")
		return err
	}

	return nil
}

// EmitComparisonFailed emits a comparison.failed event
func (e *Emitter) EmitComparisonFailed(ctx context.Context, runID, database string, runErr error) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitComparisonFailed")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"error":          runErr.Error(),
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ComparisonEvent{
		EventType: "comparison.failed",
		RunID:     runID,
		Database:  database,
		Data:      dataJSON,
	}

	if err := e.producer.PublishComparisonEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit comparison.failed event")
		return err
	}

	return nil
}
