// Package orchestrator coordinates schema extraction, standard loading,
// comparison, and downstream reporting into reusable workflows.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/comparator"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/recommend"
	"github.com/Ramsey-B/fern/pkg/standard"
	"github.com/Ramsey-B/fern/pkg/statistics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaSource extracts the customer schema to compare. graph.Extractor is
// the production implementation.
type SchemaSource interface {
	ExtractSchema(ctx context.Context) (*models.GraphSchema, error)
}

// LifecycleEmitter publishes comparison run lifecycle events.
// events.Emitter is the production implementation.
type LifecycleEmitter interface {
	EmitComparisonStarted(ctx context.Context, runID, database string) error
	EmitComparisonCompleted(ctx context.Context, runID, database string, report *models.ComparisonReport) error
	EmitComparisonFailed(ctx context.Context, runID, database string, runErr error) error
}

// Result is the full output of one comparison run
type Result struct {
	RunID      string                   `json:"run_id"`
	Database   string                   `json:"database"`
	StartedAt  time.Time                `json:"started_at"`
	Duration   time.Duration            `json:"duration"`
	Report     *models.ComparisonReport `json:"report"`
	Statistics statistics.Summary       `json:"statistics"`
	Plans      []recommend.Plan         `json:"plans"`
}

// ValidationResult reports whether similarity settings are usable, with
// advisory warnings for legal-but-questionable values
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// SchemaComparator is the main orchestrator for comparison workflows. The
// emitter is optional; a nil emitter skips event publication.
type SchemaComparator struct {
	logger   ectologger.Logger
	source   SchemaSource
	provider standard.Provider
	comp     *comparator.Comparator
	emitter  LifecycleEmitter
	database string
}

// New creates a schema comparison orchestrator. database names the customer
// database in run results and events.
func New(logger ectologger.Logger, source SchemaSource, provider standard.Provider, comp *comparator.Comparator, emitter LifecycleEmitter, database string) *SchemaComparator {
	return &SchemaComparator{
		logger:   logger,
		source:   source,
		provider: provider,
		comp:     comp,
		emitter:  emitter,
		database: database,
	}
}

// CompareDatabaseToStandard runs the full workflow: extract the live customer
// schema, load the standard model, compare, and derive statistics and
// migration plans. Lifecycle events are emitted when an emitter is configured;
// emission failures are logged but never fail the run.
func (s *SchemaComparator) CompareDatabaseToStandard(ctx context.Context) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.SchemaComparator.CompareDatabaseToStandard")
	defer span.End()

	runID := uuid.NewString()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":   runID,
		"database": s.database,
	})
	log.Info("Starting schema comparison run")

	if s.emitter != nil {
		if err := s.emitter.EmitComparisonStarted(ctx, runID, s.database); err != nil {
			log.WithError(err).Warn("Failed to emit run started event")
		}
	}

	customer, err := s.source.ExtractSchema(ctx)
	if err != nil {
		s.failRun(ctx, runID, err)
		return nil, fmt.Errorf("failed to extract customer schema: %w", err)
	}

	standardSchema, err := s.provider.StandardSchema(ctx)
	if err != nil {
		s.failRun(ctx, runID, err)
		return nil, fmt.Errorf("failed to load standard schema: %w", err)
	}

	result := s.run(ctx, runID, *customer, standardSchema)

	if s.emitter != nil {
		if err := s.emitter.EmitComparisonCompleted(ctx, runID, s.database, result.Report); err != nil {
			log.WithError(err).Warn("Failed to emit run completed event")
		}
	}

	log.WithFields(map[string]any{
		"compliance_level": result.Report.ComplianceLevel,
		"compliance_score": result.Report.Summary.OverallComplianceScore,
		"duration_ms":      result.Duration.Milliseconds(),
	}).Info("Schema comparison run complete")

	return result, nil
}

// CompareSchemas compares two already-loaded schemas directly, bypassing
// extraction and standard loading
func (s *SchemaComparator) CompareSchemas(ctx context.Context, customer, standardSchema models.GraphSchema) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.SchemaComparator.CompareSchemas")
	defer span.End()

	return s.run(ctx, uuid.NewString(), customer, standardSchema), nil
}

// GetDatabaseSchema extracts the customer schema without comparing it
func (s *SchemaComparator) GetDatabaseSchema(ctx context.Context) (*models.GraphSchema, error) {
	return s.source.ExtractSchema(ctx)
}

// GetStandardSchema loads the standard schema without comparing it
func (s *SchemaComparator) GetStandardSchema(ctx context.Context) (models.GraphSchema, error) {
	return s.provider.StandardSchema(ctx)
}

func (s *SchemaComparator) run(ctx context.Context, runID string, customer, standardSchema models.GraphSchema) *Result {
	started := time.Now().UTC()

	report := s.comp.Compare(ctx, customer, standardSchema)

	collector := statistics.NewCollector()
	collector.CollectReport(&report.MatchReport)

	return &Result{
		RunID:      runID,
		Database:   s.database,
		StartedAt:  started,
		Duration:   time.Since(started),
		Report:     report,
		Statistics: collector.Summary(),
		Plans:      recommend.NewGenerator().Generate(&report.MatchReport),
	}
}

func (s *SchemaComparator) failRun(ctx context.Context, runID string, runErr error) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitComparisonFailed(ctx, runID, s.database, runErr); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit run failed event")
	}
}

// ValidateSimilaritySettings checks a similarity configuration. Thresholds
// outside [0, 1] are invalid; legal but extreme values produce warnings only.
func ValidateSimilaritySettings(threshold float64, useAdaptive bool) ValidationResult {
	result := ValidationResult{
		Valid:           true,
		Warnings:        []string{},
		Recommendations: []string{},
	}

	switch {
	case threshold < 0.0 || threshold > 1.0:
		result.Valid = false
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Similarity threshold %.2f must be between 0.0 and 1.0", threshold))
	case threshold < 0.5:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Low similarity threshold (%.2f) may produce many false matches", threshold))
	case threshold > 0.9:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("High similarity threshold (%.2f) may miss valid matches", threshold))
	}

	if useAdaptive {
		result.Recommendations = append(result.Recommendations,
			"Adaptive weighting will tune similarity techniques to field characteristics")
	} else {
		result.Recommendations = append(result.Recommendations,
			"Fixed weighting uses predefined technique weights; consider adaptive for better results")
	}

	return result
}
