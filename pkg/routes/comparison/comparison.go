package comparison

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/orchestrator"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Handler handles schema comparison API endpoints
type Handler struct {
	comparator *orchestrator.SchemaComparator
	logger     ectologger.Logger
}

// NewHandler creates a new comparison handler
func NewHandler(comparator *orchestrator.SchemaComparator, logger ectologger.Logger) *Handler {
	return &Handler{
		comparator: comparator,
		logger:     logger,
	}
}

// Register registers the comparison routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/run", h.Run)
	g.POST("/schemas", h.CompareSchemas)
	g.GET("/schema/database", h.DatabaseSchema)
	g.GET("/schema/standard", h.StandardSchema)
	g.POST("/settings/validate", h.ValidateSettings)
}

func (h *Handler) requireComparator(c echo.Context) (*orchestrator.SchemaComparator, error) {
	// Prefer explicitly provided orchestrator (useful for tests), but fall
	// back to DI-from-context, the standard pattern elsewhere.
	if h != nil && h.comparator != nil {
		return h.comparator, nil
	}

	ctx := c.Request().Context()
	_, comp, err := ectoinject.GetContext[*orchestrator.SchemaComparator](ctx)
	if err != nil || comp == nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "schema comparator unavailable")
	}
	return comp, nil
}

// Run executes a full database-to-standard comparison
// @Summary Compare the live database schema to the standard model
// @Tags Comparison
// @Produce json
// @Success 200 {object} orchestrator.Result
// @Failure 500 {object} middleware.ErrorResponse
// @Router /api/v1/comparison/run [post]
func (h *Handler) Run(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "comparison.Handler.Run")
	defer span.End()

	comp, err := h.requireComparator(c)
	if err != nil {
		return err
	}

	result, err := comp.CompareDatabaseToStandard(ctx)
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CompareSchemasRequest is the request body for direct schema comparison
type CompareSchemasRequest struct {
	CustomerSchema models.GraphSchema `json:"customer_schema" validate:"required"`
	StandardSchema models.GraphSchema `json:"standard_schema" validate:"required"`
}

// CompareSchemas compares two schemas supplied in the request body
// @Summary Compare two schemas directly
// @Tags Comparison
// @Accept json
// @Produce json
// @Param body body CompareSchemasRequest true "Schemas to compare"
// @Success 200 {object} orchestrator.Result
// @Failure 400 {object} middleware.ErrorResponse
// @Router /api/v1/comparison/schemas [post]
func (h *Handler) CompareSchemas(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "comparison.Handler.CompareSchemas")
	defer span.End()

	comp, err := h.requireComparator(c)
	if err != nil {
		return err
	}

	req, err := utils.BindRequest[CompareSchemasRequest](c)
	if err != nil {
		return err
	}

	result, err := comp.CompareSchemas(ctx, req.CustomerSchema, req.StandardSchema)
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, result)
}

// DatabaseSchema returns the schema extracted from the live database
// @Summary Extract the live database schema
// @Tags Comparison
// @Produce json
// @Success 200 {object} models.GraphSchema
// @Router /api/v1/comparison/schema/database [get]
func (h *Handler) DatabaseSchema(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "comparison.Handler.DatabaseSchema")
	defer span.End()

	comp, err := h.requireComparator(c)
	if err != nil {
		return err
	}

	schema, err := comp.GetDatabaseSchema(ctx)
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, schema)
}

// StandardSchema returns the standard model schema
// @Summary Load the standard model schema
// @Tags Comparison
// @Produce json
// @Success 200 {object} models.GraphSchema
// @Router /api/v1/comparison/schema/standard [get]
func (h *Handler) StandardSchema(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "comparison.Handler.StandardSchema")
	defer span.End()

	comp, err := h.requireComparator(c)
	if err != nil {
		return err
	}

	schema, err := comp.GetStandardSchema(ctx)
	if err != nil {
		return httperror.WrapError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, schema)
}

// ValidateSettingsRequest is the request body for settings validation
type ValidateSettingsRequest struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	UseAdaptive         bool    `json:"use_adaptive"`
}

// ValidateSettings validates similarity settings without running a comparison.
// Out-of-range values are reported in the result, not as an HTTP error.
// @Summary Validate similarity settings
// @Tags Comparison
// @Accept json
// @Produce json
// @Param body body ValidateSettingsRequest true "Settings to validate"
// @Success 200 {object} orchestrator.ValidationResult
// @Router /api/v1/comparison/settings/validate [post]
func (h *Handler) ValidateSettings(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "comparison.Handler.ValidateSettings")
	defer span.End()

	req, err := utils.BindRequest[ValidateSettingsRequest](c)
	if err != nil {
		return err
	}

	result := orchestrator.ValidateSimilaritySettings(req.SimilarityThreshold, req.UseAdaptive)
	return c.JSON(http.StatusOK, result)
}
