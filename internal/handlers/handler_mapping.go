package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// mappingHandler handles HTTP requests for account mappings.
type mappingHandler struct {
	mappingService portssvc.MappingSvcFacade
}

func newMappingHandler(ms portssvc.MappingSvcFacade) *mappingHandler {
	return &mappingHandler{mappingService: ms}
}

// registerMappingRoutes registers routes for account mappings.
func registerMappingRoutes(rg *gin.RouterGroup, mappingService portssvc.MappingSvcFacade) {
	h := newMappingHandler(mappingService)

	mappings := rg.Group("/mappings")
	{
		mappings.PUT("", h.upsertMapping)
		mappings.GET("", h.listMappings)
		mappings.GET("/validate", h.validateMappings)
	}
}

// upsertMapping godoc
// @Summary Create or replace an account mapping
// @Description Binds a generated-posting transaction type (PDC control,
// @Description bounce charges, bank charges) to an active leaf GL account.
// @Tags mappings
// @Accept json
// @Produce json
// @Param mapping body dto.UpsertMappingRequest true "Mapping details"
// @Success 200 {object} dto.MappingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /mappings [put]
func (h *mappingHandler) upsertMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertMapping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	m, err := h.mappingService.UpsertMapping(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to save mapping")
		return
	}

	logger.Info("Mapping saved", slog.String("transaction_type", string(m.TransactionType)), slog.String("account_id", m.AccountID))
	c.JSON(http.StatusOK, dto.ToMappingResponse(m))
}

// listMappings godoc
// @Summary List account mappings
// @Tags mappings
// @Produce json
// @Success 200 {array} dto.MappingResponse
// @Security BearerAuth
// @Router /mappings [get]
func (h *mappingHandler) listMappings(c *gin.Context) {
	mappings, err := h.mappingService.ListMappings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list mappings")
		return
	}
	c.JSON(http.StatusOK, dto.ToMappingResponses(mappings))
}

// validateMappings godoc
// @Summary Validate required mappings
// @Description Checks that every required mapping resolves to an active leaf
// @Description account.
// @Tags mappings
// @Produce json
// @Success 200 {object} dto.MappingValidationResult
// @Security BearerAuth
// @Router /mappings/validate [get]
func (h *mappingHandler) validateMappings(c *gin.Context) {
	result, err := h.mappingService.ValidateRequiredMappings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to validate mappings")
		return
	}
	c.JSON(http.StatusOK, result)
}
