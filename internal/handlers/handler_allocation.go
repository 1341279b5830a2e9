package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// allocationHandler handles HTTP requests for PDC allocations and
// ambiguous-match logs.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

func newAllocationHandler(as portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{allocationService: as}
}

// registerAllocationRoutes registers routes for allocations and logs.
func registerAllocationRoutes(rg *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	allocations := rg.Group("/allocations")
	{
		allocations.POST("", h.createAllocation)
		allocations.GET("/:allocationID", h.getAllocation)
		allocations.POST("/:allocationID/confirm", h.confirmAllocation)
	}

	logs := rg.Group("/ambiguous-matches")
	{
		logs.GET("", h.listPendingLogs)
		logs.POST("/:logID/reject", h.rejectLog)
	}
}

// createAllocation godoc
// @Summary Draft an allocation of a statement line across cheques
// @Description Splits one statement line across several outstanding cheques.
// @Description The line amounts must sum exactly to the statement line amount.
// @Tags allocations
// @Accept json
// @Produce json
// @Param allocation body dto.CreateAllocationRequest true "Allocation details"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /allocations [post]
func (h *allocationHandler) createAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	alloc, err := h.allocationService.CreateAllocation(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create allocation")
		return
	}

	logger.Info("Allocation drafted", slog.String("allocation_id", alloc.AllocationID), slog.Int("lines", len(alloc.Lines)))
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(alloc))
}

// getAllocation godoc
// @Summary Get an allocation by ID
// @Tags allocations
// @Produce json
// @Param allocationID path string true "Allocation ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /allocations/{allocationID} [get]
func (h *allocationHandler) getAllocation(c *gin.Context) {
	alloc, err := h.allocationService.GetAllocationByID(c.Request.Context(), c.Param("allocationID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(alloc))
}

// confirmAllocation godoc
// @Summary Confirm a draft allocation
// @Description Clears every allocated cheque, marks the statement line
// @Description matched and resolves the pending ambiguous-match log.
// @Tags allocations
// @Produce json
// @Param allocationID path string true "Allocation ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /allocations/{allocationID}/confirm [post]
func (h *allocationHandler) confirmAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	alloc, err := h.allocationService.ConfirmAllocation(c.Request.Context(), c.Param("allocationID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to confirm allocation")
		return
	}

	logger.Info("Allocation confirmed", slog.String("allocation_id", alloc.AllocationID))
	c.JSON(http.StatusOK, dto.ToAllocationResponse(alloc))
}

// listPendingLogs godoc
// @Summary List pending ambiguous-match logs
// @Description Lists auto-match abstentions awaiting manual resolution,
// @Description oldest first.
// @Tags allocations
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAmbiguousLogsResponse
// @Security BearerAuth
// @Router /ambiguous-matches [get]
func (h *allocationHandler) listPendingLogs(c *gin.Context) {
	var params struct {
		Limit     int    `form:"limit"`
		NextToken string `form:"nextToken"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.allocationService.ListPendingAmbiguousLogs(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, err, "Failed to list ambiguous-match logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// rejectLog godoc
// @Summary Reject a pending ambiguous-match log
// @Description Closes a pending log without allocating. The statement line
// @Description stays unmatched.
// @Tags allocations
// @Produce json
// @Param logID path string true "Log ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /ambiguous-matches/{logID}/reject [post]
func (h *allocationHandler) rejectLog(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.allocationService.RejectAmbiguousLog(c.Request.Context(), c.Param("logID"), userID); err != nil {
		respondServiceError(c, err, "Failed to reject ambiguous-match log")
		return
	}
	c.Status(http.StatusNoContent)
}
