package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests for fiscal years and accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// registerPeriodRoutes registers routes for fiscal years and periods.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	years := rg.Group("/fiscal-years")
	{
		years.POST("", h.createFiscalYear)
		years.GET("", h.listFiscalYears)
		years.GET("/:fiscalYearID", h.getFiscalYear)
		years.GET("/:fiscalYearID/periods", h.listPeriods)
		years.POST("/:fiscalYearID/close", h.closeFiscalYear)
		years.POST("/:fiscalYearID/reopen", h.reopenFiscalYear)
	}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
		periods.POST("/:periodID/unlock", h.unlockPeriod)
	}
}

// createFiscalYear godoc
// @Summary Create a fiscal year
// @Tags periods
// @Accept json
// @Produce json
// @Param fiscalYear body dto.CreateFiscalYearRequest true "Fiscal year details"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-years [post]
func (h *periodHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fy, err := h.periodService.CreateFiscalYear(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create fiscal year")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(fy))
}

// listFiscalYears godoc
// @Summary List fiscal years
// @Tags periods
// @Produce json
// @Success 200 {array} dto.FiscalYearResponse
// @Security BearerAuth
// @Router /fiscal-years [get]
func (h *periodHandler) listFiscalYears(c *gin.Context) {
	years, err := h.periodService.ListFiscalYears(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list fiscal years")
		return
	}
	resp := make([]dto.FiscalYearResponse, len(years))
	for i := range years {
		resp[i] = dto.ToFiscalYearResponse(&years[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getFiscalYear godoc
// @Summary Get a fiscal year by ID
// @Tags periods
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 200 {object} dto.FiscalYearResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-years/{fiscalYearID} [get]
func (h *periodHandler) getFiscalYear(c *gin.Context) {
	fy, err := h.periodService.GetFiscalYearByID(c.Request.Context(), c.Param("fiscalYearID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve fiscal year")
		return
	}
	c.JSON(http.StatusOK, dto.ToFiscalYearResponse(fy))
}

// listPeriods godoc
// @Summary List periods of a fiscal year
// @Tags periods
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /fiscal-years/{fiscalYearID}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("fiscalYearID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list periods")
		return
	}
	resp := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		resp[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, resp)
}

// closeFiscalYear godoc
// @Summary Close a fiscal year
// @Description Closes a fiscal year. Every period inside it must already be locked.
// @Tags periods
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-years/{fiscalYearID}/close [post]
func (h *periodHandler) closeFiscalYear(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.periodService.CloseFiscalYear(c.Request.Context(), c.Param("fiscalYearID"), userID); err != nil {
		respondServiceError(c, err, "Failed to close fiscal year")
		return
	}
	c.Status(http.StatusNoContent)
}

// reopenFiscalYear godoc
// @Summary Reopen a closed fiscal year
// @Tags periods
// @Produce json
// @Param fiscalYearID path string true "Fiscal year ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /fiscal-years/{fiscalYearID}/reopen [post]
func (h *periodHandler) reopenFiscalYear(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.periodService.ReopenFiscalYear(c.Request.Context(), c.Param("fiscalYearID"), userID); err != nil {
		respondServiceError(c, err, "Failed to reopen fiscal year")
		return
	}
	c.Status(http.StatusNoContent)
}

// createPeriod godoc
// @Summary Create an accounting period
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a period by ID
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriodByID(c.Request.Context(), c.Param("periodID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// lockPeriod godoc
// @Summary Lock a period against posting
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{periodID}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.periodService.LockPeriod(c.Request.Context(), c.Param("periodID"), userID); err != nil {
		respondServiceError(c, err, "Failed to lock period")
		return
	}
	c.Status(http.StatusNoContent)
}

// unlockPeriod godoc
// @Summary Unlock a locked period
// @Description Administrative override. Fails while the owning fiscal year is closed.
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{periodID}/unlock [post]
func (h *periodHandler) unlockPeriod(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.periodService.UnlockPeriod(c.Request.Context(), c.Param("periodID"), userID); err != nil {
		respondServiceError(c, err, "Failed to unlock period")
		return
	}
	c.Status(http.StatusNoContent)
}
