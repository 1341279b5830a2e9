package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// pdcHandler handles HTTP requests for post-dated cheques and tenants.
type pdcHandler struct {
	pdcService portssvc.PDCSvcFacade
}

func newPDCHandler(ps portssvc.PDCSvcFacade) *pdcHandler {
	return &pdcHandler{pdcService: ps}
}

// registerPDCRoutes registers routes for cheques and tenants.
func registerPDCRoutes(rg *gin.RouterGroup, pdcService portssvc.PDCSvcFacade) {
	h := newPDCHandler(pdcService)

	pdcs := rg.Group("/pdcs")
	{
		pdcs.POST("", h.createPDC)
		pdcs.GET("", h.listPDCs)
		pdcs.GET("/:pdcID", h.getPDC)
		pdcs.POST("/:pdcID/deposit", h.depositPDC)
		pdcs.POST("/:pdcID/clear", h.clearPDC)
		pdcs.POST("/:pdcID/bounce", h.bouncePDC)
		pdcs.POST("/:pdcID/return", h.returnPDC)
		pdcs.POST("/:pdcID/replace", h.replacePDC)
		pdcs.POST("/:pdcID/cancel", h.cancelPDC)
	}

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listTenants)
		tenants.GET("/:tenantID", h.getTenant)
	}
}

// createPDC godoc
// @Summary Register a post-dated cheque
// @Description Registers a cheque received from a tenant. The combination of
// @Description cheque number, bank, date, amount and tenant must be unique.
// @Tags pdcs
// @Accept json
// @Produce json
// @Param pdc body dto.CreatePDCRequest true "Cheque details"
// @Success 201 {object} dto.PDCResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs [post]
func (h *pdcHandler) createPDC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPDC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.CreatePDC(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to register cheque")
		return
	}

	logger.Info("Cheque registered", slog.String("pdc_id", pdc.PDCID), slog.String("pdc_number", pdc.PDCNumber))
	c.JSON(http.StatusCreated, dto.ToPDCResponse(pdc))
}

// getPDC godoc
// @Summary Get a cheque by ID
// @Tags pdcs
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Success 200 {object} dto.PDCResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID} [get]
func (h *pdcHandler) getPDC(c *gin.Context) {
	pdc, err := h.pdcService.GetPDCByID(c.Request.Context(), c.Param("pdcID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve cheque")
		return
	}
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// listPDCs godoc
// @Summary List cheques
// @Tags pdcs
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPDCsResponse
// @Security BearerAuth
// @Router /pdcs [get]
func (h *pdcHandler) listPDCs(c *gin.Context) {
	var params dto.ListPDCsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.pdcService.ListPDCs(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list cheques")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// depositPDC godoc
// @Summary Deposit a cheque with the bank
// @Description Posts Dr PDC control / Cr tenant receivable and moves the
// @Description cheque into clearing.
// @Tags pdcs
// @Accept json
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Param deposit body dto.DepositPDCRequest true "Deposit details"
// @Success 200 {object} dto.PDCResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/deposit [post]
func (h *pdcHandler) depositPDC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositPDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for depositPDC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.DepositPDC(c.Request.Context(), c.Param("pdcID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to deposit cheque")
		return
	}

	logger.Info("Cheque deposited", slog.String("pdc_id", pdc.PDCID))
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// clearPDC godoc
// @Summary Clear a deposited cheque
// @Description Confirms the bank honored the cheque: Dr bank GL / Cr PDC control.
// @Tags pdcs
// @Accept json
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Param clearing body dto.ClearPDCRequest true "Clearing details"
// @Success 200 {object} dto.PDCResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/clear [post]
func (h *pdcHandler) clearPDC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ClearPDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for clearPDC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.ClearPDC(c.Request.Context(), c.Param("pdcID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to clear cheque")
		return
	}

	logger.Info("Cheque cleared", slog.String("pdc_id", pdc.PDCID))
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// bouncePDC godoc
// @Summary Bounce a cheque
// @Description Reverses the cheque value back onto the tenant receivable,
// @Description plus bounce charges when given. A reconciled cheque cannot
// @Description bounce until its statement match is undone.
// @Tags pdcs
// @Accept json
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Param bounce body dto.BouncePDCRequest true "Bounce details"
// @Success 200 {object} dto.PDCResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/bounce [post]
func (h *pdcHandler) bouncePDC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BouncePDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for bouncePDC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.BouncePDC(c.Request.Context(), c.Param("pdcID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to bounce cheque")
		return
	}

	logger.Info("Cheque bounced", slog.String("pdc_id", pdc.PDCID))
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// returnPDC godoc
// @Summary Return an undeposited cheque to the tenant
// @Tags pdcs
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Success 200 {object} dto.PDCResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/return [post]
func (h *pdcHandler) returnPDC(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.ReturnPDC(c.Request.Context(), c.Param("pdcID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to return cheque")
		return
	}
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// replacePDC godoc
// @Summary Replace a bounced or returned cheque
// @Description Registers a new cheque in place of a bounced or returned one
// @Description and links the two.
// @Tags pdcs
// @Accept json
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Param replacement body dto.ReplacePDCRequest true "Replacement cheque details"
// @Success 201 {object} dto.PDCResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/replace [post]
func (h *pdcHandler) replacePDC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReplacePDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for replacePDC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	replacement, err := h.pdcService.ReplacePDC(c.Request.Context(), c.Param("pdcID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to replace cheque")
		return
	}

	logger.Info("Cheque replaced", slog.String("old_pdc_id", c.Param("pdcID")), slog.String("new_pdc_id", replacement.PDCID))
	c.JSON(http.StatusCreated, dto.ToPDCResponse(replacement))
}

// cancelPDC godoc
// @Summary Cancel a cheque that was never deposited
// @Tags pdcs
// @Produce json
// @Param pdcID path string true "PDC ID"
// @Success 200 {object} dto.PDCResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /pdcs/{pdcID}/cancel [post]
func (h *pdcHandler) cancelPDC(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pdc, err := h.pdcService.CancelPDC(c.Request.Context(), c.Param("pdcID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel cheque")
		return
	}
	c.JSON(http.StatusOK, dto.ToPDCResponse(pdc))
}

// createTenant godoc
// @Summary Register a tenant
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants [post]
func (h *pdcHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tenant, err := h.pdcService.CreateTenant(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create tenant")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listTenants godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Success 200 {array} dto.TenantResponse
// @Security BearerAuth
// @Router /tenants [get]
func (h *pdcHandler) listTenants(c *gin.Context) {
	tenants, err := h.pdcService.ListTenants(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list tenants")
		return
	}
	resp := make([]dto.TenantResponse, len(tenants))
	for i := range tenants {
		resp[i] = dto.ToTenantResponse(&tenants[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getTenant godoc
// @Summary Get a tenant by ID
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tenants/{tenantID} [get]
func (h *pdcHandler) getTenant(c *gin.Context) {
	tenant, err := h.pdcService.GetTenantByID(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve tenant")
		return
	}
	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}
