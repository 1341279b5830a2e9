package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	portssvc "github.com/crestlinehq/ledgerengine/internal/core/ports/services"
	"github.com/crestlinehq/ledgerengine/internal/dto"
	"github.com/crestlinehq/ledgerengine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statementHandler handles HTTP requests for bank accounts, statements and
// the reconciliation matcher.
type statementHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newStatementHandler(rs portssvc.ReconciliationSvcFacade) *statementHandler {
	return &statementHandler{reconciliationService: rs}
}

// registerStatementRoutes registers routes for bank accounts, statements and
// statement lines.
func registerStatementRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newStatementHandler(reconciliationService)

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.GET("", h.listBankAccounts)
		banks.GET("/:bankAccountID", h.getBankAccount)
	}

	statements := rg.Group("/statements")
	{
		statements.POST("", h.createStatement)
		statements.GET("", h.listStatements)
		statements.GET("/:statementID", h.getStatement)
		statements.POST("/:statementID/lines", h.importLines)
		statements.POST("/:statementID/auto-match", h.autoMatch)
		statements.POST("/:statementID/finalize", h.finalizeStatement)
		statements.POST("/:statementID/lock", h.lockStatement)
	}

	lines := rg.Group("/statement-lines")
	{
		lines.GET("/:lineID", h.getStatementLine)
		lines.POST("/:lineID/match-payment", h.matchLineWithPayment)
		lines.POST("/:lineID/match-journal", h.matchLineWithJournal)
		lines.POST("/:lineID/adjustment", h.createAdjustment)
		lines.POST("/:lineID/unmatch", h.unmatchLine)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Description Registers a bank account and links it to its GL account.
// @Tags statements
// @Accept json
// @Produce json
// @Param bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *statementHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ba, err := h.reconciliationService.CreateBankAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create bank account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(ba))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags statements
// @Produce json
// @Success 200 {array} dto.BankAccountResponse
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *statementHandler) listBankAccounts(c *gin.Context) {
	accounts, err := h.reconciliationService.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list bank accounts")
		return
	}
	resp := make([]dto.BankAccountResponse, len(accounts))
	for i := range accounts {
		resp[i] = dto.ToBankAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getBankAccount godoc
// @Summary Get a bank account by ID
// @Tags statements
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /bank-accounts/{bankAccountID} [get]
func (h *statementHandler) getBankAccount(c *gin.Context) {
	ba, err := h.reconciliationService.GetBankAccountByID(c.Request.Context(), c.Param("bankAccountID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(ba))
}

// createStatement godoc
// @Summary Create a bank statement
// @Tags statements
// @Accept json
// @Produce json
// @Param statement body dto.CreateStatementRequest true "Statement details"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements [post]
func (h *statementHandler) createStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stmt, err := h.reconciliationService.CreateStatement(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create statement")
		return
	}

	logger.Info("Statement created", slog.String("statement_id", stmt.StatementID), slog.String("statement_number", stmt.StatementNumber))
	c.JSON(http.StatusCreated, dto.ToStatementResponse(stmt, nil))
}

// listStatements godoc
// @Summary List bank statements
// @Tags statements
// @Produce json
// @Param bankAccountID query string false "Filter by bank account"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListStatementsResponse
// @Security BearerAuth
// @Router /statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	var params dto.ListStatementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reconciliationService.ListStatements(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list statements")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getStatement godoc
// @Summary Get a statement with its lines
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	stmt, lines, err := h.reconciliationService.GetStatementByID(c.Request.Context(), c.Param("statementID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(stmt, lines))
}

// importLines godoc
// @Summary Import statement lines from a file
// @Description Parses CSV or XLSX rows from the uploaded file and appends
// @Description them to a draft statement. The format is chosen by file
// @Description extension.
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param statementID path string true "Statement ID"
// @Param file formData file true "Statement file (.csv or .xlsx)"
// @Success 200 {object} dto.ImportLinesResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID}/lines [post]
func (h *statementHandler) importLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statementID := c.Param("statementID")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Statement file missing from upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded statement file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read uploaded file"})
		return
	}
	defer f.Close()

	var result *dto.ImportLinesResult
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		result, err = h.reconciliationService.ImportLinesCSV(c.Request.Context(), statementID, f, userID)
	case ".xlsx":
		result, err = h.reconciliationService.ImportLinesXLSX(c.Request.Context(), statementID, f, userID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format, expected .csv or .xlsx"})
		return
	}
	if err != nil {
		respondServiceError(c, err, "Failed to import statement lines")
		return
	}

	logger.Info("Statement lines imported", slog.String("statement_id", statementID), slog.Int("lines", result.LinesImported))
	c.JSON(http.StatusOK, result)
}

// autoMatch godoc
// @Summary Run the auto-matcher over a statement
// @Description Matches every unmatched line against payments, then journal
// @Description lines, then outstanding PDCs. Ambiguous lines are logged and
// @Description skipped, never guessed.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.AutoMatchResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID}/auto-match [post]
func (h *statementHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.reconciliationService.AutoMatch(c.Request.Context(), c.Param("statementID"), userID)
	if err != nil {
		respondServiceError(c, err, "Auto-match run failed")
		return
	}

	logger.Info("Auto-match completed",
		slog.String("statement_id", result.StatementID),
		slog.Int("payment_matches", result.PaymentMatches),
		slog.Int("journal_matches", result.JournalMatches),
		slog.Int("pdc_matches", result.PDCMatches),
		slog.Int("ambiguous", result.AmbiguousLines),
	)
	c.JSON(http.StatusOK, result)
}

// finalizeStatement godoc
// @Summary Finalize a statement
// @Description Marks a fully matched, balanced statement reconciled and flags
// @Description its linked payments.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID}/finalize [post]
func (h *statementHandler) finalizeStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stmt, err := h.reconciliationService.FinalizeStatement(c.Request.Context(), c.Param("statementID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to finalize statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(stmt, nil))
}

// lockStatement godoc
// @Summary Lock a reconciled statement
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID}/lock [post]
func (h *statementHandler) lockStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.reconciliationService.LockStatement(c.Request.Context(), c.Param("statementID"), userID); err != nil {
		respondServiceError(c, err, "Failed to lock statement")
		return
	}
	c.Status(http.StatusNoContent)
}

// getStatementLine godoc
// @Summary Get a statement line by ID
// @Tags statements
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statement-lines/{lineID} [get]
func (h *statementHandler) getStatementLine(c *gin.Context) {
	line, err := h.reconciliationService.GetStatementLineByID(c.Request.Context(), c.Param("lineID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve statement line")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// matchLineWithPayment godoc
// @Summary Manually match a line to a payment
// @Tags statements
// @Accept json
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Param match body dto.MatchPaymentRequest true "Payment to link"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statement-lines/{lineID}/match-payment [post]
func (h *statementHandler) matchLineWithPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for matchLineWithPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	line, err := h.reconciliationService.MatchLineWithPayment(c.Request.Context(), c.Param("lineID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to match statement line")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// matchLineWithJournal godoc
// @Summary Manually match a line to a journal line
// @Tags statements
// @Accept json
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Param match body dto.MatchJournalRequest true "Journal line to link"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statement-lines/{lineID}/match-journal [post]
func (h *statementHandler) matchLineWithJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for matchLineWithJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	line, err := h.reconciliationService.MatchLineWithJournal(c.Request.Context(), c.Param("lineID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to match statement line")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// createAdjustment godoc
// @Summary Book an adjustment for a bank-originated item
// @Description Posts a journal entry for a charge or interest item the ledger
// @Description missed and marks the line adjusted.
// @Tags statements
// @Accept json
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Param adjustment body dto.CreateAdjustmentRequest true "Adjustment details"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statement-lines/{lineID}/adjustment [post]
func (h *statementHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	line, err := h.reconciliationService.CreateAdjustment(c.Request.Context(), c.Param("lineID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to create adjustment")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}

// unmatchLine godoc
// @Summary Revert a matched statement line
// @Tags statements
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Success 200 {object} dto.StatementLineResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /statement-lines/{lineID}/unmatch [post]
func (h *statementHandler) unmatchLine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	line, err := h.reconciliationService.UnmatchLine(c.Request.Context(), c.Param("lineID"), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to unmatch statement line")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponse(line))
}
