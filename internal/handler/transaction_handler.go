package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxsarthi/internal/service"
)

// TransactionHandler handles transaction statement upload and analysis.
type TransactionHandler struct {
	transactionService service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Analyze handles POST /api/v1/transactions/analyze
func (h *TransactionHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	analysis, err := h.transactionService.AnalyzeStatement(
		c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analysis)
}
