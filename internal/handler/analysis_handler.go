package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/service"
)

// AnalysisHandler handles tax computation and history endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	defaultFY       string
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, defaultFY string) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, defaultFY: defaultFY}
}

// AnalyzeRequest is the payload for single-regime analysis and reports.
type AnalyzeRequest struct {
	GrossIncome        float64            `json:"gross_income" binding:"required,gt=0"`
	Regime             string             `json:"regime" binding:"required"`
	FinancialYear      string             `json:"financial_year"`
	Deductions         map[string]float64 `json:"deductions"`
	PreviousYearIncome *float64           `json:"previous_year_income"`
}

func (r *AnalyzeRequest) financialYear(fallback string) string {
	if r.FinancialYear != "" {
		return r.FinancialYear
	}
	return fallback
}

func (r *AnalyzeRequest) input() *domain.TaxpayerInput {
	return &domain.TaxpayerInput{
		GrossIncome:        r.GrossIncome,
		Deductions:         r.Deductions,
		PreviousYearIncome: r.PreviousYearIncome,
	}
}

// Analyze handles POST /api/v1/tax/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	outcome, err := h.analysisService.Analyze(
		c.Request.Context(), domain.Regime(req.Regime), req.financialYear(h.defaultFY), req.input())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, outcome)
}

// CompareRequest is the payload for old-vs-new regime comparison. The two
// regimes admit different deduction sections, so each carries its own map.
type CompareRequest struct {
	GrossIncome        float64            `json:"gross_income" binding:"required,gt=0"`
	FinancialYear      string             `json:"financial_year"`
	DeductionsOld      map[string]float64 `json:"deductions_old"`
	DeductionsNew      map[string]float64 `json:"deductions_new"`
	PreviousYearIncome *float64           `json:"previous_year_income"`
}

// Compare handles POST /api/v1/tax/compare
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	fy := req.FinancialYear
	if fy == "" {
		fy = h.defaultFY
	}
	inputOld := &domain.TaxpayerInput{
		GrossIncome:        req.GrossIncome,
		Deductions:         req.DeductionsOld,
		PreviousYearIncome: req.PreviousYearIncome,
	}
	inputNew := &domain.TaxpayerInput{
		GrossIncome:        req.GrossIncome,
		Deductions:         req.DeductionsNew,
		PreviousYearIncome: req.PreviousYearIncome,
	}

	comparison, err := h.analysisService.Compare(c.Request.Context(), fy, inputOld, inputNew)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, comparison)
}

// SimulateRequest is the payload for income simulation.
type SimulateRequest struct {
	BaseIncome       float64            `json:"base_income" binding:"required,gt=0"`
	IncomeIncrements []float64          `json:"income_increments" binding:"required,min=1"`
	Regime           string             `json:"regime" binding:"required"`
	FinancialYear    string             `json:"financial_year"`
	Deductions       map[string]float64 `json:"deductions"`
}

// Simulate handles POST /api/v1/tax/simulate
func (h *AnalysisHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	fy := req.FinancialYear
	if fy == "" {
		fy = h.defaultFY
	}
	incomes := make([]float64, 0, len(req.IncomeIncrements))
	for _, inc := range req.IncomeIncrements {
		incomes = append(incomes, req.BaseIncome+inc)
	}

	rows, err := h.analysisService.Simulate(
		c.Request.Context(), domain.Regime(req.Regime), fy, incomes, req.Deductions)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"base_income": req.BaseIncome, "simulations": rows})
}

// Report handles POST /api/v1/tax/report
func (h *AnalysisHandler) Report(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	text, err := h.analysisService.Report(
		c.Request.Context(), domain.Regime(req.Regime), req.financialYear(h.defaultFY), req.input())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"report": text})
}

// History handles GET /api/v1/tax/history
func (h *AnalysisHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.analysisService.History(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Offset: offset, Limit: limit, Count: len(records)})
}

// GetByID handles GET /api/v1/tax/history/:id
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}

	record, err := h.analysisService.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}
