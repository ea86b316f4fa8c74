package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/service"
)

// RuleHandler handles tax rule document endpoints.
type RuleHandler struct {
	ruleService service.RuleService
	defaultFY   string
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleService service.RuleService, defaultFY string) *RuleHandler {
	return &RuleHandler{ruleService: ruleService, defaultFY: defaultFY}
}

// Current handles GET /api/v1/rules/current
func (h *RuleHandler) Current(c *gin.Context) {
	regime := c.DefaultQuery("regime", string(domain.RegimeNew))
	fy := c.DefaultQuery("financial_year", h.defaultFY)

	rules, err := h.ruleService.Current(domain.Regime(regime), fy)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rules)
}

// GenerateRequest is the payload for rule generation.
type GenerateRequest struct {
	Regime        string `json:"regime"`
	FinancialYear string `json:"financial_year"`
}

// Generate handles POST /api/v1/rules/generate. Admin only.
func (h *RuleHandler) Generate(c *gin.Context) {
	// Body is optional; both fields have defaults.
	var req GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	if req.Regime == "" {
		req.Regime = "both"
	}
	fy := req.FinancialYear
	if fy == "" {
		fy = h.defaultFY
	}

	infos, err := h.ruleService.Generate(c.Request.Context(), req.Regime, fy)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"financial_year": fy, "generated": infos})
}
