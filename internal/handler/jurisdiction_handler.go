package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"saltscope/internal/domain"
	"saltscope/internal/service"
)

// JurisdictionHandler handles jurisdiction catalog and tax config endpoints.
type JurisdictionHandler struct {
	jurisdictionService service.JurisdictionService
}

// NewJurisdictionHandler creates a new JurisdictionHandler.
func NewJurisdictionHandler(jurisdictionService service.JurisdictionService) *JurisdictionHandler {
	return &JurisdictionHandler{jurisdictionService: jurisdictionService}
}

func jurisdictionCode(c *gin.Context) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_CODE", "jurisdiction code is required")
		return "", false
	}
	return code, true
}

// List handles GET /api/v1/jurisdictions
// @Summary List jurisdictions
// @Tags jurisdictions
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Jurisdiction} "Jurisdictions"
// @Security BearerAuth
// @Router /jurisdictions [get]
func (h *JurisdictionHandler) List(c *gin.Context) {
	jurisdictions, err := h.jurisdictionService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, jurisdictions)
}

// GetConfig handles GET /api/v1/jurisdictions/:code/config
// @Summary Get jurisdiction tax configuration
// @Description Current threshold rule, tax rate, marketplace rule, interest/penalty config, and VDA program terms
// @Tags jurisdictions
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Success 200 {object} APIResponse{data=service.JurisdictionConfig} "Configuration"
// @Failure 404 {object} APIResponse "Jurisdiction not found"
// @Security BearerAuth
// @Router /jurisdictions/{code}/config [get]
func (h *JurisdictionHandler) GetConfig(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	cfg, err := h.jurisdictionService.GetConfig(c.Request.Context(), code)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// UpsertJurisdiction handles PUT /api/v1/admin/jurisdictions/:code
// @Summary Create or update a jurisdiction
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.Jurisdiction true "Jurisdiction"
// @Success 200 {object} APIResponse{data=domain.Jurisdiction} "Jurisdiction saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code} [put]
func (h *JurisdictionHandler) UpsertJurisdiction(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var j domain.Jurisdiction
	if err := c.ShouldBindJSON(&j); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	j.Code = code

	if err := h.jurisdictionService.UpsertJurisdiction(c.Request.Context(), &j); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, j)
}

// UpsertThresholdRule handles PUT /api/v1/admin/jurisdictions/:code/threshold
// @Summary Create or update a threshold rule
// @Description The rule becomes current; any previous current rule is closed
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.ThresholdRule true "Threshold rule"
// @Success 200 {object} APIResponse{data=domain.ThresholdRule} "Rule saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code}/threshold [put]
func (h *JurisdictionHandler) UpsertThresholdRule(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var rule domain.ThresholdRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	rule.JurisdictionCode = code

	if rule.RevenueThreshold == nil && rule.TransactionThreshold == nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "at least one of revenue_threshold or transaction_threshold is required")
		return
	}

	if err := h.jurisdictionService.UpsertThresholdRule(c.Request.Context(), &rule); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rule)
}

// UpsertTaxRate handles PUT /api/v1/admin/jurisdictions/:code/rate
// @Summary Create or update a tax rate
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.TaxRateConfig true "Tax rate"
// @Success 200 {object} APIResponse{data=domain.TaxRateConfig} "Rate saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code}/rate [put]
func (h *JurisdictionHandler) UpsertTaxRate(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var rate domain.TaxRateConfig
	if err := c.ShouldBindJSON(&rate); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	rate.JurisdictionCode = code

	if rate.CombinedRate.IsNegative() {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "combined_rate must not be negative")
		return
	}

	if err := h.jurisdictionService.UpsertTaxRate(c.Request.Context(), &rate); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rate)
}

// UpsertMarketplaceRule handles PUT /api/v1/admin/jurisdictions/:code/marketplace
// @Summary Create or update a marketplace facilitator rule
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.MarketplaceFacilitatorRule true "Marketplace rule"
// @Success 200 {object} APIResponse{data=domain.MarketplaceFacilitatorRule} "Rule saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code}/marketplace [put]
func (h *JurisdictionHandler) UpsertMarketplaceRule(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var rule domain.MarketplaceFacilitatorRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	rule.JurisdictionCode = code

	if err := h.jurisdictionService.UpsertMarketplaceRule(c.Request.Context(), &rule); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rule)
}

// UpsertInterestPenaltyConfig handles PUT /api/v1/admin/jurisdictions/:code/interest-penalty
// @Summary Create or update an interest and penalty configuration
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.InterestPenaltyConfig true "Interest/penalty configuration"
// @Success 200 {object} APIResponse{data=domain.InterestPenaltyConfig} "Configuration saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code}/interest-penalty [put]
func (h *JurisdictionHandler) UpsertInterestPenaltyConfig(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var cfg domain.InterestPenaltyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	cfg.JurisdictionCode = code

	if err := h.jurisdictionService.UpsertInterestPenaltyConfig(c.Request.Context(), &cfg); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// UpsertVDAProgramRules handles PUT /api/v1/admin/jurisdictions/:code/vda-program
// @Summary Create or update VDA program terms
// @Tags jurisdictions
// @Accept json
// @Produce json
// @Param code path string true "Jurisdiction code"
// @Param input body domain.VDAProgramRules true "VDA program terms"
// @Success 200 {object} APIResponse{data=domain.VDAProgramRules} "Terms saved"
// @Security BearerAuth
// @Router /admin/jurisdictions/{code}/vda-program [put]
func (h *JurisdictionHandler) UpsertVDAProgramRules(c *gin.Context) {
	code, ok := jurisdictionCode(c)
	if !ok {
		return
	}

	var rules domain.VDAProgramRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.jurisdictionService.UpsertVDAProgramRules(c.Request.Context(), code, &rules); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rules)
}
