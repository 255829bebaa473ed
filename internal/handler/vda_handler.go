package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saltscope/internal/service"
)

// VDAHandler handles voluntary-disclosure scenario endpoints.
type VDAHandler struct {
	vdaService service.VDAScenarioService
}

// NewVDAHandler creates a new VDAHandler.
func NewVDAHandler(vdaService service.VDAScenarioService) *VDAHandler {
	return &VDAHandler{vdaService: vdaService}
}

// CreateVDAScenarioRequest is the request body for creating a VDA scenario.
// An empty jurisdiction_codes list covers every jurisdiction in the results.
type CreateVDAScenarioRequest struct {
	Name              string   `json:"name" binding:"required"`
	FilingDate        string   `json:"filing_date" binding:"required"`
	JurisdictionCodes []string `json:"jurisdiction_codes"`
}

// Create handles POST /api/v1/analyses/:id/vda-scenarios
// @Summary Create a VDA scenario
// @Description Reprice the analysis baseline under voluntary disclosure program terms
// @Tags vda
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param input body CreateVDAScenarioRequest true "Scenario details"
// @Success 201 {object} APIResponse{data=domain.VDAScenario} "Scenario created"
// @Failure 400 {object} APIResponse "No results to reprice"
// @Security BearerAuth
// @Router /analyses/{id}/vda-scenarios [post]
func (h *VDAHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	var req CreateVDAScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	filingDate, err := time.Parse(dateLayout, req.FilingDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "filing_date must be YYYY-MM-DD")
		return
	}

	scenario, err := h.vdaService.Create(c.Request.Context(), service.CreateVDAScenarioInput{
		TenantID:          tenantID,
		AnalysisID:        analysisID,
		Name:              req.Name,
		FilingDate:        filingDate,
		JurisdictionCodes: req.JurisdictionCodes,
		CreatedBy:         userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, scenario)
}

// List handles GET /api/v1/analyses/:id/vda-scenarios
// @Summary List VDA scenarios
// @Tags vda
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {object} APIResponse{data=[]domain.VDAScenario} "Scenarios"
// @Security BearerAuth
// @Router /analyses/{id}/vda-scenarios [get]
func (h *VDAHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	scenarios, err := h.vdaService.List(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, scenarios)
}

// GetByID handles GET /api/v1/analyses/:id/vda-scenarios/:scenarioId
// @Summary Get VDA scenario by ID
// @Tags vda
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param scenarioId path string true "Scenario ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.VDAScenario} "Scenario"
// @Failure 404 {object} APIResponse "Scenario not found"
// @Security BearerAuth
// @Router /analyses/{id}/vda-scenarios/{scenarioId} [get]
func (h *VDAHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}
	scenarioID, err := uuid.Parse(c.Param("scenarioId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid scenario ID")
		return
	}

	scenario, err := h.vdaService.GetByID(c.Request.Context(), tenantID, analysisID, scenarioID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, scenario)
}

// Delete handles DELETE /api/v1/analyses/:id/vda-scenarios/:scenarioId
// @Summary Delete a VDA scenario
// @Tags vda
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param scenarioId path string true "Scenario ID (UUID)"
// @Success 200 {object} APIResponse "Scenario deleted"
// @Security BearerAuth
// @Router /analyses/{id}/vda-scenarios/{scenarioId} [delete]
func (h *VDAHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}
	scenarioID, err := uuid.Parse(c.Param("scenarioId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid scenario ID")
		return
	}

	if err := h.vdaService.Delete(c.Request.Context(), tenantID, analysisID, scenarioID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "scenario deleted"})
}
