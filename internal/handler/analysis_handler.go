package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saltscope/internal/service"
)

const dateLayout = "2006-01-02"

// AnalysisHandler handles analysis lifecycle endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// CreateAnalysisRequest is the request body for creating an analysis.
type CreateAnalysisRequest struct {
	Name         string `json:"name" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	CutoffDate   string `json:"cutoff_date"`
}

// UpdateAnalysisRequest is the request body for updating an analysis.
type UpdateAnalysisRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"business_name"`
	CutoffDate   *string `json:"cutoff_date"`
}

// ImportRequest is the request body for importing an uploaded file.
type ImportRequest struct {
	FileID uuid.UUID `json:"file_id" binding:"required"`
}

// AddPhysicalNexusRequest is the request body for declaring physical presence.
type AddPhysicalNexusRequest struct {
	JurisdictionCode string `json:"jurisdiction_code" binding:"required"`
	EstablishedDate  string `json:"established_date" binding:"required"`
	Note             string `json:"note"`
}

// Create handles POST /api/v1/analyses
// @Summary Create an analysis
// @Tags analyses
// @Accept json
// @Produce json
// @Param input body CreateAnalysisRequest true "Analysis details"
// @Success 201 {object} APIResponse{data=domain.Analysis} "Analysis created"
// @Failure 400 {object} APIResponse "Validation error"
// @Security BearerAuth
// @Router /analyses [post]
func (h *AnalysisHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var cutoff time.Time
	if req.CutoffDate != "" {
		var err error
		cutoff, err = time.Parse(dateLayout, req.CutoffDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cutoff_date must be YYYY-MM-DD")
			return
		}
	}

	analysis, err := h.analysisService.Create(c.Request.Context(), service.CreateAnalysisInput{
		TenantID:     tenantID,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		CutoffDate:   cutoff,
		CreatedBy:    userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, analysis)
}

// List handles GET /api/v1/analyses
// @Summary List analyses
// @Tags analyses
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Analysis,meta=PagMeta} "List of analyses"
// @Security BearerAuth
// @Router /analyses [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	analyses, total, err := h.analysisService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/analyses/:id
// @Summary Get analysis by ID
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Analysis} "Analysis"
// @Failure 404 {object} APIResponse "Analysis not found"
// @Security BearerAuth
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.GetByID(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analysis)
}

// Update handles PUT /api/v1/analyses/:id
// @Summary Update an analysis
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param input body UpdateAnalysisRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.Analysis} "Updated analysis"
// @Failure 409 {object} APIResponse "Analysis is running"
// @Security BearerAuth
// @Router /analyses/{id} [put]
func (h *AnalysisHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	var req UpdateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := service.UpdateAnalysisInput{
		Name:         req.Name,
		BusinessName: req.BusinessName,
	}
	if req.CutoffDate != nil {
		cutoff, err := time.Parse(dateLayout, *req.CutoffDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "cutoff_date must be YYYY-MM-DD")
			return
		}
		input.CutoffDate = &cutoff
	}

	analysis, err := h.analysisService.Update(c.Request.Context(), tenantID, analysisID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analysis)
}

// Delete handles DELETE /api/v1/analyses/:id
// @Summary Delete an analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {object} APIResponse "Analysis deleted"
// @Failure 409 {object} APIResponse "Analysis is running"
// @Security BearerAuth
// @Router /analyses/{id} [delete]
func (h *AnalysisHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	if err := h.analysisService.Delete(c.Request.Context(), tenantID, analysisID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "analysis deleted"})
}

// Import handles POST /api/v1/analyses/:id/import
// @Summary Import transactions from an uploaded file
// @Description Replace the analysis transaction set with the contents of an uploaded sales export
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param input body ImportRequest true "File to import"
// @Success 200 {object} APIResponse{data=service.ImportSummary} "Import summary"
// @Failure 400 {object} APIResponse "File not importable or no valid rows"
// @Security BearerAuth
// @Router /analyses/{id}/import [post]
func (h *AnalysisHandler) Import(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	summary, err := h.analysisService.ImportFile(c.Request.Context(), service.ImportFileInput{
		TenantID:   tenantID,
		AnalysisID: analysisID,
		FileID:     req.FileID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Run handles POST /api/v1/analyses/:id/run
// @Summary Run an analysis
// @Description Start a background run; results replace the previous set on success
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 202 {object} APIResponse{data=domain.Analysis} "Analysis running"
// @Failure 400 {object} APIResponse "No transactions"
// @Failure 409 {object} APIResponse "Analysis is already running"
// @Security BearerAuth
// @Router /analyses/{id}/run [post]
func (h *AnalysisHandler) Run(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.Run(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, analysis)
}

// AddPhysicalNexus handles POST /api/v1/analyses/:id/physical-nexus
// @Summary Declare physical presence
// @Tags analyses
// @Accept json
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param input body AddPhysicalNexusRequest true "Physical presence details"
// @Success 201 {object} APIResponse{data=domain.PhysicalNexusRecord} "Record created"
// @Security BearerAuth
// @Router /analyses/{id}/physical-nexus [post]
func (h *AnalysisHandler) AddPhysicalNexus(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	var req AddPhysicalNexusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	established, err := time.Parse(dateLayout, req.EstablishedDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "established_date must be YYYY-MM-DD")
		return
	}

	record, err := h.analysisService.AddPhysicalNexus(c.Request.Context(), service.AddPhysicalNexusInput{
		TenantID:         tenantID,
		AnalysisID:       analysisID,
		JurisdictionCode: req.JurisdictionCode,
		EstablishedDate:  established,
		Note:             req.Note,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, record)
}

// ListPhysicalNexus handles GET /api/v1/analyses/:id/physical-nexus
// @Summary List physical presence records
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {object} APIResponse{data=[]domain.PhysicalNexusRecord} "Records"
// @Security BearerAuth
// @Router /analyses/{id}/physical-nexus [get]
func (h *AnalysisHandler) ListPhysicalNexus(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	records, err := h.analysisService.ListPhysicalNexus(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// DeletePhysicalNexus handles DELETE /api/v1/analyses/:id/physical-nexus/:recordId
// @Summary Delete a physical presence record
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param recordId path string true "Record ID (UUID)"
// @Success 200 {object} APIResponse "Record deleted"
// @Security BearerAuth
// @Router /analyses/{id}/physical-nexus/{recordId} [delete]
func (h *AnalysisHandler) DeletePhysicalNexus(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	if err := h.analysisService.DeletePhysicalNexus(c.Request.Context(), tenantID, analysisID, recordID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "physical nexus record deleted"})
}
