package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"saltscope/internal/csvexport"
	"saltscope/internal/service"
)

// ResultHandler handles analysis result endpoints.
type ResultHandler struct {
	analysisService service.AnalysisService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(analysisService service.AnalysisService) *ResultHandler {
	return &ResultHandler{analysisService: analysisService}
}

// List handles GET /api/v1/analyses/:id/results
// @Summary List analysis results
// @Description List per-jurisdiction per-year results, optionally filtered by jurisdiction
// @Tags results
// @Produce json
// @Param id path string true "Analysis ID (UUID)"
// @Param jurisdiction query string false "Jurisdiction code filter"
// @Success 200 {object} APIResponse{data=[]domain.YearResult} "Results"
// @Failure 404 {object} APIResponse "Analysis not found"
// @Security BearerAuth
// @Router /analyses/{id}/results [get]
func (h *ResultHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	if code := c.Query("jurisdiction"); code != "" {
		results, err := h.analysisService.ListResultsByJurisdiction(c.Request.Context(), tenantID, analysisID, code)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, results)
		return
	}

	results, err := h.analysisService.ListResults(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, results)
}

// ExportCSV handles GET /api/v1/analyses/:id/results/export
// @Summary Export results as CSV
// @Description Download analysis results as a UTF-8 CSV with BOM
// @Tags results
// @Produce text/csv
// @Param id path string true "Analysis ID (UUID)"
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} APIResponse "Analysis not found"
// @Security BearerAuth
// @Router /analyses/{id}/results/export [get]
func (h *ResultHandler) ExportCSV(c *gin.Context) {
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

	results, err := h.analysisService.ListResults(c.Request.Context(), tenantID, analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(analysis.Name)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteResults(results); err != nil {
		return
	}
	w.Flush()
}
