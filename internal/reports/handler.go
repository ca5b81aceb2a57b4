package reports

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rfp-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the reports service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.generateReport)
	rg.GET("/reports", h.listReports)
	rg.GET("/reports/:id", h.getReport)
	rg.GET("/reports/:id/download", h.downloadReport)
	rg.POST("/reports/:id/share", h.shareReport)
	rg.POST("/reports/cleanup", h.cleanupReports)
}

type generateRequest struct {
	RFPName        string         `json:"rfp_name"`
	AnalysisResult AnalysisResult `json:"analysis_result"`
}

func (h *Handler) generateReport(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.RFPName) == "" {
		req.RFPName = "untitled"
	}

	result, err := h.Svc.Generate(c.Request.Context(), req.AnalysisResult, req.RFPName)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "report generation failed", nil)
		return
	}

	c.Set("reportId", result.ReportID)
	c.Set("reportFormat", result.Format)
	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) getReport(c *gin.Context) {
	id := strings.TrimSuffix(c.Param("id"), ".json")
	id = strings.TrimSuffix(id, ".pdf")

	doc, err := h.Svc.Document(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read report", nil)
		}
		return
	}

	c.Set("reportId", id)
	c.Data(http.StatusOK, "application/json", doc)
}

func (h *Handler) downloadReport(c *gin.Context) {
	id := strings.TrimSuffix(c.Param("id"), ".json")
	id = strings.TrimSuffix(id, ".pdf")

	report, err := h.Svc.Resolve(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve report", nil)
		}
		return
	}

	c.Set("reportId", id)
	c.Set("reportFormat", report.Format)
	// PDF preferred, JSON is the guaranteed fallback.
	if report.PDFPath != "" {
		c.FileAttachment(report.PDFPath, id+".pdf")
		return
	}
	c.FileAttachment(report.JSONPath, id+".json")
}

func (h *Handler) shareReport(c *gin.Context) {
	id := c.Param("id")

	link, err := h.Svc.Share(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to share report", nil)
		}
		return
	}

	c.Set("reportId", id)
	respond.OK(c, link)
}

func (h *Handler) listReports(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	respond.OK(c, gin.H{"reports": entries})
}

type cleanupRequest struct {
	MaxAgeHours int `json:"max_age_hours"`
}

func (h *Handler) cleanupReports(c *gin.Context) {
	var req cleanupRequest
	// Body is optional; default sweep age is 24h.
	_ = c.ShouldBindJSON(&req)
	if req.MaxAgeHours <= 0 {
		req.MaxAgeHours = 24
	}

	removed, err := h.Svc.Cleanup(c.Request.Context(), time.Duration(req.MaxAgeHours)*time.Hour)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "cleanup failed", nil)
		return
	}

	respond.OK(c, gin.H{"removed": removed, "max_age_hours": req.MaxAgeHours})
}
