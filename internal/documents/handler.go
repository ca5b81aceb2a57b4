package documents

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rfp-backend/internal/compare"
	"rfp-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
}

// Handler exposes the document analysis endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*maxUploadBytes)

	rfp, ok := h.readUpload(c, "rfp_document")
	if !ok {
		return
	}
	company, ok := h.readUpload(c, "company_document")
	if !ok {
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), rfp, company)
	if err != nil {
		if errors.Is(err, compare.ErrNotConfigured) {
			respond.Error(c, http.StatusServiceUnavailable, "not_configured", "document comparison is not available", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "analysis_failed", "failed to analyze documents", nil)
		return
	}

	c.Set("reportId", result.ReportID)
	c.Set("reportFormat", result.Format)
	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) readUpload(c *gin.Context, field string) (Upload, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", field+" is required", nil)
		return Upload{}, false
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", field+" exceeds size limit", nil)
		return Upload{}, false
	}
	if !allowedExtension(fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "validation_error", field+" must be a PDF or DOCX file", nil)
		return Upload{}, false
	}

	data, err := readAll(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read "+field, nil)
		return Upload{}, false
	}
	return Upload{FileName: fileHeader.Filename, Data: data}, true
}

func allowedExtension(fileName string) bool {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(fileName[idx:])]
	return ok
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
}
