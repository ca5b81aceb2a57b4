package documents

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"rfp-backend/internal/compare"
	"rfp-backend/internal/extract"
	"rfp-backend/internal/reports"
	"rfp-backend/internal/shared/storage/object"
	"rfp-backend/internal/shared/telemetry"
)

// Service runs the full analyze pipeline: persist the uploaded pair, extract
// text, run the comparison engine, and hand the analysis to report assembly.
type Service struct {
	Objects object.ObjectStore
	Engine  compare.Engine
	Reports *reports.Service
}

// NewService constructs a documents Service.
func NewService(objects object.ObjectStore, engine compare.Engine, reportsSvc *reports.Service) *Service {
	return &Service{Objects: objects, Engine: engine, Reports: reportsSvc}
}

// Upload is one incoming document of the pair.
type Upload struct {
	FileName string
	Data     []byte
}

// AnalyzeResult is the outcome of an analyze run.
type AnalyzeResult struct {
	ReportID   string `json:"report_id"`
	Format     string `json:"format"`
	RFPName    string `json:"rfp_name"`
	RFPKey     string `json:"rfp_storage_key"`
	CompanyKey string `json:"company_storage_key"`
}

// Analyze stores both documents, extracts their text, compares them and
// generates the report. Storage failures are downgraded to warnings: the
// uploads are only kept for audit, the pipeline runs off the in-memory bytes.
func (s *Service) Analyze(ctx context.Context, rfp, company Upload) (AnalyzeResult, error) {
	if s.Engine == nil {
		return AnalyzeResult{}, compare.ErrNotConfigured
	}

	rfpKey := s.persist(ctx, "rfp", rfp)
	companyKey := s.persist(ctx, "company", company)

	rfpText, err := extract.TextFromBytes(ctx, rfp.Data, sniffMime(rfp.Data), rfp.FileName)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("extract rfp document: %w", err)
	}
	companyText, err := extract.TextFromBytes(ctx, company.Data, sniffMime(company.Data), company.FileName)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("extract company document: %w", err)
	}

	analysis, err := s.Engine.Compare(ctx, rfpText, companyText)
	if err != nil {
		return AnalyzeResult{}, err
	}

	generated, err := s.Reports.Generate(ctx, analysis, rfp.FileName)
	if err != nil {
		return AnalyzeResult{}, err
	}

	return AnalyzeResult{
		ReportID:   generated.ReportID,
		Format:     generated.Format,
		RFPName:    rfp.FileName,
		RFPKey:     rfpKey,
		CompanyKey: companyKey,
	}, nil
}

func (s *Service) persist(ctx context.Context, namespace string, u Upload) string {
	if s.Objects == nil {
		return ""
	}
	key, _, _, err := s.Objects.Save(ctx, namespace, u.FileName, bytes.NewReader(u.Data))
	if err != nil {
		telemetry.Warn("documents.persist_failed", map[string]any{
			"namespace": namespace,
			"file_name": u.FileName,
			"err":       err.Error(),
		})
		return ""
	}
	return key
}

// sniffMime reports pdf/zip from the payload head; the extractor resolves
// zip to OOXML from the archive contents.
func sniffMime(data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return "application/pdf"
	}
	var sniff [512]byte
	n := copy(sniff[:], data)
	return http.DetectContentType(sniff[:n])
}
