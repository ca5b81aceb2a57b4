package documents

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"rfp-backend/internal/compare"
	"rfp-backend/internal/reports"
	local "rfp-backend/internal/shared/storage/object/local"
)

type staticEngine struct {
	analysis reports.AnalysisResult
	err      error
}

func (s staticEngine) Compare(ctx context.Context, rfpText, companyText string) (reports.AnalysisResult, error) {
	return s.analysis, s.err
}

func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	body := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newAnalyzeService(t *testing.T, engine compare.Engine) *Service {
	t.Helper()
	store, err := reports.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new report store: %v", err)
	}
	reportSvc := reports.NewService(store, reports.NewMemoryRepo(), reports.NopRenderer{})
	return NewService(local.New(t.TempDir()), engine, reportSvc)
}

func TestAnalyzeRunsFullPipeline(t *testing.T) {
	engine := staticEngine{analysis: reports.AnalysisResult{
		Scores: &reports.Scores{OverallScore: 85, RequirementCoverage: 92},
		Metrics: reports.Metrics{
			"total_requirements":      10,
			"high_confidence_matches": 9,
		},
	}}
	svc := newAnalyzeService(t, engine)

	result, err := svc.Analyze(context.Background(),
		Upload{FileName: "city-rfp.docx", Data: docxBytes(t, "requirements")},
		Upload{FileName: "company.docx", Data: docxBytes(t, "capabilities")},
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.ReportID == "" || result.Format != reports.FormatJSON {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.RFPName != "city-rfp.docx" {
		t.Fatalf("rfp name = %q", result.RFPName)
	}
	if result.RFPKey == "" || result.CompanyKey == "" {
		t.Fatalf("uploads not persisted: %+v", result)
	}
}

func TestAnalyzeWithoutEngine(t *testing.T) {
	svc := newAnalyzeService(t, nil)
	_, err := svc.Analyze(context.Background(),
		Upload{FileName: "a.docx", Data: docxBytes(t, "x")},
		Upload{FileName: "b.docx", Data: docxBytes(t, "y")},
	)
	if !errors.Is(err, compare.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestAnalyzeUnconfiguredEngine(t *testing.T) {
	svc := newAnalyzeService(t, compare.Unconfigured{})
	_, err := svc.Analyze(context.Background(),
		Upload{FileName: "a.docx", Data: docxBytes(t, "x")},
		Upload{FileName: "b.docx", Data: docxBytes(t, "y")},
	)
	if !errors.Is(err, compare.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestAnalyzeRejectsUnextractableDocument(t *testing.T) {
	svc := newAnalyzeService(t, staticEngine{})
	_, err := svc.Analyze(context.Background(),
		Upload{FileName: "a.docx", Data: []byte("not a zip")},
		Upload{FileName: "b.docx", Data: docxBytes(t, "y")},
	)
	if err == nil {
		t.Fatalf("expected extraction error")
	}
}
