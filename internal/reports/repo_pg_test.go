package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func reportColumns() []string {
	return []string{"id", "rfp_name", "dir", "json_path", "pdf_path", "format", "share_token", "created_at"}
}

// JSON-only generation is the common case: pdf_path must bind as SQL NULL,
// which the reports schema allows (pdf_path has no NOT NULL constraint).
func TestPGRepoCreateJSONOnlyBindsNullPDFPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := Report{
		ID:        "rfp_analysis_20260824_120000_aaaaaaaa",
		RFPName:   "City RFP",
		Dir:       "/reports/rfp_analysis_20260824_120000_aaaaaaaa",
		JSONPath:  "/reports/rfp_analysis_20260824_120000_aaaaaaaa/rfp_analysis_20260824_120000_aaaaaaaa.json",
		Format:    FormatJSON,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO reports").
		WithArgs(
			report.ID,
			report.RFPName,
			report.Dir,
			report.JSONPath,
			nil, // pdf_path
			report.Format,
			nil, // share_token
			report.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRenderedBindsPDFPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := Report{
		ID:        "rfp_analysis_20260824_120001_bbbbbbbb",
		RFPName:   "City RFP",
		Dir:       "/reports/rfp_analysis_20260824_120001_bbbbbbbb",
		JSONPath:  "/reports/rfp_analysis_20260824_120001_bbbbbbbb/rfp_analysis_20260824_120001_bbbbbbbb.json",
		PDFPath:   "/reports/rfp_analysis_20260824_120001_bbbbbbbb/rfp_analysis_20260824_120001_bbbbbbbb.pdf",
		Format:    FormatPDF,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO reports").
		WithArgs(
			report.ID,
			report.RFPName,
			report.Dir,
			report.JSONPath,
			report.PDFPath,
			report.Format,
			nil, // share_token
			report.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("rfp_analysis_missing").
		WillReturnRows(sqlmock.NewRows(reportColumns()))

	if _, err := repo.GetByID(context.Background(), "rfp_analysis_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByShareToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()
	rows := sqlmock.NewRows(reportColumns()).
		AddRow("rfp_analysis_20260824_120000_aaaaaaaa", "City RFP", "/reports/x", "/reports/x/x.json", "/reports/x/x.pdf", FormatPDF, "tok123", createdAt)

	mock.ExpectQuery("SELECT (.+) FROM reports").
		WithArgs("tok123").
		WillReturnRows(rows)

	report, err := repo.GetByShareToken(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("GetByShareToken: %v", err)
	}
	if report.ID != "rfp_analysis_20260824_120000_aaaaaaaa" || report.PDFPath == "" || report.ShareToken != "tok123" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateShareTokenNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE reports SET share_token").
		WithArgs("rfp_analysis_missing", "tok123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateShareToken(context.Background(), "rfp_analysis_missing", "tok123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateShareToken = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoPurgeMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()
	rows := sqlmock.NewRows(reportColumns()).
		AddRow("rfp_analysis_keep", "a", "/reports/a", "/reports/a/a.json", nil, FormatJSON, nil, createdAt).
		AddRow("rfp_analysis_drop", "b", "/reports/b", "/reports/b/b.json", nil, FormatJSON, nil, createdAt)

	mock.ExpectQuery("SELECT (.+) FROM reports").WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM reports").
		WithArgs("rfp_analysis_drop").
		WillReturnResult(sqlmock.NewResult(0, 1))

	purged, err := repo.PurgeMissing(context.Background(), func(r Report) bool {
		return r.ID == "rfp_analysis_keep"
	})
	if err != nil {
		t.Fatalf("PurgeMissing: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged = %d, want 1", purged)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
