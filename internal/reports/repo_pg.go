package reports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a registry row for a generated report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO reports (id, rfp_name, dir, json_path, pdf_path, format, share_token, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var pdfPath sql.NullString
	if report.PDFPath != "" {
		pdfPath = sql.NullString{String: report.PDFPath, Valid: true}
	}
	var shareToken sql.NullString
	if report.ShareToken != "" {
		shareToken = sql.NullString{String: report.ShareToken, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		report.ID,
		report.RFPName,
		report.Dir,
		report.JSONPath,
		pdfPath,
		report.Format,
		shareToken,
		report.CreatedAt,
	)
	return err
}

// GetByID returns a registry row by report id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Report, error) {
	const query = `
SELECT id, rfp_name, dir, json_path, pdf_path, format, share_token, created_at
FROM reports
WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetByShareToken returns the registry row a share token points at.
func (r *PGRepo) GetByShareToken(ctx context.Context, token string) (Report, error) {
	const query = `
SELECT id, rfp_name, dir, json_path, pdf_path, format, share_token, created_at
FROM reports
WHERE share_token = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, token))
}

// UpdateShareToken attaches a share token to a report.
func (r *PGRepo) UpdateShareToken(ctx context.Context, id, token string) error {
	const query = `UPDATE reports SET share_token = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, token)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns registry rows newest first, honoring limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Report, error) {
	const query = `
SELECT id, rfp_name, dir, json_path, pdf_path, format, share_token, created_at
FROM reports
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// PurgeMissing drops rows whose report no longer exists on disk.
func (r *PGRepo) PurgeMissing(ctx context.Context, exists func(Report) bool) (int, error) {
	all, err := r.listAll(ctx)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, report := range all {
		if exists(report) {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, report.ID); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (r *PGRepo) listAll(ctx context.Context) ([]Report, error) {
	const query = `
SELECT id, rfp_name, dir, json_path, pdf_path, format, share_token, created_at
FROM reports`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Report, error) {
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	return report, nil
}

func scanReport(row rowScanner) (Report, error) {
	var report Report
	var pdfPath sql.NullString
	var shareToken sql.NullString
	err := row.Scan(
		&report.ID,
		&report.RFPName,
		&report.Dir,
		&report.JSONPath,
		&pdfPath,
		&report.Format,
		&shareToken,
		&report.CreatedAt,
	)
	if err != nil {
		return Report{}, err
	}
	if pdfPath.Valid {
		report.PDFPath = pdfPath.String
	}
	if shareToken.Valid {
		report.ShareToken = shareToken.String
	}
	return report, nil
}
