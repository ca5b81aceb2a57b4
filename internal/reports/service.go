package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"rfp-backend/internal/shared/metrics"
	"rfp-backend/internal/shared/storage/artifact"
	"rfp-backend/internal/shared/telemetry"
	"rfp-backend/internal/shared/util"
)

const reportIDPrefix = "rfp_analysis"

// Service assembles, persists and manages reports.
type Service struct {
	Store    *Store
	Repo     Repo
	Renderer Renderer
	Mirror   artifact.Mirror
	BaseURL  string

	// Now and NewSuffix are swappable for tests.
	Now       func() time.Time
	NewSuffix func() string
}

// NewService constructs a Service with default clock and suffix source.
func NewService(store *Store, repo Repo, renderer Renderer) *Service {
	return &Service{
		Store:    store,
		Repo:     repo,
		Renderer: renderer,
		Now:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) suffix() string {
	if s.NewSuffix != nil {
		return s.NewSuffix()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Generate normalizes the analysis result, derives report fields, and
// persists the artifact pair. The JSON artifact is written first and
// unconditionally; PDF rendering is best-effort and downgraded to the JSON
// fallback on any failure.
func (s *Service) Generate(ctx context.Context, analysis AnalysisResult, rfpName string) (GenerateResult, error) {
	startedAt := s.now()
	telemetry.Info("report.generate", map[string]any{"rfp_name": rfpName})

	doc := Normalize(analysis)
	payload, err := json.Marshal(doc)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("marshal report document: %w", err)
	}

	id, dir, err := s.createReportDir()
	if err != nil {
		return GenerateResult{}, err
	}

	jsonPath, pdfCandidate := s.Store.ArtifactPaths(id)
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return GenerateResult{}, fmt.Errorf("write json artifact: %w", err)
	}

	pdfPath := ""
	if s.Renderer != nil && s.Renderer.Available() {
		if err := s.Renderer.Render(ctx, doc, rfpName, pdfCandidate); err != nil {
			metrics.IncRenderFailed()
			telemetry.Warn("report.render_failed", map[string]any{
				"report_id": id,
				"rfp_name":  rfpName,
				"err":       err.Error(),
			})
		} else if _, err := os.Stat(pdfCandidate); err == nil {
			pdfPath = pdfCandidate
		}
	}

	format := FormatJSON
	resultPath := jsonPath
	if pdfPath != "" {
		format = FormatPDF
		resultPath = pdfPath
	}

	report := Report{
		ID:        id,
		RFPName:   rfpName,
		Dir:       dir,
		JSONPath:  jsonPath,
		PDFPath:   pdfPath,
		Format:    format,
		CreatedAt: startedAt.UTC(),
	}
	if s.Repo != nil {
		// The artifact pair is already durable; a registry miss only costs
		// lookups, which fall back to the filesystem.
		if err := s.Repo.Create(ctx, report); err != nil {
			telemetry.Warn("report.registry_create_failed", map[string]any{
				"report_id": id,
				"err":       err.Error(),
			})
		}
	}

	metrics.IncReportGenerated()
	metrics.ObserveGenerationDurationMs(float64(time.Since(startedAt).Microseconds()) / 1000.0)
	telemetry.Info("report.generated", map[string]any{
		"report_id": id,
		"rfp_name":  rfpName,
		"format":    format,
	})

	return GenerateResult{ReportID: id, Format: format, Path: resultPath}, nil
}

// createReportDir derives a fresh identifier and creates its directory,
// retrying with a new suffix when the directory already exists.
func (s *Service) createReportDir() (string, string, error) {
	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := fmt.Sprintf("%s_%s_%s", reportIDPrefix, s.now().Format("20060102_150405"), s.suffix())
		dir, err := s.Store.CreateReportDir(id)
		if err == nil {
			return id, dir, nil
		}
		lastErr = err
		if !errors.Is(err, fs.ErrExist) {
			return "", "", fmt.Errorf("create report dir: %w", err)
		}
	}
	return "", "", fmt.Errorf("create report dir: exhausted identifier attempts: %w", lastErr)
}

// Resolve returns the registry row for a report, reconstructing it from the
// filesystem when the registry has no entry (e.g. after a restart with the
// in-memory registry).
func (s *Service) Resolve(ctx context.Context, id string) (Report, error) {
	if s.Repo != nil {
		report, err := s.Repo.GetByID(ctx, id)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Report{}, err
		}
	}

	jsonPath, pdfPath, err := s.Store.Path(id)
	if err != nil {
		return Report{}, err
	}
	format := FormatJSON
	if pdfPath != "" {
		format = FormatPDF
	}
	report := Report{
		ID:       id,
		JSONPath: jsonPath,
		PDFPath:  pdfPath,
		Format:   format,
	}
	if info, err := os.Stat(jsonPath); err == nil {
		report.CreatedAt = info.ModTime().UTC()
	}
	return report, nil
}

// Document reads the persisted report document for a report id.
func (s *Service) Document(ctx context.Context, id string) (json.RawMessage, error) {
	report, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(report.JSONPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(data), nil
}

// ShareLink is the caller-visible result of minting a share link.
type ShareLink struct {
	ReportID  string `json:"report_id"`
	ShareURL  string `json:"share_url"`
	ExpiresIn string `json:"expires_in"`
}

// Share mints a share token for a report. When an artifact mirror is
// configured the preferred artifact is uploaded there and its URL returned;
// otherwise the link points at the local download endpoint.
func (s *Service) Share(ctx context.Context, id string) (ShareLink, error) {
	report, err := s.Resolve(ctx, id)
	if err != nil {
		return ShareLink{}, err
	}

	token := util.NewShareToken()
	if s.Repo != nil {
		if err := s.Repo.UpdateShareToken(ctx, id, token); err != nil && !errors.Is(err, ErrNotFound) {
			return ShareLink{}, err
		}
	}

	shareURL := fmt.Sprintf("%s/api/v1/reports/%s/download", s.BaseURL, id)
	if s.Mirror != nil {
		localPath := report.JSONPath
		if report.PDFPath != "" {
			localPath = report.PDFPath
		}
		key := path.Join(id, path.Base(localPath))
		if url, err := s.Mirror.Upload(ctx, localPath, key); err != nil {
			telemetry.Warn("report.share.mirror_failed", map[string]any{
				"report_id": id,
				"err":       err.Error(),
			})
		} else {
			shareURL = url
		}
	}

	return ShareLink{ReportID: id, ShareURL: shareURL, ExpiresIn: "24 hours"}, nil
}

// List returns the reports under the root, newest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.List()
}

// Cleanup removes reports older than maxAge and purges registry rows whose
// artifacts are gone.
func (s *Service) Cleanup(ctx context.Context, maxAge time.Duration) (removed int, err error) {
	removed, err = s.Store.Cleanup(maxAge)
	if err != nil {
		return removed, err
	}
	metrics.AddCleanupRemoved(removed)

	if s.Repo != nil {
		purged, purgeErr := s.Repo.PurgeMissing(ctx, func(r Report) bool {
			_, statErr := os.Stat(r.JSONPath)
			return statErr == nil
		})
		if purgeErr != nil {
			telemetry.Warn("report.cleanup.purge_failed", map[string]any{"err": purgeErr.Error()})
		} else if purged > 0 {
			telemetry.Info("report.cleanup.purged", map[string]any{"purged": purged})
		}
	}

	telemetry.Info("report.cleanup", map[string]any{"removed": removed})
	return removed, nil
}
