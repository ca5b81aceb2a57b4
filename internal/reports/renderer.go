package reports

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Renderer produces the best-effort printable artifact for a report document.
// Render failures never fail report generation; callers fall back to the JSON
// artifact.
type Renderer interface {
	Available() bool
	Render(ctx context.Context, doc ReportDocument, rfpName, pdfPath string) error
}

// wkhtmltopdfCandidates are the well-known install locations probed before
// falling back to the executable search path.
var wkhtmltopdfCandidates = []string{
	"/usr/local/bin/wkhtmltopdf",
	"/usr/bin/wkhtmltopdf",
}

const defaultRenderTimeout = 30 * time.Second

// WKHTMLRenderer renders report documents to PDF by piping the HTML report
// template through a wkhtmltopdf binary discovered at construction time.
type WKHTMLRenderer struct {
	binPath string
	timeout time.Duration
}

// NewWKHTMLRenderer probes for wkhtmltopdf. explicitPath, when non-empty, is
// tried first. The renderer is returned even when no binary is found; it then
// reports itself unavailable and generation proceeds JSON-only.
func NewWKHTMLRenderer(explicitPath string, timeout time.Duration) *WKHTMLRenderer {
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	return &WKHTMLRenderer{
		binPath: probeWkhtmltopdf(explicitPath),
		timeout: timeout,
	}
}

// Available reports whether a rendering binary was found at startup.
func (r *WKHTMLRenderer) Available() bool {
	return r.binPath != ""
}

// Render writes the PDF artifact for doc at pdfPath. A stalled engine is
// bounded by the configured timeout and reported as an ordinary failure.
func (r *WKHTMLRenderer) Render(ctx context.Context, doc ReportDocument, rfpName, pdfPath string) error {
	if r.binPath == "" {
		return fmt.Errorf("wkhtmltopdf not available")
	}

	html, err := renderReportHTML(doc, rfpName)
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.binPath,
		"--quiet",
		"--page-size", "A4",
		"--margin-top", "0.75in",
		"--margin-right", "0.75in",
		"--margin-bottom", "0.75in",
		"--margin-left", "0.75in",
		"--encoding", "UTF-8",
		"--no-outline",
		"-", pdfPath,
	)
	cmd.Stdin = bytes.NewReader(html)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A partial output file would otherwise shadow the JSON fallback.
		_ = os.Remove(pdfPath)
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("wkhtmltopdf timed out after %s", r.timeout)
		}
		return fmt.Errorf("wkhtmltopdf: %w: %s", err, stderr.String())
	}
	return nil
}

func probeWkhtmltopdf(explicitPath string) string {
	candidates := wkhtmltopdfCandidates
	if explicitPath != "" {
		candidates = append([]string{explicitPath}, candidates...)
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	if found, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return found
	}
	return ""
}

// NopRenderer is a never-available renderer for deployments without a
// rendering engine and for tests.
type NopRenderer struct{}

func (NopRenderer) Available() bool { return false }

func (NopRenderer) Render(ctx context.Context, doc ReportDocument, rfpName, pdfPath string) error {
	return fmt.Errorf("renderer not configured")
}
