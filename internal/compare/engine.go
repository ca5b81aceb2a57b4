package compare

import (
	"context"
	"errors"

	"rfp-backend/internal/reports"
)

// ErrNotConfigured indicates no comparison engine is wired in.
var ErrNotConfigured = errors.New("comparison engine not configured")

// Engine is the port for the external document-comparison collaborator. It
// consumes extracted document text and produces the analysis result the
// report pipeline ingests.
type Engine interface {
	Compare(ctx context.Context, rfpText, companyText string) (reports.AnalysisResult, error)
}

// Unconfigured is the default engine used when no comparator is deployed.
type Unconfigured struct{}

func (Unconfigured) Compare(ctx context.Context, rfpText, companyText string) (reports.AnalysisResult, error) {
	_ = ctx
	_ = rfpText
	_ = companyText
	return reports.AnalysisResult{}, ErrNotConfigured
}
