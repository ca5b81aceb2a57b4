package reports

import (
	"encoding/json"
	"time"
)

// Formats of the delivered report artifact.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// QualificationType classifies an extracted requirement.
type QualificationType string

const (
	QualCertification QualificationType = "Certification"
	QualExperience    QualificationType = "Experience"
	QualTechnical     QualificationType = "Technical"
	QualEducation     QualificationType = "Education"
	QualCompliance    QualificationType = "Compliance"
)

// Match is one aligned requirement/evidence pair produced by the comparison engine.
type Match struct {
	RFPText        string         `json:"rfp_text"`
	CompanyMatches CompanyMatches `json:"company_matches"`
}

// CompanyMatches carries the closeness distances for a match; the minimum
// distance is the closeness measure.
type CompanyMatches struct {
	Distances []float64 `json:"distances"`
}

// Scores holds the headline scores of an analysis.
type Scores struct {
	OverallScore        float64 `json:"overall_score"`
	TechnicalMatch      float64 `json:"technical_match"`
	RequirementCoverage float64 `json:"requirement_coverage"`
}

// Metrics is the numeric match-statistics map of an analysis.
type Metrics map[string]float64

// Qualification is a categorized requirement derived from a match.
type Qualification struct {
	Type    QualificationType `json:"type"`
	Details string            `json:"details"`
	Met     bool              `json:"met"`
}

// AnalysisResult is the comparison-engine output consumed by the pipeline.
// Unknown top-level fields are preserved in Extra and carried through to the
// persisted report document unchanged.
type AnalysisResult struct {
	Matches         []Match
	Scores          *Scores
	Metrics         Metrics
	ConditionsMet   map[string]bool
	MatchingDetails any
	Extra           map[string]json.RawMessage
}

// UnmarshalJSON decodes leniently: missing keys become zero values, never errors.
func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = AnalysisResult{}
	for key, val := range raw {
		switch key {
		case "matches":
			if err := json.Unmarshal(val, &a.Matches); err != nil {
				return err
			}
		case "scores":
			if err := json.Unmarshal(val, &a.Scores); err != nil {
				return err
			}
		case "metrics":
			if err := json.Unmarshal(val, &a.Metrics); err != nil {
				return err
			}
		case "conditions_met":
			if err := json.Unmarshal(val, &a.ConditionsMet); err != nil {
				return err
			}
		case "matching_details":
			var details any
			if err := json.Unmarshal(val, &details); err != nil {
				return err
			}
			a.MatchingDetails = details
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[key] = val
		}
	}
	return nil
}

// ReportDocument is the normalized, derived-field-enriched document that gets
// persisted as the JSON artifact and handed to the renderer.
type ReportDocument struct {
	Matches         []Match
	Scores          Scores
	Metrics         Metrics
	ConditionsMet   map[string]bool
	MatchingDetails any
	Risks           []string
	Checklist       []string
	Qualifications  []Qualification
	Extra           map[string]json.RawMessage
}

// MarshalJSON emits the stable artifact field names, with caller-supplied
// extra fields alongside. Derived keys win over same-named extras.
func (d ReportDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+8)
	for key, val := range d.Extra {
		out[key] = val
	}
	out["matches"] = d.Matches
	out["scores"] = d.Scores
	out["metrics"] = d.Metrics
	out["conditions_met"] = d.ConditionsMet
	out["matching_details"] = d.MatchingDetails
	out["risks"] = d.Risks
	out["checklist"] = d.Checklist
	out["qualifications"] = d.Qualifications
	return json.Marshal(out)
}

// Report is a persisted report registry entry.
type Report struct {
	ID         string    `json:"id"`
	RFPName    string    `json:"rfpName"`
	Dir        string    `json:"-"`
	JSONPath   string    `json:"-"`
	PDFPath    string    `json:"-"`
	Format     string    `json:"format"`
	ShareToken string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GenerateResult is the caller-visible outcome of report generation.
type GenerateResult struct {
	ReportID string `json:"report_id"`
	Format   string `json:"format"`
	Path     string `json:"path"`
}
