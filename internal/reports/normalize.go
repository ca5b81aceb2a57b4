package reports

import "encoding/json"

// Normalize copies an analysis result into a report document, filling missing
// sections with their documented defaults and attaching the derived fields.
// The caller's AnalysisResult is never modified.
func Normalize(analysis AnalysisResult) ReportDocument {
	doc := ReportDocument{
		Matches:       append([]Match(nil), analysis.Matches...),
		ConditionsMet: map[string]bool{},
		Metrics:       Metrics{},
	}
	if doc.Matches == nil {
		doc.Matches = []Match{}
	}
	if analysis.Scores != nil {
		doc.Scores = *analysis.Scores
	}
	for key, val := range analysis.ConditionsMet {
		doc.ConditionsMet[key] = val
	}
	for key, val := range analysis.Metrics {
		doc.Metrics[key] = val
	}
	if analysis.MatchingDetails != nil {
		doc.MatchingDetails = analysis.MatchingDetails
	} else {
		doc.MatchingDetails = map[string]any{}
	}
	if len(analysis.Extra) > 0 {
		doc.Extra = make(map[string]json.RawMessage, len(analysis.Extra))
		for key, val := range analysis.Extra {
			doc.Extra[key] = val
		}
	}

	doc.Risks = AnalyzeRisks(doc.Scores, doc.Metrics)
	doc.Checklist = BuildChecklist(doc.ConditionsMet)
	doc.Qualifications = ExtractQualifications(doc.Matches)

	return doc
}
