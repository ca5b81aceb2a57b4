package reports

import (
	"encoding/json"
	"testing"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	doc := Normalize(AnalysisResult{})

	if doc.Matches == nil || len(doc.Matches) != 0 {
		t.Fatalf("matches = %v, want empty slice", doc.Matches)
	}
	if doc.Scores != (Scores{}) {
		t.Fatalf("scores = %+v, want zero", doc.Scores)
	}
	if doc.ConditionsMet == nil || len(doc.ConditionsMet) != 0 {
		t.Fatalf("conditions_met = %v, want empty map", doc.ConditionsMet)
	}
	if doc.Metrics == nil || len(doc.Metrics) != 0 {
		t.Fatalf("metrics = %v, want empty map", doc.Metrics)
	}
	details, ok := doc.MatchingDetails.(map[string]any)
	if !ok || len(details) != 0 {
		t.Fatalf("matching_details = %v, want empty map", doc.MatchingDetails)
	}

	// Zero scores and empty metrics trip all three risk rules.
	if len(doc.Risks) != 3 {
		t.Fatalf("expected 3 risks on empty input, got %v", doc.Risks)
	}
	if len(doc.Checklist) != 10 {
		t.Fatalf("expected 10 checklist items on empty input, got %d", len(doc.Checklist))
	}
	if len(doc.Qualifications) != 0 {
		t.Fatalf("expected no qualifications, got %v", doc.Qualifications)
	}
}

func TestNormalizeDoesNotMutateCaller(t *testing.T) {
	analysis := AnalysisResult{
		Scores:        &Scores{OverallScore: 90, RequirementCoverage: 90},
		Metrics:       Metrics{"total_requirements": 10, "high_confidence_matches": 9},
		ConditionsMet: map[string]bool{"has_high_matches": true},
	}

	doc := Normalize(analysis)
	doc.Metrics["total_requirements"] = 99
	doc.ConditionsMet["majority_matched"] = true
	doc.Scores.OverallScore = 1

	if analysis.Metrics["total_requirements"] != 10 {
		t.Fatalf("caller metrics mutated: %v", analysis.Metrics)
	}
	if _, ok := analysis.ConditionsMet["majority_matched"]; ok {
		t.Fatalf("caller conditions mutated: %v", analysis.ConditionsMet)
	}
	if analysis.Scores.OverallScore != 90 {
		t.Fatalf("caller scores mutated: %+v", analysis.Scores)
	}
}

func TestNormalizeCleanAnalysisEndToEnd(t *testing.T) {
	doc := Normalize(AnalysisResult{
		Matches: []Match{{
			RFPText:        "Must hold ISO 9001 certification",
			CompanyMatches: CompanyMatches{Distances: []float64{0.05}},
		}},
		Scores: &Scores{OverallScore: 90, RequirementCoverage: 95},
		Metrics: Metrics{
			"high_confidence_matches": 1,
			"total_requirements":      1,
		},
		ConditionsMet: map[string]bool{
			"has_high_matches": true,
			"majority_matched": true,
		},
	})

	if len(doc.Risks) != 0 {
		t.Fatalf("expected zero risks, got %v", doc.Risks)
	}
	if len(doc.Qualifications) != 1 {
		t.Fatalf("expected one qualification, got %v", doc.Qualifications)
	}
	if doc.Qualifications[0].Type != QualCertification || !doc.Qualifications[0].Met {
		t.Fatalf("qualification = %+v, want met Certification", doc.Qualifications[0])
	}
	if len(doc.Checklist) != 8 {
		t.Fatalf("expected base checklist only, got %d items", len(doc.Checklist))
	}
}

func TestNormalizeCarriesExtraFields(t *testing.T) {
	analysis := AnalysisResult{
		Extra: map[string]json.RawMessage{
			"engine_version": json.RawMessage(`"2.3"`),
		},
	}
	doc := Normalize(analysis)

	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out["engine_version"]) != `"2.3"` {
		t.Fatalf("extra field not carried: %s", payload)
	}
	for _, key := range []string{"matches", "scores", "metrics", "conditions_met", "matching_details", "risks", "checklist", "qualifications"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("artifact missing %q: %s", key, payload)
		}
	}
}
