package reports

import (
	"fmt"
	"strconv"
)

const (
	minOverallScore       = 75
	minCoveragePercent    = 80
	minHighConfidenceRate = 0.6
)

// AnalyzeRisks derives risk findings from scores and metrics. Rules are
// evaluated independently and appended in a fixed order, so the result is
// deterministic for a given input.
func AnalyzeRisks(scores Scores, metrics Metrics) []string {
	risks := []string{}

	if scores.OverallScore < minOverallScore {
		risks = append(risks, "High Risk: Overall match score below minimum threshold (75%)")
	}

	if scores.RequirementCoverage < minCoveragePercent {
		risks = append(risks, fmt.Sprintf(
			"High Risk: Only %s%% of requirements covered (minimum 80%%)",
			strconv.FormatFloat(scores.RequirementCoverage, 'f', -1, 64)))
	}

	// Denominator floors at 1, so a zero-requirement analysis has a zero
	// high-confidence rate and still triggers this finding.
	total := metrics["total_requirements"]
	if total < 1 {
		total = 1
	}
	if metrics["high_confidence_matches"]/total < minHighConfidenceRate {
		risks = append(risks, "Medium Risk: Low number of high-confidence requirement matches")
	}

	return risks
}
