package reports

import "strings"

const metScoreThreshold = 0.8

type qualificationPattern struct {
	qualType QualificationType
	keywords []string
}

// Patterns are tested in priority order; the first category with any keyword
// hit wins for a given match.
var qualificationPatterns = []qualificationPattern{
	{QualCertification, []string{"certif", "license", "accredit"}},
	{QualExperience, []string{"experience", "year", "background"}},
	{QualTechnical, []string{"technical", "skill", "proficiency"}},
	{QualEducation, []string{"degree", "education", "qualification"}},
	{QualCompliance, []string{"comply", "standard", "regulation"}},
}

// ExtractQualifications categorizes matches into qualification records,
// preserving input order. A match with no keyword hit produces nothing; a
// match with no distances is unscorable and skipped.
func ExtractQualifications(matches []Match) []Qualification {
	qualifications := []Qualification{}

	for _, match := range matches {
		distances := match.CompanyMatches.Distances
		if len(distances) == 0 {
			continue
		}
		score := 1.0 - minFloat(distances)
		text := strings.ToLower(match.RFPText)

		for _, pattern := range qualificationPatterns {
			if containsAny(text, pattern.keywords) {
				qualifications = append(qualifications, Qualification{
					Type:    pattern.qualType,
					Details: match.RFPText,
					Met:     score > metScoreThreshold,
				})
				break
			}
		}
	}

	return qualifications
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func minFloat(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
