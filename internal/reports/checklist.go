package reports

// baseChecklist is the fixed set of submission items every report starts from.
var baseChecklist = []string{
	"Complete all mandatory fields in RFP response template",
	"Attach company credentials and certifications",
	"Include detailed technical approach",
	"Provide project timeline and milestones",
	"Include cost breakdown and pricing details",
	"Attach relevant past performance examples",
	"Include required forms and certifications",
	"Prepare executive summary",
}

// BuildChecklist returns the base checklist plus conditional items. A missing
// condition key counts as unsatisfied, which is not the same as "explicitly
// satisfied": an empty map yields both extra items.
func BuildChecklist(conditions map[string]bool) []string {
	checklist := make([]string, 0, len(baseChecklist)+2)
	checklist = append(checklist, baseChecklist...)

	if !conditions["has_high_matches"] {
		checklist = append(checklist, "Strengthen technical capabilities documentation")
	}
	if !conditions["majority_matched"] {
		checklist = append(checklist, "Address gaps in requirements coverage")
	}

	return checklist
}
