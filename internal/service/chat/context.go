package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-chat/internal/repository/db"
)

// Number of active FAQs appended to the grounding context
const contextFAQLimit = 20

// BuildContext renders the content store into the grounding text block
// supplied to the generation call. Every project is included in full; no
// token-budget trimming is performed, so the block grows with the content.
func BuildContext(projects []db.Project, faqs []db.FAQ) string {
	var parts []string

	for _, project := range projects {
		var b strings.Builder

		featured := "No"
		if project.Featured {
			featured = "Yes"
		}

		fmt.Fprintf(&b, `
PROJECT: %s
Role: %s
Timeline: %s
Technologies: %s
Summary: %s
Description: %s
Featured: %s
`, project.Title, project.Role, project.Timeline,
			strings.Join(project.Technologies, ", "),
			project.Summary, project.Description, featured)

		if cs := project.CaseStudy; cs != nil {
			metrics, _ := json.Marshal(cs.ImpactMetrics)
			fmt.Fprintf(&b, `
CASE STUDY:
Category: %s
Problem Statement: %s
Solution Overview: %s
Impact Metrics: %s
Lessons Learned: %s
Next Steps: %s
`, cs.Category, cs.ProblemStatement, cs.SolutionOverview, string(metrics), cs.LessonsLearned, cs.NextSteps)

			if len(cs.Sections) > 0 {
				b.WriteString("\nSECTIONS:\n")
				for _, section := range cs.Sections {
					fmt.Fprintf(&b, "- %s (%s): %s\n", section.Title, section.SectionType, section.Content)
				}
			}
		}

		parts = append(parts, b.String())
	}

	if len(faqs) > 0 {
		var b strings.Builder
		b.WriteString("\nFREQUENTLY ASKED QUESTIONS:\n")
		for _, faq := range faqs {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", faq.Question, faq.Response)
		}
		parts = append(parts, b.String())
	}

	return "\n" + strings.Repeat("=", 50) + "\n" + strings.Join(parts, "\n"+strings.Repeat("=", 50)+"\n")
}
