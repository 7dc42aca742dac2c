package openai

import (
	"fmt"
	"strings"

	"github.com/dmotts/insights/internal/domain"
)

// buildReportPrompt creates the consulting-report prompt for the given
// industry, questionnaire answers, and enabled sections.
func buildReportPrompt(industry string, answers []string, toggles domain.SectionToggles) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI consultant preparing a comprehensive report for a business owner in the %s industry. The report must be detailed, insightful, and structured into the following sections:

`, industry)

	n := 0
	for _, s := range domain.SectionOrder {
		if !toggles.Enabled(s) {
			continue
		}
		n++
		switch s {
		case domain.SectionIntroduction:
			fmt.Fprintf(&b, "%d. **Introduction**: Provide a brief overview of the business's context based on the industry.\n", n)
		case domain.SectionIndustryTrends:
			fmt.Fprintf(&b, "%d. **Industry Trends**: Provide the latest AI trends in the %s industry.\n", n, industry)
		case domain.SectionAISolutions:
			fmt.Fprintf(&b, "%d. **AI Solutions**: Offer AI-driven solutions for the following business needs:\n", n)
			for i, a := range answers {
				fmt.Fprintf(&b, "    - Questionnaire response %d: %s\n", i+1, a)
			}
		case domain.SectionAnalysis:
			fmt.Fprintf(&b, "%d. **Analysis**: Provide a detailed analysis of how AI can address the specific challenges mentioned, with actionable recommendations for implementation.\n", n)
		case domain.SectionConclusion:
			fmt.Fprintf(&b, "%d. **Conclusion**: Summarize the key insights and recommend next steps.\n", n)
		}
	}

	b.WriteString(`
Ensure the report is structured professionally, with clear headings and well-organized content.

Return the report as an HTML fragment wrapped in <body> tags. Use one <section> per report section, each starting with an <h2> heading that exactly matches the section name given above:

<body>
`)
	for _, s := range domain.SectionOrder {
		if !toggles.Enabled(s) {
			continue
		}
		fmt.Fprintf(&b, "    <section>\n        <h2>%s</h2>\n        <p>...</p>\n    </section>\n", s.Title())
	}
	b.WriteString("</body>\n")

	return b.String()
}
