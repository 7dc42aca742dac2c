package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dmotts/insights/internal/domain"
)

// documentTemplate is the fixed report layout. Sections are emitted in
// domain.SectionOrder; unavailable sections carry their placeholder text so
// the layout never shifts.
var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>AI Insights Report</title>
<style>
body { font-family: Arial, sans-serif; color: #333; line-height: 1.6; margin: 0; padding: 0; background-color: #f4f4f4; }
.container { width: 80%; margin: auto; max-width: 900px; background: #fff; padding: 40px; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); }
header { background: #333; color: #fff; padding: 20px 0; text-align: center; border-bottom: #77d42a 3px solid; }
h2 { color: #333; }
footer { text-align: center; padding: 20px; background: #333; color: #fff; margin-top: 20px; }
</style>
</head>
<body>
<header><h1>AI Insights Report</h1></header>
<div class="container">
{{- range .Sections}}
<section>
<h2>{{.Title}}</h2>
<p>{{.Text}}</p>
</section>
{{- end}}
</div>
<footer><p>AI Consulting Services &copy; {{.Year}}</p></footer>
</body>
</html>
`))

type documentSection struct {
	Title string
	Text  template.HTML
}

type documentData struct {
	Sections []documentSection
	Year     int
}

// BuildDocument merges report content into the renderable HTML document.
// Every section in the fixed order appears exactly once; a section missing
// from the mapping is rendered with its placeholder, never skipped.
func BuildDocument(content domain.ReportContent) (string, error) {
	data := documentData{
		Sections: make([]documentSection, 0, len(domain.SectionOrder)),
		Year:     time.Now().Year(),
	}
	for _, s := range domain.SectionOrder {
		text, ok := content.Sections[s]
		if !ok || text == "" {
			text = s.Placeholder()
		}
		data.Sections = append(data.Sections, documentSection{
			Title: s.Title(),
			// Section text is an HTML fragment from the generator and is
			// embedded unescaped.
			Text: template.HTML(text),
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return buf.String(), nil
}
