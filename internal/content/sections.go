package content

import (
	"strings"

	"github.com/dmotts/insights/internal/domain"
)

// ExtractBody returns the fragment between <body> and </body> inclusive.
// When either tag is absent the input is returned unchanged; absence of
// structure is a valid input, not an error.
func ExtractBody(raw string) string {
	start := strings.Index(raw, "<body>")
	end := strings.Index(raw, "</body>")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+len("</body>")]
}

// ExtractSections deterministically splits generated content into the fixed
// section mapping. The function is total: for any input, including the empty
// string, the result contains exactly the keys of domain.SectionOrder, each
// bound to extracted text or the section's placeholder.
//
// Two input shapes are recognized:
//   - inline markers (an <h2> heading or a bolded title per section): each
//     section's text runs from its first marker to the next marker or the end
//     of content; a section whose marker is absent gets its placeholder;
//   - no markers at all: blank-line-separated blocks are assigned to sections
//     positionally, left to right, with placeholders past the last block.
//
// Sections disabled by toggles always get their placeholder but still occupy
// their position, so ordering stays stable for presentation.
func ExtractSections(raw string, toggles domain.SectionToggles) domain.ReportContent {
	body := innerBody(ExtractBody(raw))
	sections := make(map[domain.Section]string, len(domain.SectionOrder))

	marks := markerPositions(body)
	if len(marks) > 0 {
		for _, s := range domain.SectionOrder {
			if !toggles.Enabled(s) {
				sections[s] = s.Placeholder()
				continue
			}
			sections[s] = textOrPlaceholder(s, markerText(body, s, marks))
		}
		return domain.ReportContent{Sections: sections}
	}

	blocks := splitBlocks(body)
	for i, s := range domain.SectionOrder {
		if !toggles.Enabled(s) {
			sections[s] = s.Placeholder()
			continue
		}
		var text string
		if i < len(blocks) {
			text = blocks[i]
		}
		sections[s] = textOrPlaceholder(s, text)
	}
	return domain.ReportContent{Sections: sections}
}

// innerBody strips the enclosing <body> tags so they never bleed into the
// first or last section's text.
func innerBody(body string) string {
	body = strings.TrimSpace(body)
	body = strings.TrimPrefix(body, "<body>")
	body = strings.TrimSuffix(body, "</body>")
	return strings.TrimSpace(body)
}

// marker is the resolved location of one section's heading in the content.
type marker struct {
	start int // index of the marker itself
	end   int // index just past the marker, where the section text begins
}

// sectionMarkers returns the heading variants recognized for a section.
func sectionMarkers(s domain.Section) []string {
	title := s.Title()
	return []string{
		"<h2>" + title + "</h2>",
		"**" + title + "**",
	}
}

// markerPositions locates the first occurrence of each section's marker.
func markerPositions(body string) map[domain.Section]marker {
	marks := make(map[domain.Section]marker)
	for _, s := range domain.SectionOrder {
		for _, m := range sectionMarkers(s) {
			if i := strings.Index(body, m); i != -1 {
				marks[s] = marker{start: i, end: i + len(m)}
				break
			}
		}
	}
	return marks
}

// markerText returns the text between a section's marker and the next marker
// (or end of content). Returns "" when the section's marker is absent.
func markerText(body string, s domain.Section, marks map[domain.Section]marker) string {
	m, ok := marks[s]
	if !ok {
		return ""
	}
	next := len(body)
	for _, other := range marks {
		if other.start > m.start && other.start < next {
			next = other.start
		}
	}
	text := body[m.end:next]
	// Markers produced by the LLM sit inside <section> wrappers; trim the
	// leftover tags between this section's text and the next heading.
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "<section>")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "</section>")
	return strings.TrimSpace(text)
}

// splitBlocks splits content on blank lines, dropping empty blocks.
func splitBlocks(body string) []string {
	parts := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n")
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			blocks = append(blocks, t)
		}
	}
	return blocks
}

func textOrPlaceholder(s domain.Section, text string) string {
	if strings.TrimSpace(text) == "" {
		return s.Placeholder()
	}
	return text
}
