package export

import (
	"fmt"
	"strings"

	"github.com/credencelab/credence/internal/argmap"
)

// DOTExporter renders the combined graph in Graphviz DOT format, rank
// direction bottom-to-top so evidence sits under the claims it supports.
type DOTExporter struct {
	Styles *Styles
}

func NewDOTExporter() *DOTExporter {
	return &DOTExporter{Styles: DefaultStyles()}
}

func (e *DOTExporter) Export(m *argmap.Model) string {
	var b strings.Builder
	b.WriteString("digraph argument_graph {\n")
	b.WriteString("    rankdir=BT;\n")
	b.WriteString("    splines=ortho;\n")
	b.WriteString("    nodesep=0.6;\n")
	b.WriteString("    ranksep=0.8;\n")
	b.WriteString("    bgcolor=white;\n\n")
	b.WriteString("    node [fontname=\"Helvetica\", fontsize=10];\n")
	b.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n\n")

	for _, c := range m.Claims() {
		style := e.Styles.ClaimStyle(c)
		content := c.Content
		if content == "" {
			content = c.ID
		}
		label, _ := truncateLabel(content, e.Styles.MaxLabelChars)
		writeNode(&b, c.ID, style, escapeLabel(label, 25))
	}
	b.WriteString("\n")

	for _, l := range m.Links() {
		writeNode(&b, l.ID, e.Styles.LinkStyle(l), "")
	}
	b.WriteString("\n")

	for _, l := range m.Links() {
		edge := e.Styles.LinkEdgeStyle(l)
		for _, src := range l.SourceIDs {
			lineStyle := edge.LineStyle
			if c, ok := m.Claim(src); ok && c.Auxiliary {
				lineStyle = "dashed"
			}
			writeEdge(&b, src, l.ID, edge, lineStyle)
		}
		writeEdge(&b, l.ID, l.TargetID, edge, edge.LineStyle)
	}

	b.WriteString("}\n")
	return b.String()
}

func writeNode(b *strings.Builder, id string, style NodeStyle, label string) {
	attrs := []string{
		// label is pre-escaped; %q would mangle the \n line breaks.
		`label="` + label + `"`,
		"shape=" + style.Shape,
		"style=filled",
		fmt.Sprintf("fillcolor=%q", style.FillColor),
		fmt.Sprintf("color=%q", style.BorderColor),
	}
	if style.FixedSize {
		attrs = append(attrs,
			fmt.Sprintf("width=%g", style.Width),
			fmt.Sprintf("height=%g", style.Height),
			"fixedsize=true",
		)
	}
	fmt.Fprintf(b, "    %s [%s];\n", quoteID(id), strings.Join(attrs, ", "))
}

func writeEdge(b *strings.Builder, src, dst string, style EdgeStyle, lineStyle string) {
	attrs := []string{
		fmt.Sprintf("color=%q", style.LineColor),
		fmt.Sprintf("penwidth=%g", style.LineWidth),
	}
	if lineStyle != "solid" {
		attrs = append(attrs, "style="+lineStyle)
	}
	fmt.Fprintf(b, "    %s -> %s [%s];\n", quoteID(src), quoteID(dst), strings.Join(attrs, ", "))
}

// quoteID always quotes: DOT needs quoting for ids with hyphens, dots, or a
// leading digit, and always-quote keeps output uniform.
func quoteID(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
}

// escapeLabel escapes DOT specials and wraps long labels onto \n-separated
// lines of at most width characters.
func escapeLabel(text string, width int) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	text = strings.ReplaceAll(text, "\n", `\n`)

	words := strings.Fields(text)
	var lines []string
	var line []string
	length := 0
	for _, w := range words {
		if length+len(w)+1 > width && len(line) > 0 {
			lines = append(lines, strings.Join(line, " "))
			line = []string{w}
			length = len(w)
		} else {
			line = append(line, w)
			length += len(w) + 1
		}
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, `\n`)
}
