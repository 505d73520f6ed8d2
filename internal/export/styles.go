// Package export renders a built argument model to DOT, Cytoscape JSON, and
// text-outline formats. Exporters only read the model's query surface; they
// never see raw documents.
package export

import (
	"strings"

	"github.com/credencelab/credence/internal/domain"
)

// NodeStyle holds the visual properties of a rendered vertex.
type NodeStyle struct {
	Shape       string
	FillColor   string
	BorderColor string
	FixedSize   bool
	Width       float64
	Height      float64
}

// EdgeStyle holds the visual properties of a rendered edge.
type EdgeStyle struct {
	LineColor string
	LineWidth float64
	LineStyle string // solid, dashed, dotted
}

// DefaultMaxLabelChars is the truncation threshold for node labels.
const DefaultMaxLabelChars = 100

// Styles is the palette shared by all exporters.
type Styles struct {
	MaxLabelChars int
}

func DefaultStyles() *Styles {
	return &Styles{MaxLabelChars: DefaultMaxLabelChars}
}

func (s *Styles) ClaimStyle(c *domain.Claim) NodeStyle {
	switch c.Type {
	case domain.NodeConclusion:
		return NodeStyle{Shape: "box", FillColor: "#FFD700", BorderColor: "#DAA520"}
	case domain.NodeDatum:
		return NodeStyle{Shape: "ellipse", FillColor: "#F5A45D", BorderColor: "#D4843D"}
	default:
		if c.Explicitness == domain.ExplicitnessImplicit {
			return NodeStyle{Shape: "box", FillColor: "#C2E0FF", BorderColor: "#A8CCF0"}
		}
		return NodeStyle{Shape: "box", FillColor: "#6FB1FC", BorderColor: "#4A90D9"}
	}
}

func (s *Styles) LinkStyle(l *domain.Link) NodeStyle {
	if l.Polarity == domain.PolarityUndermines {
		return NodeStyle{Shape: "diamond", FillColor: "#E74C3C", BorderColor: "#C0392B", FixedSize: true, Width: 0.25, Height: 0.25}
	}
	return NodeStyle{Shape: "diamond", FillColor: "#7FC97F", BorderColor: "#5A9A5A", FixedSize: true, Width: 0.25, Height: 0.25}
}

func (s *Styles) LinkEdgeStyle(l *domain.Link) EdgeStyle {
	return EdgeStyle{LineColor: "#333333", LineWidth: 1.5, LineStyle: "solid"}
}

// truncateLabel cuts text at a word boundary when it exceeds max, appending
// an ellipsis. Returns the label and whether truncation happened.
func truncateLabel(text string, max int) (string, bool) {
	if len(text) <= max {
		return text, false
	}
	cut := text[:max]
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return cut + "...", true
}
