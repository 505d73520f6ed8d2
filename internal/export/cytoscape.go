package export

import (
	"encoding/json"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
)

// CytoscapeExporter renders the graph as a Cytoscape.js elements/style/layout
// document for embedding in web viewers.
type CytoscapeExporter struct {
	Styles *Styles
}

func NewCytoscapeExporter() *CytoscapeExporter {
	return &CytoscapeExporter{Styles: DefaultStyles()}
}

type cyElement struct {
	Data map[string]any `json:"data"`
}

type cyDocument struct {
	Elements struct {
		Nodes []cyElement `json:"nodes"`
		Edges []cyElement `json:"edges"`
	} `json:"elements"`
	Style  []map[string]any `json:"style"`
	Layout map[string]any   `json:"layout"`
}

func (e *CytoscapeExporter) Export(m *argmap.Model) (string, error) {
	var doc cyDocument

	for _, c := range m.Claims() {
		style := e.Styles.ClaimStyle(c)
		content := c.Content
		if content == "" {
			content = c.ID
		}
		label, _ := truncateLabel(content, e.Styles.MaxLabelChars)
		doc.Elements.Nodes = append(doc.Elements.Nodes, cyElement{Data: map[string]any{
			"id":          c.ID,
			"label":       label,
			"fullText":    content,
			"type":        string(c.Type),
			"nodeColor":   style.FillColor,
			"borderColor": style.BorderColor,
		}})
	}

	for _, l := range m.Links() {
		style := e.Styles.LinkStyle(l)
		doc.Elements.Nodes = append(doc.Elements.Nodes, cyElement{Data: map[string]any{
			"id":          l.ID,
			"label":       "",
			"fullText":    "Link (" + string(l.Polarity) + ")",
			"type":        string(domain.NodeLink),
			"polarity":    string(l.Polarity),
			"nodeColor":   style.FillColor,
			"borderColor": style.BorderColor,
		}})

		edge := e.Styles.LinkEdgeStyle(l)
		for _, src := range l.SourceIDs {
			lineStyle := edge.LineStyle
			if c, ok := m.Claim(src); ok && c.Auxiliary {
				lineStyle = "dashed"
			}
			doc.Elements.Edges = append(doc.Elements.Edges, cyElement{Data: map[string]any{
				"source":    src,
				"target":    l.ID,
				"edgeType":  "link",
				"edgeColor": edge.LineColor,
				"lineStyle": lineStyle,
			}})
		}
		doc.Elements.Edges = append(doc.Elements.Edges, cyElement{Data: map[string]any{
			"source":    l.ID,
			"target":    l.TargetID,
			"edgeType":  "link",
			"edgeColor": edge.LineColor,
			"lineStyle": edge.LineStyle,
		}})
	}

	doc.Style = cytoscapeStyle()
	doc.Layout = map[string]any{
		"name":    "dagre",
		"rankDir": "BT",
		"nodeSep": 50,
		"rankSep": 80,
	}

	out, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func cytoscapeStyle() []map[string]any {
	claimStyle := func(selector string, borderWidth int, shape string) map[string]any {
		return map[string]any{
			"selector": selector,
			"style": map[string]any{
				"shape":            shape,
				"background-color": "data(nodeColor)",
				"border-color":     "data(borderColor)",
				"border-width":     borderWidth,
				"label":            "data(label)",
				"text-wrap":        "wrap",
				"text-max-width":   "150px",
				"font-size":        "10px",
				"text-valign":      "center",
				"text-halign":      "center",
				"width":            "label",
				"height":           "label",
				"padding":          "10px",
			},
		}
	}
	return []map[string]any{
		claimStyle("node[type='Proposition']", 1, "round-rectangle"),
		claimStyle("node[type='Conclusion']", 2, "round-rectangle"),
		claimStyle("node[type='Datum']", 1, "ellipse"),
		{
			"selector": "node[type='Link']",
			"style": map[string]any{
				"shape":            "diamond",
				"background-color": "data(nodeColor)",
				"border-color":     "data(borderColor)",
				"border-width":     1,
				"width":            20,
				"height":           20,
			},
		},
		{
			"selector": "edge",
			"style": map[string]any{
				"width":              1.5,
				"line-color":         "data(edgeColor)",
				"target-arrow-color": "data(edgeColor)",
				"target-arrow-shape": "triangle",
				"curve-style":        "bezier",
			},
		},
		{
			"selector": "edge[lineStyle='dashed']",
			"style":    map[string]any{"line-style": "dashed"},
		},
	}
}
