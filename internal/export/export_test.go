package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
)

func testModel(t *testing.T) *argmap.Model {
	t.Helper()
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "ev", Type: domain.NodeDatum, Source: "report", Content: "The measurement is positive.", BaseRate: 0.5},
			{ID: "aux", Type: domain.NodeProposition, Content: "The instrument works.", BaseRate: 0.5, Auxiliary: true, Explicitness: domain.ExplicitnessImplicit},
			{ID: "hyp", Type: domain.NodeProposition, Content: "The hypothesis holds.", BaseRate: 0.5},
			{ID: "conc", Type: domain.NodeConclusion, Content: "We should act.", BaseRate: 0.5},
			{ID: "rebut", Type: domain.NodeDatum, Source: "audit", Content: "The audit failed.", BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "l_ev", SourceIDs: []string{"ev", "aux"}, TargetID: "hyp", Polarity: domain.PolaritySupports, Strength: 0.9},
			{ID: "l_main", SourceIDs: []string{"hyp"}, TargetID: "conc", Polarity: domain.PolaritySupports, Strength: 0.8},
			{ID: "l_cut", SourceIDs: []string{"rebut"}, TargetID: "l_ev", Polarity: domain.PolarityUndermines, Strength: 0.7},
		},
	}
	m, err := argmap.Build(doc)
	require.NoError(t, err)
	return m
}

func TestDOTExport(t *testing.T) {
	out := NewDOTExporter().Export(testModel(t))

	assert.True(t, strings.HasPrefix(out, "digraph argument_graph {"))
	assert.Contains(t, out, "rankdir=BT;")

	// Every node id appears quoted.
	for _, id := range []string{"ev", "aux", "hyp", "conc", "rebut", "l_ev", "l_main", "l_cut"} {
		assert.Contains(t, out, `"`+id+`"`, "node %s missing", id)
	}

	// Source edges run into the link vertex, which feeds its target.
	assert.Contains(t, out, `"ev" -> "l_ev"`)
	assert.Contains(t, out, `"l_ev" -> "hyp"`)
	// Undercutter edge targets the link vertex.
	assert.Contains(t, out, `"l_cut" -> "l_ev"`)

	// Auxiliary sources render dashed.
	assert.Regexp(t, `"aux" -> "l_ev" \[[^\]]*style=dashed`, out)

	// Deterministic output.
	assert.Equal(t, out, NewDOTExporter().Export(testModel(t)))
}

func TestDOTExport_EscapesQuotes(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "q", Type: domain.NodeProposition, Content: `He said "no" and left.`, BaseRate: 0.5},
		},
	}
	m, err := argmap.Build(doc)
	require.NoError(t, err)

	out := NewDOTExporter().Export(m)
	assert.Contains(t, out, `\"no\"`)
}

func TestCytoscapeExport(t *testing.T) {
	out, err := NewCytoscapeExporter().Export(testModel(t))
	require.NoError(t, err)

	var payload struct {
		Elements struct {
			Nodes []struct {
				Data map[string]any `json:"data"`
			} `json:"nodes"`
			Edges []struct {
				Data map[string]any `json:"data"`
			} `json:"edges"`
		} `json:"elements"`
		Style  []map[string]any `json:"style"`
		Layout map[string]any   `json:"layout"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	ids := make(map[string]bool)
	for _, el := range payload.Elements.Nodes {
		if id, ok := el.Data["id"].(string); ok {
			ids[id] = true
		}
	}
	for _, id := range []string{"ev", "aux", "hyp", "conc", "rebut", "l_ev", "l_main", "l_cut"} {
		assert.True(t, ids[id], "vertex %s missing", id)
	}
	// 4 source edges + 3 target edges.
	assert.Len(t, payload.Elements.Edges, 7)

	assert.NotEmpty(t, payload.Style)
	assert.Equal(t, "dagre", payload.Layout["name"])

	again, err := NewCytoscapeExporter().Export(testModel(t))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestOutlineExport(t *testing.T) {
	out := NewOutlineExporter().Export(testModel(t))

	lines := strings.Split(out, "\n")
	assert.Equal(t, "1. [Conclusion] We should act.", lines[0])
	assert.Contains(t, out, "[Proposition] The hypothesis holds.")
	// Multi-source link numbers its sources N.k.
	assert.Contains(t, out, "1.1.1.1 [supports] [Datum] The measurement is positive.")
	assert.Contains(t, out, "1.1.1.2 [supports] [Proposition] The instrument works.")
	// The undercutter surfaces as a warrant under the inference it attacks.
	assert.Contains(t, out, "w1 [warrant] [Datum] The audit failed.")

	assert.Equal(t, out, NewOutlineExporter().Export(testModel(t)))
}

func TestOutlineExport_SharedSubtreeBackReference(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "shared", Type: domain.NodeDatum, Source: "s", Content: "Shared evidence.", BaseRate: 0.5},
			{ID: "c1", Type: domain.NodeConclusion, Content: "Alpha conclusion.", BaseRate: 0.5},
			{ID: "c2", Type: domain.NodeConclusion, Content: "Beta conclusion.", BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "l1", SourceIDs: []string{"shared"}, TargetID: "c1", Polarity: domain.PolaritySupports, Strength: 0.8},
			{ID: "l2", SourceIDs: []string{"shared"}, TargetID: "c2", Polarity: domain.PolaritySupports, Strength: 0.8},
		},
	}
	m, err := argmap.Build(doc)
	require.NoError(t, err)

	out := NewOutlineExporter().Export(m)
	assert.Contains(t, out, "1. [Conclusion] Alpha conclusion.")
	assert.Contains(t, out, "2. [Conclusion] Beta conclusion.")
	// The second occurrence is a back-reference, not a repeated subtree.
	assert.Contains(t, out, "(see 1.1)")
	assert.Equal(t, 1, strings.Count(out, "Shared evidence."))
}

func TestTruncateLabel(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got, truncated := truncateLabel(long, 30)
	assert.True(t, truncated)
	assert.LessOrEqual(t, len(got), 33)
	assert.True(t, strings.HasSuffix(got, "..."))

	got, truncated = truncateLabel("short", 30)
	assert.False(t, truncated)
	assert.Equal(t, "short", got)
}
