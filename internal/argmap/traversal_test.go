package argmap

import (
	"errors"
	"reflect"
	"testing"

	"github.com/credencelab/credence/internal/domain"
)

func TestAncestorsDescendants(t *testing.T) {
	m := mustBuild(t, chainDoc())

	anc, err := m.Ancestors("C")
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	want := []string{"D", "L1", "L2", "L3", "P", "U"}
	if !reflect.DeepEqual(anc, want) {
		t.Fatalf("expected ancestors %v, got %v", want, anc)
	}

	desc, err := m.Descendants("D")
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}
	want = []string{"C", "L1", "L2", "P"}
	if !reflect.DeepEqual(desc, want) {
		t.Fatalf("expected descendants %v, got %v", want, desc)
	}

	if _, err := m.Ancestors("ghost"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

// Every ancestor relation must hold in reverse as a descendant relation.
func TestAncestorsDescendants_Inverse(t *testing.T) {
	m := mustBuild(t, chainDoc())

	for _, id := range m.ids() {
		anc, err := m.Ancestors(id)
		if err != nil {
			t.Fatalf("Ancestors(%s): %v", id, err)
		}
		for _, a := range anc {
			desc, err := m.Descendants(a)
			if err != nil {
				t.Fatalf("Descendants(%s): %v", a, err)
			}
			found := false
			for _, d := range desc {
				if d == id {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("%s is an ancestor of %s but not vice versa", a, id)
			}
		}
	}
}

func TestLeavesRoots(t *testing.T) {
	m := mustBuild(t, chainDoc())

	if got := m.Leaves(); !reflect.DeepEqual(got, []string{"D", "U"}) {
		t.Fatalf("expected leaves [D U], got %v", got)
	}
	// C has no outgoing edge; links never count as roots.
	if got := m.Roots(); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("expected roots [C], got %v", got)
	}
}

func TestSubgraph_DepthZero(t *testing.T) {
	m := mustBuild(t, chainDoc())

	sub, err := m.Subgraph("P", 0, 0)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	if len(sub.Claims()) != 1 || sub.Claims()[0].ID != "P" {
		t.Fatalf("expected single claim P, got %v", sub.Claims())
	}
	if len(sub.Links()) != 0 {
		t.Fatalf("expected no links, got %v", sub.Links())
	}
}

func TestSubgraph_LinkClosure(t *testing.T) {
	m := mustBuild(t, chainDoc())

	// One hop up from C reaches L2; keeping L2 whole pulls in its source P
	// and, via the fixpoint, the undercutter L3 stays out (it targets L2 but
	// was never collected).
	sub, err := m.Subgraph("C", 1, 0)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	if !sub.Has("P") {
		t.Fatal("link closure should pull in source P")
	}
	if sub.Has("L3") || sub.Has("U") {
		t.Fatal("undercutter outside the walk must not be included")
	}
}

func TestSubgraph_JointLinkPullsAllSources(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			claim("A", domain.NodeProposition),
			claim("B", domain.NodeProposition),
			claim("T", domain.NodeProposition),
		},
		Links: []domain.Link{
			link("L", []string{"A", "B"}, "T", domain.PolaritySupports),
		},
	}
	m := mustBuild(t, doc)

	sub, err := m.Subgraph("T", 1, 0)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	for _, id := range []string{"A", "B", "L", "T"} {
		if !sub.Has(id) {
			t.Fatalf("expected %s in subgraph", id)
		}
	}
}

func TestSubgraph_NegativeDepth(t *testing.T) {
	m := mustBuild(t, chainDoc())
	if _, err := m.Subgraph("P", -1, 0); err == nil {
		t.Fatal("expected error for negative depth")
	}
}

func TestSubgraph_ClearsDanglingAlias(t *testing.T) {
	doc := chainDoc()
	doc.Claims[1].DuplicateOf = "U" // P aliases U

	m := mustBuild(t, doc)
	sub, err := m.Subgraph("P", 0, 0)
	if err != nil {
		t.Fatalf("Subgraph: %v", err)
	}
	c, _ := sub.Claim("P")
	if c.DuplicateOf != "" {
		t.Fatalf("expected dangling alias cleared, got %q", c.DuplicateOf)
	}
}

func TestTopoOrder(t *testing.T) {
	m := mustBuild(t, chainDoc())

	order := m.TopoOrder()
	if len(order) != 7 {
		t.Fatalf("expected 7 vertices, got %d", len(order))
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, edge := range [][2]string{
		{"D", "L1"}, {"L1", "P"}, {"P", "L2"}, {"L2", "C"}, {"U", "L3"}, {"L3", "L2"},
	} {
		if pos[edge[0]] >= pos[edge[1]] {
			t.Fatalf("%s must precede %s in %v", edge[0], edge[1], order)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	m := mustBuild(t, chainDoc())

	doc := m.Document()
	again := mustBuild(t, doc)
	if len(again.Claims()) != len(m.Claims()) || len(again.Links()) != len(m.Links()) {
		t.Fatal("document round trip changed the model")
	}
}

func TestPaths(t *testing.T) {
	doc := chainDoc()
	// A second, direct route from D to C.
	doc.Links = append(doc.Links, link("L4", []string{"D"}, "C", domain.PolaritySupports))
	m := mustBuild(t, doc)

	got, err := m.Paths("D", "C", false)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	want := [][]string{
		{"D", "L1", "P", "L2", "C"},
		{"D", "L4", "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paths %v, want %v", got, want)
	}
}

func TestPaths_SupportOnly(t *testing.T) {
	m := mustBuild(t, chainDoc())

	// U reaches C only through the undermining link L3.
	got, err := m.Paths("U", "C", false)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if !reflect.DeepEqual(got, [][]string{{"U", "L3", "L2", "C"}}) {
		t.Fatalf("unrestricted paths %v", got)
	}

	got, err = m.Paths("U", "C", true)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("support-only paths through an underminer: %v", got)
	}
}

func TestPaths_UnknownEndpoint(t *testing.T) {
	m := mustBuild(t, chainDoc())

	var refErr *domain.ReferenceError
	if _, err := m.Paths("D", "ghost", false); !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
}

func TestShortestPath(t *testing.T) {
	doc := chainDoc()
	doc.Links = append(doc.Links, link("L4", []string{"D"}, "C", domain.PolaritySupports))
	m := mustBuild(t, doc)

	got, err := m.ShortestPath("D", "C", true)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"D", "L4", "C"}) {
		t.Fatalf("shortest path %v, want [D L4 C]", got)
	}

	// No route at all yields nil without an error.
	got, err = m.ShortestPath("C", "D", false)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no path from C to D, got %v", got)
	}

	got, err = m.ShortestPath("P", "P", false)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"P"}) {
		t.Fatalf("self path %v, want [P]", got)
	}
}
