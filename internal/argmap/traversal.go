package argmap

import (
	"sort"

	"github.com/credencelab/credence/internal/domain"
)

// Ancestors returns every node reachable from id via reverse adjacency,
// excluding id itself and always including link vertices on the path. The
// result is sorted for deterministic output.
func (m *Model) Ancestors(id string) ([]string, error) {
	return m.reachable(id, m.rev)
}

// Descendants is the forward counterpart of Ancestors.
func (m *Model) Descendants(id string) ([]string, error) {
	return m.reachable(id, m.fwd)
}

func (m *Model) reachable(id string, adj map[string][]string) ([]string, error) {
	if !m.exists(id) {
		return nil, &domain.ReferenceError{ID: id, Context: "traversal", Field: "id"}
	}
	seen := map[string]bool{id: true}
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, v := range frontier {
			for _, n := range adj[v] {
				if !seen[n] {
					seen[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	delete(seen, id)
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// Leaves returns the claims with no incoming edge in the combined DAG: the
// foundational, unsupported nodes. A leaf may still be a link source.
func (m *Model) Leaves() []string {
	var out []string
	for _, id := range m.claimOrder {
		if len(m.rev[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Roots returns the claims with no outgoing edge: every Conclusion, plus any
// claim that feeds no link.
func (m *Model) Roots() []string {
	var out []string
	for _, id := range m.claimOrder {
		if len(m.fwd[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Subgraph extracts the induced sub-model around id: ancestors within
// depthUp reverse hops, descendants within depthDown forward hops, and the
// closure that keeps every included link whole — a link is only ever part of
// the output together with all of its sources and its target, even when that
// pulls in a node otherwise out of range.
func (m *Model) Subgraph(id string, depthUp, depthDown int) (*Model, error) {
	if depthUp < 0 || depthDown < 0 {
		return nil, &domain.ValidationError{Field: "depth", Reason: "must be non-negative"}
	}
	if !m.exists(id) {
		return nil, &domain.ReferenceError{ID: id, Context: "subgraph", Field: "id"}
	}

	collected := map[string]bool{id: true}
	m.walk(id, depthUp, m.rev, collected)
	m.walk(id, depthDown, m.fwd, collected)

	// Link closure to a fixpoint: endpoints forced in may themselves be
	// links, whose endpoints must come along too.
	for changed := true; changed; {
		changed = false
		for _, lid := range m.linkOrder {
			if !collected[lid] {
				continue
			}
			l := m.links[lid]
			for _, src := range l.SourceIDs {
				if !collected[src] {
					collected[src] = true
					changed = true
				}
			}
			if !collected[l.TargetID] {
				collected[l.TargetID] = true
				changed = true
			}
		}
	}

	sub := &domain.Document{}
	for _, cid := range m.claimOrder {
		if !collected[cid] {
			continue
		}
		c := *m.claims[cid]
		// The canonical claim of an alias may fall outside the extract.
		if c.DuplicateOf != "" && !collected[c.DuplicateOf] {
			c.DuplicateOf = ""
		}
		sub.Claims = append(sub.Claims, c)
	}
	for _, lid := range m.linkOrder {
		if collected[lid] {
			sub.Links = append(sub.Links, *m.links[lid])
		}
	}
	// A subset of an acyclic model with whole links cannot fail Build.
	return Build(sub)
}

func (m *Model) walk(start string, depth int, adj map[string][]string, collected map[string]bool) {
	frontier := []string{start}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, v := range frontier {
			for _, n := range adj[v] {
				if !collected[n] {
					collected[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
}

// Paths returns every path from src to dst over forward adjacency, each as
// an ordered id list including both endpoints. With supportOnly set, paths
// may not pass through undermines-polarity links. Paths between vertices of
// an acyclic graph are always simple, so no visited set is needed.
func (m *Model) Paths(src, dst string, supportOnly bool) ([][]string, error) {
	if !m.exists(src) {
		return nil, &domain.ReferenceError{ID: src, Context: "paths", Field: "id"}
	}
	if !m.exists(dst) {
		return nil, &domain.ReferenceError{ID: dst, Context: "paths", Field: "id"}
	}

	var out [][]string
	var walk func(v string, path []string)
	walk = func(v string, path []string) {
		path = append(path, v)
		if v == dst {
			out = append(out, append([]string(nil), path...))
			return
		}
		for _, n := range m.fwd[v] {
			if m.pathable(n, supportOnly) || n == dst {
				walk(n, path)
			}
		}
	}
	walk(src, nil)
	return out, nil
}

// ShortestPath returns a minimum-hop path from src to dst, or nil when no
// path exists. Ties break on adjacency declaration order.
func (m *Model) ShortestPath(src, dst string, supportOnly bool) ([]string, error) {
	if !m.exists(src) {
		return nil, &domain.ReferenceError{ID: src, Context: "paths", Field: "id"}
	}
	if !m.exists(dst) {
		return nil, &domain.ReferenceError{ID: dst, Context: "paths", Field: "id"}
	}

	prev := map[string]string{src: src}
	frontier := []string{src}
	for len(frontier) > 0 && prev[dst] == "" {
		var next []string
		for _, v := range frontier {
			for _, n := range m.fwd[v] {
				if _, seen := prev[n]; seen {
					continue
				}
				if !m.pathable(n, supportOnly) && n != dst {
					continue
				}
				prev[n] = v
				next = append(next, n)
			}
		}
		frontier = next
	}
	if _, ok := prev[dst]; !ok {
		return nil, nil
	}

	var path []string
	for v := dst; v != src; v = prev[v] {
		path = append(path, v)
	}
	path = append(path, src)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// pathable reports whether a path may run through vertex id.
func (m *Model) pathable(id string, supportOnly bool) bool {
	if !supportOnly {
		return true
	}
	l, ok := m.links[id]
	return !ok || l.Polarity == domain.PolaritySupports
}

// TopoOrder returns all vertex ids in a deterministic topological order,
// leaves before the nodes they feed.
func (m *Model) TopoOrder() []string {
	indeg := make(map[string]int)
	for _, id := range m.ids() {
		indeg[id] = len(m.rev[id])
	}
	var ready []string
	for _, id := range m.ids() {
		if indeg[id] == 0 {
			ready = append(ready, id)
		}
	}
	var out []string
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		out = append(out, v)
		for _, n := range m.fwd[v] {
			indeg[n]--
			if indeg[n] == 0 {
				ready = append(ready, n)
			}
		}
	}
	return out
}

// Document reconstructs the model's content as a plain document, in
// declaration order.
func (m *Model) Document() *domain.Document {
	doc := &domain.Document{}
	for _, c := range m.Claims() {
		doc.Claims = append(doc.Claims, *c)
	}
	for _, l := range m.Links() {
		doc.Links = append(doc.Links, *l)
	}
	return doc
}
