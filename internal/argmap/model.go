// Package argmap builds and queries the combined dependency graph of an
// argument document. Claims and links are both vertices of one DAG: an edge
// runs from every source to its link, and from every link to its target.
// A Model is immutable after Build; all queries are pure reads and safe for
// concurrent use.
package argmap

import (
	"sort"

	"github.com/credencelab/credence/internal/domain"
)

type Model struct {
	claims map[string]*domain.Claim
	links  map[string]*domain.Link

	// order preserves document declaration order for deterministic output.
	claimOrder []string
	linkOrder  []string

	fwd map[string][]string // source -> link, link -> target
	rev map[string][]string // reverse adjacency, in edge insertion order
}

// Build constructs the combined DAG from a parsed document, checking the
// structural invariants: global id uniqueness, reference resolution, the
// Conclusion no-outgoing-edges rule, acyclicity, and probability ranges.
// Violations are fatal; a document that fails Build is not queryable.
func Build(doc *domain.Document) (*Model, error) {
	m := &Model{
		claims: make(map[string]*domain.Claim, len(doc.Claims)),
		links:  make(map[string]*domain.Link, len(doc.Links)),
		fwd:    make(map[string][]string),
		rev:    make(map[string][]string),
	}

	for i := range doc.Claims {
		c := &doc.Claims[i]
		if m.exists(c.ID) {
			return nil, &domain.SchemaError{ID: c.ID, Reason: "duplicate id"}
		}
		if c.BaseRate < 0 || c.BaseRate > 1 {
			return nil, &domain.ValidationError{ID: c.ID, Field: "base_rate", Reason: "must be in [0,1]"}
		}
		if c.Type == domain.NodeDatum && c.Source == "" {
			return nil, &domain.SchemaError{ID: c.ID, Reason: "Datum requires a non-empty source"}
		}
		m.claims[c.ID] = c
		m.claimOrder = append(m.claimOrder, c.ID)
	}

	for i := range doc.Links {
		l := &doc.Links[i]
		if m.exists(l.ID) {
			return nil, &domain.SchemaError{ID: l.ID, Reason: "duplicate id"}
		}
		if l.Strength < 0 || l.Strength > 1 {
			return nil, &domain.ValidationError{ID: l.ID, Field: "strength", Reason: "must be in [0,1]"}
		}
		if len(l.SourceIDs) == 0 {
			return nil, &domain.SchemaError{ID: l.ID, Reason: "Link requires a non-empty source_ids"}
		}
		m.links[l.ID] = l
		m.linkOrder = append(m.linkOrder, l.ID)
	}

	// References can only be checked once every id is registered, since links
	// may target links declared later.
	for _, id := range m.linkOrder {
		l := m.links[id]
		seen := make(map[string]bool, len(l.SourceIDs))
		for _, src := range l.SourceIDs {
			if !m.exists(src) {
				return nil, &domain.ReferenceError{ID: src, Context: l.ID, Field: "source_ids"}
			}
			if seen[src] {
				return nil, &domain.ValidationError{ID: l.ID, Field: "source_ids", Reason: "duplicate source " + src}
			}
			seen[src] = true
			if c, ok := m.claims[src]; ok && c.Type == domain.NodeConclusion {
				return nil, &domain.ValidationError{ID: l.ID, Field: "source_ids", Reason: "Conclusion " + src + " may not be a link source"}
			}
			m.fwd[src] = append(m.fwd[src], l.ID)
			m.rev[l.ID] = append(m.rev[l.ID], src)
		}
		if !m.exists(l.TargetID) {
			return nil, &domain.ReferenceError{ID: l.TargetID, Context: l.ID, Field: "target_id"}
		}
		m.fwd[l.ID] = append(m.fwd[l.ID], l.TargetID)
		m.rev[l.TargetID] = append(m.rev[l.TargetID], l.ID)
	}

	// duplicate_of is an alias for tree rendering, never an adjacency edge,
	// but it must still resolve.
	for _, id := range m.claimOrder {
		c := m.claims[id]
		if c.DuplicateOf != "" {
			if _, ok := m.claims[c.DuplicateOf]; !ok {
				return nil, &domain.ReferenceError{ID: c.DuplicateOf, Context: c.ID, Field: "duplicate_of"}
			}
		}
	}

	if err := m.detectCycles(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) exists(id string) bool {
	if _, ok := m.claims[id]; ok {
		return true
	}
	_, ok := m.links[id]
	return ok
}

// detectCycles runs a three-color DFS over the combined graph. When a back
// edge closes a loop, the path from the revisited in-progress vertex back to
// itself is reported verbatim.
func (m *Model) detectCycles() error {
	const (
		white = 0 // unvisited
		gray  = 1 // in progress
		black = 2 // done
	)
	color := make(map[string]int, len(m.claims)+len(m.links))
	var stack []string

	var visit func(id string) *domain.CycleError
	visit = func(id string) *domain.CycleError {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range m.fwd[id] {
			switch color[next] {
			case gray:
				// Back edge: slice the stack from the revisited vertex.
				for i, v := range stack {
					if v == next {
						path := make([]string, len(stack)-i)
						copy(path, stack[i:])
						return &domain.CycleError{Path: path}
					}
				}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, id := range m.ids() {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// ids returns every vertex id in declaration order, claims first.
func (m *Model) ids() []string {
	out := make([]string, 0, len(m.claimOrder)+len(m.linkOrder))
	out = append(out, m.claimOrder...)
	out = append(out, m.linkOrder...)
	return out
}

// Claim returns the claim with the given id.
func (m *Model) Claim(id string) (*domain.Claim, bool) {
	c, ok := m.claims[id]
	return c, ok
}

// Link returns the link with the given id.
func (m *Model) Link(id string) (*domain.Link, bool) {
	l, ok := m.links[id]
	return l, ok
}

// Has reports whether any node (claim or link) has the given id.
func (m *Model) Has(id string) bool { return m.exists(id) }

// Claims returns all claims in declaration order.
func (m *Model) Claims() []*domain.Claim {
	out := make([]*domain.Claim, len(m.claimOrder))
	for i, id := range m.claimOrder {
		out[i] = m.claims[id]
	}
	return out
}

// Links returns all links in declaration order.
func (m *Model) Links() []*domain.Link {
	out := make([]*domain.Link, len(m.linkOrder))
	for i, id := range m.linkOrder {
		out[i] = m.links[id]
	}
	return out
}

// IncomingLinks returns the links whose target is id, in declaration order.
func (m *Model) IncomingLinks(id string) []*domain.Link {
	var out []*domain.Link
	for _, lid := range m.linkOrder {
		if m.links[lid].TargetID == id {
			out = append(out, m.links[lid])
		}
	}
	return out
}

// Undercutters returns the links targeting the given link, in declaration
// order. Only undermines-polarity entries attenuate activation; supporters
// of a link are structural parents with no effect on the default table.
func (m *Model) Undercutters(linkID string) []*domain.Link {
	return m.IncomingLinks(linkID)
}

// ParentOrder returns the canonical ordered structural parents of a node.
// For a link: its sources in declared order, then links targeting it sorted
// by id. For a claim: the ids of its incoming links, sorted.
func (m *Model) ParentOrder(id string) ([]string, error) {
	if l, ok := m.links[id]; ok {
		parents := append([]string(nil), l.SourceIDs...)
		var cutters []string
		for _, in := range m.IncomingLinks(id) {
			cutters = append(cutters, in.ID)
		}
		sort.Strings(cutters)
		return append(parents, cutters...), nil
	}
	if _, ok := m.claims[id]; ok {
		var parents []string
		for _, in := range m.IncomingLinks(id) {
			parents = append(parents, in.ID)
		}
		sort.Strings(parents)
		return parents, nil
	}
	return nil, &domain.ReferenceError{ID: id, Context: "model", Field: "id"}
}
