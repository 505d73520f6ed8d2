package argmap

import "github.com/credencelab/credence/internal/domain"

// Stats is a deterministic descriptive summary of the combined graph. The
// same model always yields the same Stats.
type Stats struct {
	Claims              int            `json:"claims"`
	Links               int            `json:"links"`
	ClaimsByType        map[string]int `json:"claims_by_type"`
	LinksByPolarity     map[string]int `json:"links_by_polarity"`
	MultiSourceLinks    int            `json:"multi_source_links"`
	MultiSourceFraction float64        `json:"multi_source_fraction"`
	UndercutEdges       int            `json:"undercut_edges"`
	MaxDepth            int            `json:"max_depth"`
}

// ComputeStats summarizes the model: per-variant counts, the multi-source
// link fraction, link-on-link (undercut) edge count, and the longest path in
// the combined DAG measured in edge hops.
func (m *Model) ComputeStats() Stats {
	s := Stats{
		Claims:          len(m.claimOrder),
		Links:           len(m.linkOrder),
		ClaimsByType:    make(map[string]int),
		LinksByPolarity: make(map[string]int),
	}
	for _, c := range m.Claims() {
		s.ClaimsByType[string(c.Type)]++
	}
	for _, l := range m.Links() {
		s.LinksByPolarity[string(l.Polarity)]++
		if len(l.SourceIDs) > 1 {
			s.MultiSourceLinks++
		}
		if _, ok := m.links[l.TargetID]; ok {
			s.UndercutEdges++
		}
	}
	if len(m.linkOrder) > 0 {
		s.MultiSourceFraction = float64(s.MultiSourceLinks) / float64(len(m.linkOrder))
	}
	s.MaxDepth = m.longestPath()
	return s
}

// longestPath walks the DAG in topological order accumulating the longest
// incoming chain per vertex.
func (m *Model) longestPath() int {
	depth := make(map[string]int)
	max := 0
	for _, id := range m.TopoOrder() {
		d := 0
		for _, p := range m.rev[id] {
			if depth[p]+1 > d {
				d = depth[p] + 1
			}
		}
		depth[id] = d
		if d > max {
			max = d
		}
	}
	return max
}

// UngroundedPropositions returns the propositions with no Datum anywhere in
// their ancestry: claims resting on assumption rather than evidence.
func (m *Model) UngroundedPropositions() []string {
	var out []string
	for _, id := range m.claimOrder {
		c := m.claims[id]
		if c.Type != domain.NodeProposition {
			continue
		}
		ancestors, err := m.Ancestors(id)
		if err != nil {
			continue
		}
		grounded := false
		for _, a := range ancestors {
			if ac, ok := m.claims[a]; ok && ac.Type == domain.NodeDatum {
				grounded = true
				break
			}
		}
		if !grounded {
			out = append(out, id)
		}
	}
	return out
}

// WeaklySupported returns the claims with at least one but fewer than
// minSupporters incoming support links.
func (m *Model) WeaklySupported(minSupporters int) []string {
	var out []string
	for _, id := range m.claimOrder {
		n := 0
		for _, l := range m.IncomingLinks(id) {
			if l.Polarity == domain.PolaritySupports {
				n++
			}
		}
		if n > 0 && n < minSupporters {
			out = append(out, id)
		}
	}
	return out
}

// IsolatedClaims returns the claims with no incoming or outgoing edges at
// all. These usually indicate extraction problems upstream.
func (m *Model) IsolatedClaims() []string {
	var out []string
	for _, id := range m.claimOrder {
		if len(m.fwd[id]) == 0 && len(m.rev[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// UndercuttingLinks returns the links whose target is another link.
func (m *Model) UndercuttingLinks() []*domain.Link {
	var out []*domain.Link
	for _, l := range m.Links() {
		if _, ok := m.links[l.TargetID]; ok {
			out = append(out, l)
		}
	}
	return out
}
