package argmap

import "github.com/credencelab/credence/internal/domain"

// FilterClaims returns the ids of claims satisfying pred, in declaration
// order.
func (m *Model) FilterClaims(pred func(*domain.Claim) bool) []string {
	var out []string
	for _, id := range m.claimOrder {
		if pred(m.claims[id]) {
			out = append(out, id)
		}
	}
	return out
}

// ClaimsOfType returns the ids of claims matching any of the given variants,
// in declaration order.
func (m *Model) ClaimsOfType(types ...domain.NodeType) []string {
	want := make(map[domain.NodeType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	return m.FilterClaims(func(c *domain.Claim) bool { return want[c.Type] })
}

// ClaimsInBaseRateRange returns the ids of claims with base_rate in
// [min, max], in declaration order. Typically used to find low-reliability
// Datums.
func (m *Model) ClaimsInBaseRateRange(min, max float64) []string {
	return m.FilterClaims(func(c *domain.Claim) bool {
		return c.BaseRate >= min && c.BaseRate <= max
	})
}

// LinksByPolarity returns the links with the given polarity, in declaration
// order.
func (m *Model) LinksByPolarity(p domain.Polarity) []*domain.Link {
	var out []*domain.Link
	for _, l := range m.Links() {
		if l.Polarity == p {
			out = append(out, l)
		}
	}
	return out
}
