// Package cpt generates conditional probability tables over the combined
// argument graph. Each node's table depends only on its own parameters and
// its structural parent list, never on another node's generated table, so
// generation for distinct nodes is freely parallel.
package cpt

import (
	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
)

// DefaultMaxTableParents bounds full-table materialization: a table over k
// parents holds 2^k rows, so the engine refuses to expand past this many
// parents instead of silently allocating an exponential structure.
const DefaultMaxTableParents = 16

type Engine struct {
	model *argmap.Model

	// MaxTableParents is the full-materialization ceiling. Closed-form
	// evaluation via Distribution.Prob is never subject to it.
	MaxTableParents int
}

func NewEngine(m *argmap.Model) *Engine {
	return &Engine{model: m, MaxTableParents: DefaultMaxTableParents}
}

// Distribution is a lazily evaluable CPT: a function from an ordered
// parent-state assignment to P(node true/active). It can be queried row by
// row without ever materializing the full table.
type Distribution struct {
	NodeID  string
	Parents []string
	eval    func(assign []bool) float64
}

// Prob evaluates P(true/active | assign), where assign is ordered like
// Parents.
func (d *Distribution) Prob(assign []bool) (float64, error) {
	if len(assign) != len(d.Parents) {
		return 0, &domain.ValidationError{
			ID:     d.NodeID,
			Field:  "assignment",
			Reason: "length does not match parent count",
		}
	}
	return d.eval(assign), nil
}

// Materialize enumerates all 2^k rows in binary counting order (first parent
// most significant, false before true). Refused past maxParents.
func (d *Distribution) Materialize(maxParents int) (*domain.Table, error) {
	k := len(d.Parents)
	if k > maxParents {
		return nil, &domain.ValidationError{
			ID:     d.NodeID,
			Field:  "parents",
			Reason: "parent count exceeds full-table ceiling",
		}
	}
	t := &domain.Table{NodeID: d.NodeID, Parents: d.Parents}
	n := 1 << k
	for i := 0; i < n; i++ {
		assign := make([]bool, k)
		for j := 0; j < k; j++ {
			assign[j] = i>>(k-1-j)&1 == 1
		}
		t.Rows = append(t.Rows, domain.CPTRow{Given: assign, P: d.eval(assign)})
	}
	return t, nil
}

// Distribution returns the CPT for the given node. An explicit override
// wins; otherwise the default link-activation or claim composition applies.
func (e *Engine) Distribution(id string) (*Distribution, error) {
	parents, err := e.model.ParentOrder(id)
	if err != nil {
		return nil, err
	}

	if l, ok := e.model.Link(id); ok {
		if l.CPT != nil {
			return e.override(id, l.CPT, parents)
		}
		return e.linkDefault(l, parents), nil
	}
	c, _ := e.model.Claim(id)
	if c.CPT != nil {
		return e.override(id, c.CPT, parents)
	}
	return e.claimDefault(c, parents), nil
}

// Table materializes the node's full table, subject to the engine ceiling.
func (e *Engine) Table(id string) (*domain.Table, error) {
	d, err := e.Distribution(id)
	if err != nil {
		return nil, err
	}
	return d.Materialize(e.MaxTableParents)
}

// linkDefault is joint necessity attenuated by undercutters:
//
//	P(active | assign) = [all sources true] * Π_active-undermines (1 - s_u)
//
// Parents are the link's sources followed by the links targeting it. Only
// undermines-polarity parents attenuate; a supporting link targeting a link
// is a structural parent with no effect on the default table.
func (e *Engine) linkDefault(l *domain.Link, parents []string) *Distribution {
	nSources := len(l.SourceIDs)
	attenuation := make([]float64, len(parents))
	for i := nSources; i < len(parents); i++ {
		in, _ := e.model.Link(parents[i])
		if in.Polarity == domain.PolarityUndermines {
			attenuation[i] = in.Strength
		}
	}
	return &Distribution{
		NodeID:  l.ID,
		Parents: parents,
		eval: func(assign []bool) float64 {
			for i := 0; i < nSources; i++ {
				if !assign[i] {
					return 0
				}
			}
			p := 1.0
			for i := nSources; i < len(assign); i++ {
				if assign[i] {
					p *= 1 - attenuation[i]
				}
			}
			return p
		},
	}
}

// claimDefault composes a noisy-OR over active supports (base rate as the
// leak term) with multiplicative attenuation from active undermines:
//
//	P(true | assign) = [1 - (1-β) Π_active-supports (1-s_i)] * Π_active-undermines (1-s_j)
//
// Algebraically bounded to [0,1] for validated inputs; no clamping.
func (e *Engine) claimDefault(c *domain.Claim, parents []string) *Distribution {
	polarity := make([]domain.Polarity, len(parents))
	strength := make([]float64, len(parents))
	for i, pid := range parents {
		l, _ := e.model.Link(pid)
		polarity[i] = l.Polarity
		strength[i] = l.Strength
	}
	beta := c.BaseRate
	return &Distribution{
		NodeID:  c.ID,
		Parents: parents,
		eval: func(assign []bool) float64 {
			missSupports := 1.0
			attenuate := 1.0
			for i, active := range assign {
				if !active {
					continue
				}
				if polarity[i] == domain.PolaritySupports {
					missSupports *= 1 - strength[i]
				} else {
					attenuate *= 1 - strength[i]
				}
			}
			return (1 - (1-beta)*missSupports) * attenuate
		},
	}
}
