package domain

type CPTKind string

const (
	CPTTable    CPTKind = "table"
	CPTNoisyOr  CPTKind = "noisy_or"
	CPTNoisyAnd CPTKind = "noisy_and"
	CPTLogistic CPTKind = "logistic"
)

func ValidCPTKind(k string) bool {
	switch CPTKind(k) {
	case CPTTable, CPTNoisyOr, CPTNoisyAnd, CPTLogistic:
		return true
	}
	return false
}

// CPTRow maps one ordered parent-state assignment to P(node true/active).
type CPTRow struct {
	Given []bool  `json:"given" yaml:"given"`
	P     float64 `json:"p" yaml:"p"`
}

// CPTSpec is an author-supplied override of a node's generated table.
//
// Parents names the ordered parent variables the override is expressed over.
// Every name must resolve to a structural parent of the node; the list may
// deliberately omit structural parents (the omitted parent is marginalized
// out of the override). For parametric kinds Parents may be left empty, in
// which case the node's canonical structural parent order applies.
//
// Field usage per kind:
//
//	table:    Rows (all 2^len(Parents) assignments required)
//	noisy_or: Leak, Weights       P(false) = (1-leak) * Π_active (1-w_i)
//	noisy_and: Base, Weights      P(true)  = base * Π (1 - w_i * [parent_i false])
//	logistic: Bias, Weights       P(true)  = sigmoid(bias + Σ_active w_i)
//
// Leak, Base, and every weight of noisy_or/noisy_and lie in [0,1]. Logistic
// bias and weights are unconstrained reals; only the sigmoid output is a
// probability.
type CPTSpec struct {
	Kind    CPTKind   `json:"kind" yaml:"kind"`
	Parents []string  `json:"parents,omitempty" yaml:"parents,omitempty"`
	Rows    []CPTRow  `json:"rows,omitempty" yaml:"rows,omitempty"`
	Leak    float64   `json:"leak,omitempty" yaml:"leak,omitempty"`
	Base    float64   `json:"base,omitempty" yaml:"base,omitempty"`
	Bias    float64   `json:"bias,omitempty" yaml:"bias,omitempty"`
	Weights []float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// Table is a fully materialized conditional probability table for one node
// of the combined graph. Rows are ordered by the binary counting order of
// Parents (first parent is the most significant bit, false before true).
type Table struct {
	NodeID  string   `json:"node_id"`
	Parents []string `json:"parents"`
	Rows    []CPTRow `json:"rows"`
}
