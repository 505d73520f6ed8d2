package cpt

import (
	"math"

	"github.com/credencelab/credence/internal/domain"
)

// override validates an explicit CPT spec against the node's structural
// parents and wraps it as a Distribution. Every declared parent must resolve
// to a structural parent; the declared list may deliberately omit structural
// parents, which are then marginalized out of the override.
func (e *Engine) override(nodeID string, spec *domain.CPTSpec, structural []string) (*Distribution, error) {
	parents := spec.Parents
	if len(parents) == 0 {
		parents = structural
	} else {
		member := make(map[string]bool, len(structural))
		for _, p := range structural {
			member[p] = true
		}
		seen := make(map[string]bool, len(parents))
		for _, p := range parents {
			if !member[p] {
				return nil, &domain.ValidationError{
					ID:     nodeID,
					Field:  "cpt.parents",
					Reason: p + " is not a structural parent",
				}
			}
			if seen[p] {
				return nil, &domain.ValidationError{
					ID:     nodeID,
					Field:  "cpt.parents",
					Reason: "duplicate parent " + p,
				}
			}
			seen[p] = true
		}
	}

	switch spec.Kind {
	case domain.CPTTable:
		return tabular(nodeID, spec, parents)
	case domain.CPTNoisyOr, domain.CPTNoisyAnd, domain.CPTLogistic:
		return parametric(nodeID, spec, parents)
	default:
		return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.kind", Reason: "unknown kind " + string(spec.Kind)}
	}
}

// tabular checks that every one of the 2^k assignments is present exactly
// once; a missing row is an error, never a silent default.
func tabular(nodeID string, spec *domain.CPTSpec, parents []string) (*Distribution, error) {
	k := len(parents)
	want := 1 << k
	if len(spec.Rows) != want {
		return nil, &domain.ValidationError{
			ID:     nodeID,
			Field:  "cpt.rows",
			Reason: "table must cover every parent assignment exactly once",
		}
	}
	rows := make(map[int]float64, want)
	for _, r := range spec.Rows {
		if len(r.Given) != k {
			return nil, &domain.ValidationError{
				ID:     nodeID,
				Field:  "cpt.rows",
				Reason: "row assignment length does not match parent count",
			}
		}
		if r.P < 0 || r.P > 1 {
			return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.rows", Reason: "p must be in [0,1]"}
		}
		key := assignmentKey(r.Given)
		if _, dup := rows[key]; dup {
			return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.rows", Reason: "duplicate row assignment"}
		}
		rows[key] = r.P
	}
	return &Distribution{
		NodeID:  nodeID,
		Parents: parents,
		eval: func(assign []bool) float64 {
			return rows[assignmentKey(assign)]
		},
	}, nil
}

// parametric wraps a closed-form family. These are evaluated directly per
// assignment; the full 2^k table is only ever produced on explicit request.
func parametric(nodeID string, spec *domain.CPTSpec, parents []string) (*Distribution, error) {
	if len(spec.Weights) != len(parents) {
		return nil, &domain.ValidationError{
			ID:     nodeID,
			Field:  "cpt.weights",
			Reason: "weight count does not match parent count",
		}
	}

	var eval func(assign []bool) float64
	switch spec.Kind {
	case domain.CPTNoisyOr:
		leak, weights := spec.Leak, spec.Weights
		eval = func(assign []bool) float64 {
			miss := 1 - leak
			for i, active := range assign {
				if active {
					miss *= 1 - weights[i]
				}
			}
			return 1 - miss
		}
	case domain.CPTNoisyAnd:
		base, weights := spec.Base, spec.Weights
		eval = func(assign []bool) float64 {
			p := base
			for i, active := range assign {
				if !active {
					p *= 1 - weights[i]
				}
			}
			return p
		}
	case domain.CPTLogistic:
		bias, weights := spec.Bias, spec.Weights
		eval = func(assign []bool) float64 {
			x := bias
			for i, active := range assign {
				if active {
					x += weights[i]
				}
			}
			return sigmoid(x)
		}
	}
	return &Distribution{NodeID: nodeID, Parents: parents, eval: eval}, nil
}

func assignmentKey(assign []bool) int {
	key := 0
	for _, b := range assign {
		key <<= 1
		if b {
			key |= 1
		}
	}
	return key
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
