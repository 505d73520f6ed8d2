package cpt

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
)

const tolerance = 1e-9

func buildModel(t *testing.T, doc *domain.Document) *argmap.Model {
	t.Helper()
	m, err := argmap.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func prob(t *testing.T, e *Engine, id string, assign []bool) float64 {
	t.Helper()
	d, err := e.Distribution(id)
	if err != nil {
		t.Fatalf("Distribution(%s): %v", id, err)
	}
	p, err := d.Prob(assign)
	if err != nil {
		t.Fatalf("Prob(%s): %v", id, err)
	}
	return p
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestClaimDefault_SingleSupport(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "E", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "C", Type: domain.NodeProposition, BaseRate: 0.3},
		},
		Links: []domain.Link{
			{ID: "L", SourceIDs: []string{"E"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.8},
		},
	}
	e := NewEngine(buildModel(t, doc))

	// 1 - (1-0.3)(1-0.8) = 0.86
	approx(t, prob(t, e, "C", []bool{true}), 0.86)
	// Inactive support falls back to the base rate.
	approx(t, prob(t, e, "C", []bool{false}), 0.3)
}

func TestClaimDefault_SupportAndUndermine(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "E", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "R", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "C", Type: domain.NodeProposition, BaseRate: 0.3},
		},
		Links: []domain.Link{
			{ID: "Lfor", SourceIDs: []string{"E"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.8},
			{ID: "Lvs", SourceIDs: []string{"R"}, TargetID: "C", Polarity: domain.PolarityUndermines, Strength: 0.6},
		},
	}
	e := NewEngine(buildModel(t, doc))

	// Parents sorted by id: [Lfor Lvs].
	// Both active: [1 - (1-0.3)(1-0.8)] * (1-0.6) = 0.86 * 0.4 = 0.344
	approx(t, prob(t, e, "C", []bool{true, true}), 0.344)
	// Undermine alone: 0.3 * 0.4 = 0.12
	approx(t, prob(t, e, "C", []bool{false, true}), 0.12)
	// Support alone: 0.86
	approx(t, prob(t, e, "C", []bool{true, false}), 0.86)
	// Neither: base rate.
	approx(t, prob(t, e, "C", []bool{false, false}), 0.3)
}

func TestClaimDefault_TwoSupports(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "B", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "C", Type: domain.NodeProposition, BaseRate: 0.1},
		},
		Links: []domain.Link{
			{ID: "L1", SourceIDs: []string{"A"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.7},
			{ID: "L2", SourceIDs: []string{"B"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.5},
		},
	}
	e := NewEngine(buildModel(t, doc))

	// 1 - (1-0.1)(1-0.7)(1-0.5) = 0.865
	approx(t, prob(t, e, "C", []bool{true, true}), 0.865)
}

func TestLinkDefault_JointNecessity(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "B", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "T", Type: domain.NodeProposition, BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "L", SourceIDs: []string{"A", "B"}, TargetID: "T", Polarity: domain.PolaritySupports, Strength: 0.9},
		},
	}
	e := NewEngine(buildModel(t, doc))

	approx(t, prob(t, e, "L", []bool{true, true}), 1)
	approx(t, prob(t, e, "L", []bool{true, false}), 0)
	approx(t, prob(t, e, "L", []bool{false, true}), 0)
	approx(t, prob(t, e, "L", []bool{false, false}), 0)
}

func TestLinkDefault_Undercut(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "U", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "T", Type: domain.NodeProposition, BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "L", SourceIDs: []string{"A"}, TargetID: "T", Polarity: domain.PolaritySupports, Strength: 0.9},
			{ID: "Lu", SourceIDs: []string{"U"}, TargetID: "L", Polarity: domain.PolarityUndermines, Strength: 0.8},
		},
	}
	e := NewEngine(buildModel(t, doc))

	// Parents of L: [A Lu]. Source true, undercutter active: 1 * (1-0.8) = 0.2
	approx(t, prob(t, e, "L", []bool{true, true}), 0.2)
	approx(t, prob(t, e, "L", []bool{true, false}), 1)
	approx(t, prob(t, e, "L", []bool{false, true}), 0)
}

func TestLinkDefault_SupportingLinkOnLinkHasNoEffect(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "W", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "T", Type: domain.NodeProposition, BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "L", SourceIDs: []string{"A"}, TargetID: "T", Polarity: domain.PolaritySupports, Strength: 0.9},
			{ID: "Lw", SourceIDs: []string{"W"}, TargetID: "L", Polarity: domain.PolaritySupports, Strength: 0.7},
		},
	}
	e := NewEngine(buildModel(t, doc))

	// A supports-polarity parent of a link is structural but inert.
	approx(t, prob(t, e, "L", []bool{true, true}), 1)
	approx(t, prob(t, e, "L", []bool{true, false}), 1)
}

// Default CPTs stay in [0,1] and respond monotonically: activating a support
// never lowers a claim's probability, activating an undermine never raises it.
func TestClaimDefault_BoundedAndMonotone(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "B", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "R", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "C", Type: domain.NodeProposition, BaseRate: 0.35},
		},
		Links: []domain.Link{
			{ID: "L1", SourceIDs: []string{"A"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.9},
			{ID: "L2", SourceIDs: []string{"B"}, TargetID: "C", Polarity: domain.PolaritySupports, Strength: 0.4},
			{ID: "L3", SourceIDs: []string{"R"}, TargetID: "C", Polarity: domain.PolarityUndermines, Strength: 0.65},
		},
	}
	e := NewEngine(buildModel(t, doc))

	d, err := e.Distribution("C")
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	table, err := d.Materialize(DefaultMaxTableParents)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(table.Rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(table.Rows))
	}

	// Parents sorted: [L1 L2 L3].
	rowP := func(assign []bool) float64 {
		p, err := d.Prob(assign)
		if err != nil {
			t.Fatalf("Prob: %v", err)
		}
		return p
	}
	for _, row := range table.Rows {
		if row.P < 0 || row.P > 1 {
			t.Fatalf("probability out of range: %v", row)
		}
	}
	for _, base := range [][]bool{
		{false, false, false}, {false, true, false}, {false, false, true}, {false, true, true},
	} {
		flipped := append([]bool(nil), base...)
		flipped[0] = true
		if rowP(flipped) < rowP(base) {
			t.Fatalf("activating support lowered probability: %v vs %v", flipped, base)
		}
	}
	for _, base := range [][]bool{
		{false, false, false}, {true, false, false}, {true, true, false},
	} {
		flipped := append([]bool(nil), base...)
		flipped[2] = true
		if rowP(flipped) > rowP(base) {
			t.Fatalf("activating undermine raised probability: %v vs %v", flipped, base)
		}
	}
}

func TestMaterialize_RowOrder(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{
			{ID: "A", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "B", Type: domain.NodeDatum, Source: "s", BaseRate: 0.5},
			{ID: "T", Type: domain.NodeProposition, BaseRate: 0.5},
		},
		Links: []domain.Link{
			{ID: "L", SourceIDs: []string{"A", "B"}, TargetID: "T", Polarity: domain.PolaritySupports, Strength: 0.9},
		},
	}
	e := NewEngine(buildModel(t, doc))

	table, err := e.Table("L")
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	want := [][]bool{
		{false, false}, {false, true}, {true, false}, {true, true},
	}
	for i, row := range table.Rows {
		for j := range want[i] {
			if row.Given[j] != want[i][j] {
				t.Fatalf("row %d: expected %v, got %v", i, want[i], row.Given)
			}
		}
	}
}

func TestMaterialize_Ceiling(t *testing.T) {
	claims := []domain.Claim{{ID: "T", Type: domain.NodeProposition, BaseRate: 0.5}}
	var links []domain.Link
	for _, id := range []string{"p1", "p2", "p3"} {
		claims = append(claims, domain.Claim{ID: id, Type: domain.NodeDatum, Source: "s", BaseRate: 0.5})
		links = append(links, domain.Link{
			ID: "l_" + id, SourceIDs: []string{id}, TargetID: "T",
			Polarity: domain.PolaritySupports, Strength: 0.5,
		})
	}
	e := NewEngine(buildModel(t, &domain.Document{Claims: claims, Links: links}))
	e.MaxTableParents = 2

	_, err := e.Table("T")
	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError past ceiling, got %v", err)
	}

	// Closed-form evaluation is never subject to the ceiling.
	if p := prob(t, e, "T", []bool{true, true, true}); p <= 0 || p > 1 {
		t.Fatalf("unexpected probability %v", p)
	}
}

func TestProb_AssignmentLengthMismatch(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{{ID: "C", Type: domain.NodeProposition, BaseRate: 0.5}},
	}
	e := NewEngine(buildModel(t, doc))

	d, err := e.Distribution("C")
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if _, err := d.Prob([]bool{true}); err == nil {
		t.Fatal("expected error for wrong assignment length")
	}
	// A root node has one unconditional row.
	p, err := d.Prob(nil)
	if err != nil {
		t.Fatalf("Prob: %v", err)
	}
	approx(t, p, 0.5)
}

func TestDistribution_UnknownNode(t *testing.T) {
	doc := &domain.Document{
		Claims: []domain.Claim{{ID: "C", Type: domain.NodeProposition, BaseRate: 0.5}},
	}
	e := NewEngine(buildModel(t, doc))

	if _, err := e.Distribution("ghost"); err == nil {
		t.Fatal("expected error for unknown node")
	}
}

func TestClaimDefault_BoundedRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		nSupports := 1 + rng.Intn(4)
		nUndermines := rng.Intn(3)

		doc := &domain.Document{
			Claims: []domain.Claim{
				{ID: "C", Type: domain.NodeProposition, BaseRate: rng.Float64()},
			},
		}
		for i := 0; i < nSupports+nUndermines; i++ {
			src := fmt.Sprintf("d%d", i)
			doc.Claims = append(doc.Claims, domain.Claim{
				ID: src, Type: domain.NodeDatum, Source: "s", BaseRate: rng.Float64(),
			})
			pol := domain.PolaritySupports
			if i >= nSupports {
				pol = domain.PolarityUndermines
			}
			doc.Links = append(doc.Links, domain.Link{
				ID:        fmt.Sprintf("l%d", i),
				SourceIDs: []string{src},
				TargetID:  "C",
				Polarity:  pol,
				Strength:  rng.Float64(),
			})
		}

		e := NewEngine(buildModel(t, doc))
		d, err := e.Distribution("C")
		if err != nil {
			t.Fatalf("trial %d: Distribution: %v", trial, err)
		}
		assign := make([]bool, len(d.Parents))
		for i := range assign {
			assign[i] = rng.Intn(2) == 0
		}
		p, err := d.Prob(assign)
		if err != nil {
			t.Fatalf("trial %d: Prob: %v", trial, err)
		}
		if p < 0 || p > 1 {
			t.Fatalf("trial %d: probability %v out of range for assign %v", trial, p, assign)
		}
	}
}
