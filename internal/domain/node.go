package domain

type NodeType string

const (
	NodeProposition NodeType = "Proposition"
	NodeConclusion  NodeType = "Conclusion"
	NodeDatum       NodeType = "Datum"
	NodeLink        NodeType = "Link"
)

func ValidNodeType(t string) bool {
	switch NodeType(t) {
	case NodeProposition, NodeConclusion, NodeDatum, NodeLink:
		return true
	}
	return false
}

type Polarity string

const (
	PolaritySupports   Polarity = "supports"
	PolarityUndermines Polarity = "undermines"
)

type Explicitness string

const (
	ExplicitnessExplicit Explicitness = "explicit"
	ExplicitnessImplicit Explicitness = "implicit"
	ExplicitnessInferred Explicitness = "inferred"
)

const (
	// DefaultBaseRate is P(true) for a claim with no active incoming link.
	DefaultBaseRate = 0.5
	// DefaultStrength is the evidential weight of a link when unspecified.
	DefaultStrength = 0.8
)

// TextSpan is a verbatim quote from the source text a node was extracted from.
type TextSpan struct {
	Text     string `json:"text"`
	Location string `json:"location,omitempty"`
}

// Claim is a truth-valued node. The three variants (Proposition, Conclusion,
// Datum) share one struct; variant-specific fields are optional and only
// checked during validation. A Conclusion may never be the source of a link,
// and a Datum must carry a non-empty Source.
type Claim struct {
	ID           string       `json:"id"`
	Type         NodeType     `json:"type"`
	Content      string       `json:"content,omitempty"`
	BaseRate     float64      `json:"base_rate"`
	Source       string       `json:"source,omitempty"`      // Datum provenance
	ArgumentID   string       `json:"argument_id,omitempty"` // Conclusion thread
	DuplicateOf  string       `json:"duplicate_of,omitempty"`
	Explicitness Explicitness `json:"explicitness,omitempty"`
	Auxiliary    bool         `json:"auxiliary,omitempty"`
	TextualBasis []TextSpan   `json:"textual_basis,omitempty"`
	CPT          *CPTSpec     `json:"cpt,omitempty"`
}

// Link is a reified support/undermine relationship. It is a vertex of the
// combined dependency graph in its own right: edges run from every source to
// the link, and from the link to its target. A link whose target is another
// link is an undercutter.
type Link struct {
	ID           string       `json:"id"`
	SourceIDs    []string     `json:"source_ids"`
	TargetID     string       `json:"target_id"`
	Polarity     Polarity     `json:"polarity"`
	Strength     float64      `json:"strength"`
	Explicitness Explicitness `json:"explicitness,omitempty"`
	TextualBasis []TextSpan   `json:"textual_basis,omitempty"`
	CPT          *CPTSpec     `json:"cpt,omitempty"`
}

// Document is a parsed, field-validated argument document. Structural
// invariants (reference resolution, acyclicity, the Conclusion rule) are
// checked when an argmap.Model is built from it, not here.
type Document struct {
	Claims []Claim `json:"claims"`
	Links  []Link  `json:"links"`
}

// Claim returns the claim with the given id, if present.
func (d *Document) Claim(id string) (*Claim, bool) {
	for i := range d.Claims {
		if d.Claims[i].ID == id {
			return &d.Claims[i], true
		}
	}
	return nil, false
}

// Link returns the link with the given id, if present.
func (d *Document) Link(id string) (*Link, bool) {
	for i := range d.Links {
		if d.Links[i].ID == id {
			return &d.Links[i], true
		}
	}
	return nil, false
}
