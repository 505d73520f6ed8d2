// Package parser loads argument-graph YAML documents into the typed domain
// model. All node types live in a single `nodes` array discriminated by the
// `type` field. Field-level validation (required fields per variant, enum
// membership, probability ranges) happens here; structural validation
// (reference resolution, acyclicity) happens when an argmap.Model is built.
package parser

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/credencelab/credence/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// textualBasis accepts either a single span mapping or a list of spans.
type textualBasis []domain.TextSpan

func (t *textualBasis) UnmarshalYAML(value *yaml.Node) error {
	type span struct {
		Text     string `yaml:"text"`
		Location string `yaml:"location"`
	}
	switch value.Kind {
	case yaml.SequenceNode:
		var spans []span
		if err := value.Decode(&spans); err != nil {
			return err
		}
		for _, s := range spans {
			*t = append(*t, domain.TextSpan{Text: s.Text, Location: s.Location})
		}
		return nil
	case yaml.MappingNode:
		var s span
		if err := value.Decode(&s); err != nil {
			return err
		}
		*t = append(*t, domain.TextSpan{Text: s.Text, Location: s.Location})
		return nil
	default:
		return fmt.Errorf("textual_basis: expected mapping or sequence, got %v", value.Kind)
	}
}

type rawCPTRow struct {
	Given []bool   `yaml:"given"`
	P     *float64 `yaml:"p" validate:"required,gte=0,lte=1"`
}

type rawCPT struct {
	Kind    string      `yaml:"kind" validate:"required,oneof=table noisy_or noisy_and logistic"`
	Parents []string    `yaml:"parents"`
	Rows    []rawCPTRow `yaml:"rows" validate:"dive"`
	Leak    float64     `yaml:"leak"`
	Base    float64     `yaml:"base"`
	Bias    float64     `yaml:"bias"`
	Weights []float64   `yaml:"weights"`
}

type rawNode struct {
	Type         string       `yaml:"type" validate:"required,oneof=Proposition Conclusion Datum Link"`
	ID           string       `yaml:"id" validate:"required"`
	Content      string       `yaml:"content"`
	BaseRate     *float64     `yaml:"base_rate" validate:"omitempty,gte=0,lte=1"`
	Source       string       `yaml:"source"`
	ArgumentID   string       `yaml:"argument_id"`
	DuplicateOf  string       `yaml:"duplicate_of"`
	Explicitness string       `yaml:"explicitness" validate:"omitempty,oneof=explicit implicit inferred"`
	Auxiliary    bool         `yaml:"auxiliary"`
	TextualBasis textualBasis `yaml:"textual_basis"`
	SourceIDs    []string     `yaml:"source_ids"`
	TargetID     string       `yaml:"target_id"`
	Polarity     string       `yaml:"polarity" validate:"omitempty,oneof=supports undermines"`
	Strength     *float64     `yaml:"strength" validate:"omitempty,gte=0,lte=1"`
	CPT          *rawCPT      `yaml:"cpt"`
}

type rawDocument struct {
	Nodes []rawNode `yaml:"nodes" validate:"required,min=1,dive"`
}

// Parse decodes and field-validates a YAML argument document.
func Parse(data []byte) (*domain.Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed yaml: %w", err)
	}

	if err := validate.Struct(&raw); err != nil {
		return nil, translateValidation(raw, err)
	}

	doc := &domain.Document{}
	for i := range raw.Nodes {
		n := &raw.Nodes[i]
		if n.Type == string(domain.NodeLink) {
			link, err := buildLink(n)
			if err != nil {
				return nil, err
			}
			doc.Links = append(doc.Links, *link)
			continue
		}
		claim, err := buildClaim(n)
		if err != nil {
			return nil, err
		}
		doc.Claims = append(doc.Claims, *claim)
	}
	return doc, nil
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func buildClaim(n *rawNode) (*domain.Claim, error) {
	if n.Type == string(domain.NodeDatum) && n.Source == "" {
		return nil, &domain.SchemaError{ID: n.ID, Reason: "Datum requires a non-empty source"}
	}
	if len(n.SourceIDs) > 0 || n.TargetID != "" || n.Polarity != "" || n.Strength != nil {
		return nil, &domain.SchemaError{ID: n.ID, Reason: fmt.Sprintf("%s carries link-only fields", n.Type)}
	}

	baseRate := domain.DefaultBaseRate
	if n.BaseRate != nil {
		baseRate = *n.BaseRate
	}

	cpt, err := buildCPT(n.ID, n.CPT)
	if err != nil {
		return nil, err
	}

	return &domain.Claim{
		ID:           n.ID,
		Type:         domain.NodeType(n.Type),
		Content:      n.Content,
		BaseRate:     baseRate,
		Source:       n.Source,
		ArgumentID:   n.ArgumentID,
		DuplicateOf:  n.DuplicateOf,
		Explicitness: domain.Explicitness(n.Explicitness),
		Auxiliary:    n.Auxiliary,
		TextualBasis: n.TextualBasis,
		CPT:          cpt,
	}, nil
}

func buildLink(n *rawNode) (*domain.Link, error) {
	if len(n.SourceIDs) == 0 {
		return nil, &domain.SchemaError{ID: n.ID, Reason: "Link requires a non-empty source_ids"}
	}
	if n.TargetID == "" {
		return nil, &domain.SchemaError{ID: n.ID, Reason: "Link requires a target_id"}
	}
	if n.Polarity == "" {
		return nil, &domain.SchemaError{ID: n.ID, Reason: "Link requires a polarity"}
	}
	if n.Source != "" || n.DuplicateOf != "" || n.Auxiliary || n.BaseRate != nil || n.ArgumentID != "" {
		return nil, &domain.SchemaError{ID: n.ID, Reason: "Link carries claim-only fields"}
	}

	strength := domain.DefaultStrength
	if n.Strength != nil {
		strength = *n.Strength
	}

	cpt, err := buildCPT(n.ID, n.CPT)
	if err != nil {
		return nil, err
	}

	return &domain.Link{
		ID:           n.ID,
		SourceIDs:    n.SourceIDs,
		TargetID:     n.TargetID,
		Polarity:     domain.Polarity(n.Polarity),
		Strength:     strength,
		Explicitness: domain.Explicitness(n.Explicitness),
		TextualBasis: n.TextualBasis,
		CPT:          cpt,
	}, nil
}

// buildCPT converts a raw override and applies the per-kind numeric rules.
// Logistic bias/weights are unconstrained reals; everything else lives in
// [0,1]. Shape checks against the structural parent list are deferred to the
// CPT engine, which knows the parents.
func buildCPT(nodeID string, raw *rawCPT) (*domain.CPTSpec, error) {
	if raw == nil {
		return nil, nil
	}

	kind := domain.CPTKind(raw.Kind)
	spec := &domain.CPTSpec{
		Kind:    kind,
		Parents: raw.Parents,
		Leak:    raw.Leak,
		Base:    raw.Base,
		Bias:    raw.Bias,
		Weights: raw.Weights,
	}

	switch kind {
	case domain.CPTTable:
		if len(raw.Rows) == 0 {
			return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.rows", Reason: "table override requires rows"}
		}
		for _, r := range raw.Rows {
			spec.Rows = append(spec.Rows, domain.CPTRow{Given: r.Given, P: *r.P})
		}
	case domain.CPTNoisyOr:
		if raw.Leak < 0 || raw.Leak > 1 {
			return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.leak", Reason: "must be in [0,1]"}
		}
		if err := checkUnitWeights(nodeID, raw.Weights); err != nil {
			return nil, err
		}
	case domain.CPTNoisyAnd:
		if raw.Base < 0 || raw.Base > 1 {
			return nil, &domain.ValidationError{ID: nodeID, Field: "cpt.base", Reason: "must be in [0,1]"}
		}
		if err := checkUnitWeights(nodeID, raw.Weights); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func checkUnitWeights(nodeID string, weights []float64) error {
	for i, w := range weights {
		if w < 0 || w > 1 {
			return &domain.ValidationError{
				ID:     nodeID,
				Field:  fmt.Sprintf("cpt.weights[%d]", i),
				Reason: "must be in [0,1]",
			}
		}
	}
	return nil
}

// translateValidation maps a validator error onto the domain taxonomy,
// pointing at the offending node when the field path identifies one.
func translateValidation(raw rawDocument, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	ve := verrs[0]

	id := ""
	var idx int
	if n, scanErr := fmt.Sscanf(ve.StructNamespace(), "rawDocument.Nodes[%d]", &idx); scanErr == nil && n == 1 && idx < len(raw.Nodes) {
		id = raw.Nodes[idx].ID
	}

	switch ve.Tag() {
	case "gte", "lte":
		return &domain.ValidationError{ID: id, Field: ve.StructField(), Reason: "must be in [0,1]"}
	case "oneof":
		return &domain.ValidationError{ID: id, Field: ve.StructField(), Reason: fmt.Sprintf("invalid value %q", ve.Value())}
	default:
		return &domain.SchemaError{ID: id, Reason: fmt.Sprintf("missing or invalid %s", ve.StructField())}
	}
}
