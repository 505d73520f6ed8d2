package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
	"github.com/credencelab/credence/internal/export"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrUnknownFormat = errors.New("unknown export format")
)

// GraphService answers structural queries against stored documents.
type GraphService struct {
	documents *DocumentService
	logger    *zap.Logger
}

func NewGraphService(documents *DocumentService, logger *zap.Logger) *GraphService {
	return &GraphService{
		documents: documents,
		logger:    logger,
	}
}

// NodeResult pairs a node id with its resolved kind.
type NodeResult struct {
	ID    string        `json:"id"`
	Claim *domain.Claim `json:"claim,omitempty"`
	Link  *domain.Link  `json:"link,omitempty"`
}

// Node resolves a single id within a document.
func (s *GraphService) Node(ctx context.Context, docID uuid.UUID, nodeID string) (*NodeResult, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	if c, ok := model.Claim(nodeID); ok {
		return &NodeResult{ID: nodeID, Claim: c}, nil
	}
	if l, ok := model.Link(nodeID); ok {
		return &NodeResult{ID: nodeID, Link: l}, nil
	}
	return nil, ErrNodeNotFound
}

// Ancestors returns every node upstream of the given node.
func (s *GraphService) Ancestors(ctx context.Context, docID uuid.UUID, nodeID string) ([]string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Ancestors(nodeID)
}

// Descendants returns every node downstream of the given node.
func (s *GraphService) Descendants(ctx context.Context, docID uuid.UUID, nodeID string) ([]string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Descendants(nodeID)
}

// Subgraph extracts the depth-bounded neighborhood of a node as a
// standalone validated model.
func (s *GraphService) Subgraph(ctx context.Context, docID uuid.UUID, nodeID string, depthUp, depthDown int) (*argmap.Model, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Subgraph(nodeID, depthUp, depthDown)
}

// Stats computes the summary metrics for a document.
func (s *GraphService) Stats(ctx context.Context, docID uuid.UUID) (*argmap.Stats, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	stats := model.ComputeStats()
	return &stats, nil
}

// Leaves returns the claims with no incoming links.
func (s *GraphService) Leaves(ctx context.Context, docID uuid.UUID) ([]string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Leaves(), nil
}

// Roots returns the claims that feed no link.
func (s *GraphService) Roots(ctx context.Context, docID uuid.UUID) ([]string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Roots(), nil
}

// Critique flags structural weaknesses in a document.
type Critique struct {
	UngroundedPropositions []string `json:"ungrounded_propositions"`
	WeaklySupported        []string `json:"weakly_supported"`
	IsolatedClaims         []string `json:"isolated_claims"`
}

func (s *GraphService) Critique(ctx context.Context, docID uuid.UUID, minSupporters int) (*Critique, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	if minSupporters <= 0 {
		minSupporters = 1
	}
	return &Critique{
		UngroundedPropositions: model.UngroundedPropositions(),
		WeaklySupported:        model.WeaklySupported(minSupporters),
		IsolatedClaims:         model.IsolatedClaims(),
	}, nil
}

// Grounding pairs coverage statistics with the uncovered stretches of the
// source text.
type Grounding struct {
	Stats argmap.GroundingStats `json:"stats"`
	Gaps  []argmap.GroundingGap `json:"gaps"`
}

// Grounding measures how well a document's nodes are anchored to the source
// text they were extracted from. The source is supplied by the caller;
// ingestion stores only the argument document itself.
func (s *GraphService) Grounding(ctx context.Context, docID uuid.UUID, source string, minGap int) (*Grounding, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	if minGap <= 0 {
		minGap = 50
	}
	return &Grounding{
		Stats: model.ComputeGroundingStats(source),
		Gaps:  model.GroundingGaps(source, minGap),
	}, nil
}

// Paths returns every route from one node to another, optionally restricted
// to support links.
func (s *GraphService) Paths(ctx context.Context, docID uuid.UUID, from, to string, supportOnly bool) ([][]string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, err
	}
	return model.Paths(from, to, supportOnly)
}

// Export renders a document in the given format: dot, cytoscape or outline.
func (s *GraphService) Export(ctx context.Context, docID uuid.UUID, format string) (string, string, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return "", "", err
	}
	return renderModel(model, format)
}

func renderModel(model *argmap.Model, format string) (content, contentType string, err error) {
	switch format {
	case "dot":
		return export.NewDOTExporter().Export(model), "text/vnd.graphviz", nil
	case "cytoscape":
		out, err := export.NewCytoscapeExporter().Export(model)
		if err != nil {
			return "", "", err
		}
		return out, "application/json", nil
	case "outline":
		return export.NewOutlineExporter().Export(model), "text/plain; charset=utf-8", nil
	default:
		return "", "", ErrUnknownFormat
	}
}
