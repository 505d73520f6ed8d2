package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/domain"
	"github.com/credencelab/credence/internal/parser"
	"github.com/credencelab/credence/internal/store"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentEmpty    = errors.New("document content is required")
	ErrNameMissing      = errors.New("document name is required")
)

type DocumentService struct {
	documents domain.DocumentStore
	logger    *zap.Logger
}

func NewDocumentService(documents domain.DocumentStore, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		logger:    logger,
	}
}

// IngestInput is the input for ingesting a new argument document.
type IngestInput struct {
	Name    string
	Content []byte
}

// Ingest parses and validates an argument document, then persists it.
// Parse or validation errors are returned unwrapped so callers can map
// them to the error taxonomy.
func (s *DocumentService) Ingest(ctx context.Context, input IngestInput) (*domain.StoredDocument, error) {
	if input.Name == "" {
		return nil, ErrNameMissing
	}
	if len(input.Content) == 0 {
		return nil, ErrDocumentEmpty
	}

	doc, err := parser.Parse(input.Content)
	if err != nil {
		return nil, err
	}
	model, err := argmap.Build(doc)
	if err != nil {
		return nil, err
	}

	stored := &domain.StoredDocument{
		Name:       input.Name,
		Content:    input.Content,
		ClaimCount: len(model.Claims()),
		LinkCount:  len(model.Links()),
	}
	if err := s.documents.Create(ctx, stored); err != nil {
		return nil, err
	}

	s.logger.Info("document ingested",
		zap.String("document_id", stored.ID.String()),
		zap.String("name", stored.Name),
		zap.Int("claims", stored.ClaimCount),
		zap.Int("links", stored.LinkCount))

	return stored, nil
}

// ValidateDocument parses and validates document content without
// persisting anything.
func ValidateDocument(content []byte) error {
	doc, err := parser.Parse(content)
	if err != nil {
		return err
	}
	_, err = argmap.Build(doc)
	return err
}

// GetByID retrieves a stored document.
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	stored, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return stored, nil
}

// Model rebuilds the validated graph model for a stored document.
func (s *DocumentService) Model(ctx context.Context, id uuid.UUID) (*argmap.Model, error) {
	stored, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(stored.Content)
	if err != nil {
		return nil, err
	}
	return argmap.Build(doc)
}

// List returns recently ingested documents, newest first.
func (s *DocumentService) List(ctx context.Context, limit int) ([]domain.StoredDocument, error) {
	return s.documents.List(ctx, limit)
}

// Delete removes a stored document.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}
