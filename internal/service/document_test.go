package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/credencelab/credence/internal/domain"
	"github.com/credencelab/credence/internal/store"
)

// mockDocumentStore implements domain.DocumentStore for testing.
type mockDocumentStore struct {
	docs map[uuid.UUID]*domain.StoredDocument
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[uuid.UUID]*domain.StoredDocument)}
}

func (m *mockDocumentStore) Create(ctx context.Context, d *domain.StoredDocument) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d, nil
}

func (m *mockDocumentStore) List(ctx context.Context, limit int) ([]domain.StoredDocument, error) {
	var out []domain.StoredDocument
	for _, d := range m.docs {
		out = append(out, *d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockDocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

const validDoc = `
nodes:
  - type: Datum
    id: ev
    content: The record shows X.
    source: "archive"
  - type: Proposition
    id: hyp
    content: X happened.
  - type: Conclusion
    id: conc
    content: We should respond to X.
  - type: Link
    id: l1
    source_ids: [ev]
    target_id: hyp
    polarity: supports
    strength: 0.9
  - type: Link
    id: l2
    source_ids: [hyp]
    target_id: conc
    polarity: supports
`

const cyclicDoc = `
nodes:
  - type: Proposition
    id: a
  - type: Proposition
    id: b
  - type: Link
    id: l1
    source_ids: [a]
    target_id: b
    polarity: supports
  - type: Link
    id: l2
    source_ids: [b]
    target_id: a
    polarity: supports
`

func setupDocumentTest() (*DocumentService, *mockDocumentStore) {
	ms := newMockDocumentStore()
	return NewDocumentService(ms, testLogger()), ms
}

func TestDocumentService_Ingest(t *testing.T) {
	svc, ms := setupDocumentTest()
	ctx := context.Background()

	stored, err := svc.Ingest(ctx, IngestInput{Name: "case-1", Content: []byte(validDoc)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stored.ID == uuid.Nil {
		t.Fatal("expected id to be set")
	}
	if stored.ClaimCount != 3 || stored.LinkCount != 2 {
		t.Fatalf("expected 3 claims and 2 links, got %d/%d", stored.ClaimCount, stored.LinkCount)
	}
	if len(ms.docs) != 1 {
		t.Fatalf("expected 1 persisted document, got %d", len(ms.docs))
	}
}

func TestDocumentService_Ingest_MissingName(t *testing.T) {
	svc, _ := setupDocumentTest()

	_, err := svc.Ingest(context.Background(), IngestInput{Content: []byte(validDoc)})
	if !errors.Is(err, ErrNameMissing) {
		t.Fatalf("expected ErrNameMissing, got %v", err)
	}
}

func TestDocumentService_Ingest_EmptyContent(t *testing.T) {
	svc, _ := setupDocumentTest()

	_, err := svc.Ingest(context.Background(), IngestInput{Name: "x"})
	if !errors.Is(err, ErrDocumentEmpty) {
		t.Fatalf("expected ErrDocumentEmpty, got %v", err)
	}
}

func TestDocumentService_Ingest_CyclicDocumentNotPersisted(t *testing.T) {
	svc, ms := setupDocumentTest()

	_, err := svc.Ingest(context.Background(), IngestInput{Name: "bad", Content: []byte(cyclicDoc)})
	var cycleErr *domain.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(ms.docs) != 0 {
		t.Fatal("invalid document must not be persisted")
	}
}

func TestDocumentService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupDocumentTest()

	_, err := svc.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentService_Model(t *testing.T) {
	svc, _ := setupDocumentTest()
	ctx := context.Background()

	stored, err := svc.Ingest(ctx, IngestInput{Name: "case-1", Content: []byte(validDoc)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	model, err := svc.Model(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	if !model.Has("conc") || !model.Has("l2") {
		t.Fatal("rebuilt model is missing nodes")
	}
}

func TestDocumentService_Delete(t *testing.T) {
	svc, _ := setupDocumentTest()
	ctx := context.Background()

	stored, err := svc.Ingest(ctx, IngestInput{Name: "case-1", Content: []byte(validDoc)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if err := svc.Delete(ctx, stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, stored.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on second delete, got %v", err)
	}
}

func TestValidateDocument(t *testing.T) {
	if err := ValidateDocument([]byte(validDoc)); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := ValidateDocument([]byte(cyclicDoc)); err == nil {
		t.Fatal("expected error for cyclic document")
	}
}
