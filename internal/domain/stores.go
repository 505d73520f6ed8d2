package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StoredDocument is a persisted argument document: the raw YAML plus the
// counts recorded at ingestion time.
type StoredDocument struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Content    []byte    `json:"-"`
	ClaimCount int       `json:"claim_count"`
	LinkCount  int       `json:"link_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DocumentStore interface {
	Create(ctx context.Context, d *StoredDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*StoredDocument, error)
	List(ctx context.Context, limit int) ([]StoredDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
