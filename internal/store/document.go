package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/credencelab/credence/internal/domain"
)

var ErrNotFound = errors.New("not found")

type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

// Migrate creates the documents table if it does not exist.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			content BYTEA NOT NULL,
			claim_count INT NOT NULL DEFAULT 0,
			link_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (s *DocumentStore) Create(ctx context.Context, d *domain.StoredDocument) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO documents (name, content, claim_count, link_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		d.Name, d.Content, d.ClaimCount, d.LinkCount,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (s *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	d := &domain.StoredDocument{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, content, claim_count, link_count, created_at, updated_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.Content, &d.ClaimCount, &d.LinkCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DocumentStore) List(ctx context.Context, limit int) ([]domain.StoredDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, name, claim_count, link_count, created_at, updated_at
		 FROM documents ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StoredDocument
	for rows.Next() {
		var d domain.StoredDocument
		if err := rows.Scan(&d.ID, &d.Name, &d.ClaimCount, &d.LinkCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
