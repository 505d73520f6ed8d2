package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/credencelab/credence/internal/argmap"
	"github.com/credencelab/credence/internal/cpt"
	"github.com/credencelab/credence/internal/domain"
)

// CPTService generates conditional probability tables for stored documents.
type CPTService struct {
	documents       *DocumentService
	maxTableParents int
	workers         int
	logger          *zap.Logger
}

func NewCPTService(documents *DocumentService, maxTableParents, workers int, logger *zap.Logger) *CPTService {
	if maxTableParents <= 0 {
		maxTableParents = cpt.DefaultMaxTableParents
	}
	if workers <= 0 {
		workers = 1
	}
	return &CPTService{
		documents:       documents,
		maxTableParents: maxTableParents,
		workers:         workers,
		logger:          logger,
	}
}

func (s *CPTService) engine(ctx context.Context, docID uuid.UUID) (*cpt.Engine, *argmap.Model, error) {
	model, err := s.documents.Model(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	eng := cpt.NewEngine(model)
	eng.MaxTableParents = s.maxTableParents
	return eng, model, nil
}

// Table materializes the CPT for one node.
func (s *CPTService) Table(ctx context.Context, docID uuid.UUID, nodeID string) (*domain.Table, error) {
	eng, _, err := s.engine(ctx, docID)
	if err != nil {
		return nil, err
	}
	return eng.Table(nodeID)
}

// Prob evaluates a single row of a node's distribution without
// materializing the full table.
func (s *CPTService) Prob(ctx context.Context, docID uuid.UUID, nodeID string, assign []bool) (float64, error) {
	eng, _, err := s.engine(ctx, docID)
	if err != nil {
		return 0, err
	}
	dist, err := eng.Distribution(nodeID)
	if err != nil {
		return 0, err
	}
	return dist.Prob(assign)
}

type tableResult struct {
	table *domain.Table
	err   error
}

// GenerateAll materializes CPTs for every node in the document, fanning
// the work out across a bounded pool. Results come back sorted by node
// id. The first node that fails aborts the batch.
func (s *CPTService) GenerateAll(ctx context.Context, docID uuid.UUID) ([]*domain.Table, error) {
	eng, model, err := s.engine(ctx, docID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, c := range model.Claims() {
		ids = append(ids, c.ID)
	}
	for _, l := range model.Links() {
		ids = append(ids, l.ID)
	}

	jobs := make(chan string)
	results := make(map[string]tableResult, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				table, err := eng.Table(id)
				mu.Lock()
				results[id] = tableResult{table: table, err: err}
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
		select {
		case jobs <- id:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(ids)
	out := make([]*domain.Table, 0, len(ids))
	for _, id := range ids {
		res := results[id]
		if res.err != nil {
			s.logger.Warn("cpt generation failed",
				zap.String("document_id", docID.String()),
				zap.String("node_id", id),
				zap.Error(res.err))
			return nil, res.err
		}
		out = append(out, res.table)
	}
	return out, nil
}
