// SPDX-License-Identifier: MIT
package orghierarchy

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"gitlab.com/fisherprime/orghierarchy/lexer"
)

type (
	// Safe wraps a Hierarchy for concurrent use.
	//
	// Mutations hold the exclusive lock over both the Identifier Index & the tree, queries
	// share the lock.
	Safe struct {
		mu sync.RWMutex
		h  *Hierarchy

		poolSize int
	}

	// QueryKind identifies a read-only Hierarchy operation.
	QueryKind int

	// Query defines a read-only operation for Safe.Batch.
	Query struct {
		Kind QueryKind
		ID   int

		// OtherID is the second employee of a QueryLowestCommonBoss.
		OtherID int
	}

	// Result holds the outcome of a Query.
	Result struct {
		Query

		// Value holds the boss, level or lowest common boss.
		Value int
		// Text holds the rendered output of a QueryRender.
		Text string
		Err  error
	}
)

// ErrUnknownQuery is reported for a Query lacking a known QueryKind.
var ErrUnknownQuery = errors.New("unknown query")

// Query kinds.
const (
	_ QueryKind = iota
	QueryBoss
	QueryLevel
	QueryLowestCommonBoss
	QueryRender
)

// String is the fmt.Stringer interface implementation for QueryKind.
func (k QueryKind) String() string {
	switch k {
	case QueryBoss:
		return "boss"
	case QueryLevel:
		return "level"
	case QueryLowestCommonBoss:
		return "lowest common boss"
	case QueryRender:
		return "render"
	default:
		return "unknown"
	}
}

// NewSafe wraps a Hierarchy; Batch runs at most poolSize queries at a time, GOMAXPROCS for a
// poolSize < 1.
func NewSafe(h *Hierarchy, poolSize int) *Safe {
	if poolSize < 1 {
		poolSize = runtime.GOMAXPROCS(0)
	}

	return &Safe{h: h, poolSize: poolSize}
}

// HireOwner is the synchronized Hierarchy.HireOwner.
func (s *Safe) HireOwner(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.h.HireOwner(ctx, id)
}

// HireEmployee is the synchronized Hierarchy.HireEmployee.
func (s *Safe) HireEmployee(ctx context.Context, id, bossID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.h.HireEmployee(ctx, id, bossID)
}

// FireEmployee is the synchronized Hierarchy.FireEmployee.
func (s *Safe) FireEmployee(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.h.FireEmployee(ctx, id)
}

// FireAndReassign is the synchronized Hierarchy.FireAndReassign.
func (s *Safe) FireAndReassign(ctx context.Context, id, replacementID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.h.FireAndReassign(ctx, id, replacementID)
}

// Boss is the synchronized Hierarchy.Boss.
func (s *Safe) Boss(ctx context.Context, id int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.Boss(ctx, id)
}

// LowestCommonBoss is the synchronized Hierarchy.LowestCommonBoss.
func (s *Safe) LowestCommonBoss(ctx context.Context, id1, id2 int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.LowestCommonBoss(ctx, id1, id2)
}

// Level is the synchronized Hierarchy.Level.
func (s *Safe) Level(ctx context.Context, id int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.Level(ctx, id)
}

// Render is the synchronized Hierarchy.Render.
func (s *Safe) Render(ctx context.Context, id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.Render(ctx, id)
}

// Size is the synchronized Hierarchy.Size.
func (s *Safe) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.Size()
}

// IsEmpty is the synchronized Hierarchy.IsEmpty.
func (s *Safe) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.IsEmpty()
}

// Serialize is the synchronized Hierarchy.Serialize.
func (s *Safe) Serialize(ctx context.Context, opts *lexer.Opts) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.h.Serialize(ctx, opts)
}

// Batch executes read-only queries concurrently, the results follow the order of the queries.
//
// The queries observe a single snapshot: mutations wait for the batch to complete.
func (s *Safe) Batch(ctx context.Context, queries []Query) (results []Result, err error) {
	results = make([]Result, len(queries))
	if len(queries) < 1 {
		return
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("query pool: %w", err)
	}
	defer pool.Release()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var wg sync.WaitGroup
	for index := range queries {
		index := index

		select {
		case <-ctx.Done():
			results[index] = Result{Query: queries[index], Err: ctx.Err()}
			continue
		default:
		}

		wg.Add(1)
		if subErr := pool.Submit(func() {
			defer wg.Done()
			results[index] = s.query(ctx, queries[index])
		}); subErr != nil {
			wg.Done()
			results[index] = Result{Query: queries[index], Err: subErr}
		}
	}
	wg.Wait()

	return
}

// query executes a Query, the read lock is held by the caller.
func (s *Safe) query(ctx context.Context, q Query) (r Result) {
	r.Query = q

	switch q.Kind {
	case QueryBoss:
		r.Value, r.Err = s.h.Boss(ctx, q.ID)
	case QueryLevel:
		r.Value, r.Err = s.h.Level(ctx, q.ID)
	case QueryLowestCommonBoss:
		r.Value, r.Err = s.h.LowestCommonBoss(ctx, q.ID, q.OtherID)
	case QueryRender:
		r.Text, r.Err = s.h.Render(ctx, q.ID)
	default:
		r.Err = fmt.Errorf("%w: query kind %d", ErrUnknownQuery, q.Kind)
	}

	return
}
