package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// StmtCache caches prepared statements by their query string.
type StmtCache struct {
	db *sql.DB
	mu sync.Mutex
	m  map[string]*sql.Stmt
}

func NewStmtCache(db *sql.DB) *StmtCache {
	return &StmtCache{db: db, m: make(map[string]*sql.Stmt)}
}

func (sc *StmtCache) Prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if stmt, ok := sc.m[query]; ok {
		return stmt, nil
	}
	stmt, err := sc.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	sc.m[query] = stmt
	return stmt, nil
}

// Len returns the number of cached statements.
func (sc *StmtCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.m)
}

// Clear closes and forgets every cached statement.
func (sc *StmtCache) Clear() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	for q, stmt := range sc.m {
		errs = append(errs, stmt.Close())
		delete(sc.m, q)
	}
	return errors.Join(errs...)
}
