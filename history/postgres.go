// Package history is the production adapter for the keyword-ranking
// persistence collaborator. The resolver only sees the HistoryProvider
// interface; this package binds it to Postgres. The rankings table is owned
// by the tracking pipeline; this adapter only reads it.
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seo-intel/backend/keyword"
)

// Store reads ranking history from Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pool to databaseURL and verifies the connection.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// GetRankingHistory returns all recorded samples for a keyword, oldest
// first. No rows is not an error; the resolver treats an empty history as
// "no internal data".
func (s *Store) GetRankingHistory(ctx context.Context, kw string) ([]keyword.RankingSample, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT position, impressions, ctr, observed_at
		 FROM keyword_rankings
		 WHERE keyword = $1
		 ORDER BY observed_at`,
		kw,
	)
	if err != nil {
		return nil, fmt.Errorf("querying ranking history: %w", err)
	}
	defer rows.Close()

	var samples []keyword.RankingSample
	for rows.Next() {
		var s keyword.RankingSample
		if err := rows.Scan(&s.Position, &s.Impressions, &s.CTR, &s.ObservedAt); err != nil {
			return nil, fmt.Errorf("scanning ranking sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ranking history: %w", err)
	}

	return samples, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
