// Package reportstore persists finished run reports to PostgreSQL,
// grounded on fweilun-Ark's internal/modules/order/store.go: a thin
// struct wrapping a *pgxpool.Pool, parameterized SQL, no ORM. Every run
// gets a google/uuid run id stamped before Configure is even called, so
// a report row can be created eagerly and then updated in place once
// the simulator finishes.
package reportstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridesim/kernel"
)

// ErrNotFound is returned by Get when no row matches the run id.
var ErrNotFound = errors.New("reportstore: run not found")

// Run is one persisted simulation run, from creation through the final
// report.
type Run struct {
	ID               uuid.UUID
	Algorithm        string
	NumberOfAgents   int
	Status           string // "running", "completed", "failed"
	TotalFare        float64
	PoolCount        int
	TotalAssignments int
	ExpiredResources int
	FailureReason    string
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create inserts a new run row in the "running" state and returns its
// freshly minted id.
func (s *Store) Create(ctx context.Context, algo kernel.Algorithm, numberOfAgents int) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx, `
		INSERT INTO runs (id, algorithm, number_of_agents, status)
		VALUES ($1, $2, $3, 'running')`,
		id, algo.String(), numberOfAgents,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Complete records a successful run's scoreboard against its row.
func (s *Store) Complete(ctx context.Context, id uuid.UUID, score *kernel.Scoreboard) error {
	_, err := s.db.Exec(ctx, `
		UPDATE runs
		SET status = 'completed',
			total_fare = $2,
			pool_count = $3,
			total_assignments = $4,
			expired_resources = $5
		WHERE id = $1`,
		id, score.TotalFare, score.PoolCount, score.TotalAssignments(), score.ExpiredResources,
	)
	return err
}

// Fail records a run that terminated with an error.
func (s *Store) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE runs SET status = 'failed', failure_reason = $2 WHERE id = $1`,
		id, reason,
	)
	return err
}

// Get fetches one run by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, algorithm, number_of_agents, status,
		       total_fare, pool_count, total_assignments, expired_resources,
		       COALESCE(failure_reason, '')
		FROM runs WHERE id = $1`, id,
	)
	var r Run
	err := row.Scan(&r.ID, &r.Algorithm, &r.NumberOfAgents, &r.Status,
		&r.TotalFare, &r.PoolCount, &r.TotalAssignments, &r.ExpiredResources,
		&r.FailureReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
