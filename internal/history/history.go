// Package history persists solve runs in PostgreSQL.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/katalvlaran/streetroute/internal/config"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("history: run not found")

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Run is one recorded solve.
type Run struct {
	ID              string    `json:"id"`
	Mode            string    `json:"mode"`
	Traversal       string    `json:"traversal"`
	Start           string    `json:"start,omitempty"`
	Status          string    `json:"status"`
	ErrorCode       string    `json:"error_code,omitempty"`
	Weight          float64   `json:"weight"`
	Nodes           int       `json:"nodes"`
	Edges           int       `json:"edges"`
	Stops           int       `json:"stops"`
	Hops            int       `json:"hops"`
	DuplicatedEdges int       `json:"duplicated_edges"`
	WasDisconnected bool      `json:"was_disconnected"`
	GraphHash       string    `json:"graph_hash"`
	ElapsedMs       float64   `json:"elapsed_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ListOptions pages List.
type ListOptions struct {
	Mode   string
	Limit  int
	Offset int
}

// Repository reads and writes runs.
type Repository struct {
	db DB
}

// NewRepository wraps db.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Open connects a pool for cfg and pings it.
func Open(ctx context.Context, cfg config.HistoryConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Record inserts run and fills CreatedAt from the database.
func (r *Repository) Record(ctx context.Context, run *Run) error {
	const query = `
		INSERT INTO solve_runs (
			id, mode, traversal, start_node, status, error_code,
			weight, node_count, edge_count, stop_count, hop_count,
			duplicated_edges, was_disconnected, graph_hash, elapsed_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		run.ID, run.Mode, run.Traversal, run.Start, run.Status, run.ErrorCode,
		run.Weight, run.Nodes, run.Edges, run.Stops, run.Hops,
		run.DuplicatedEdges, run.WasDisconnected, run.GraphHash, run.ElapsedMs,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

const selectColumns = `
	id, mode, traversal, start_node, status, error_code,
	weight, node_count, edge_count, stop_count, hop_count,
	duplicated_edges, was_disconnected, graph_hash, elapsed_ms, created_at`

func scanRun(row pgx.Row) (*Run, error) {
	run := &Run{}
	err := row.Scan(
		&run.ID, &run.Mode, &run.Traversal, &run.Start, &run.Status, &run.ErrorCode,
		&run.Weight, &run.Nodes, &run.Edges, &run.Stops, &run.Hops,
		&run.DuplicatedEdges, &run.WasDisconnected, &run.GraphHash, &run.ElapsedMs, &run.CreatedAt,
	)

	return run, err
}

// Get returns the run with id.
func (r *Repository) Get(ctx context.Context, id string) (*Run, error) {
	run, err := scanRun(r.db.QueryRow(ctx, "SELECT"+selectColumns+"\n\tFROM solve_runs WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}

		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// List returns runs newest first and the total matching count. Limit
// defaults to 20 and is capped at 100.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]*Run, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	where := "TRUE"
	var args []any
	if opts.Mode != "" {
		where = "mode = $1"
		args = append(args, opts.Mode)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM solve_runs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	query := fmt.Sprintf("SELECT%s\n\tFROM solve_runs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectColumns, where, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}

	return out, total, nil
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the connection pool.
func (r *Repository) Close() {
	r.db.Close()
}
