package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS "calculations" (
    "id"         BIGSERIAL PRIMARY KEY,
    "operation"  VARCHAR(50) NOT NULL,
    "operand_a"  DOUBLE PRECISION NOT NULL,
    "operand_b"  DOUBLE PRECISION,
    "result"     DOUBLE PRECISION NOT NULL,
    "created_at" TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS "idx_calculations_operation" ON "calculations" ("operation");
CREATE INDEX IF NOT EXISTS "idx_calculations_created_at" ON "calculations" ("created_at");
`

// PostgresStore persists history in a Postgres table behind a pgx
// connection pool. Writes are single inserts; no cross-request locking
// beyond what Postgres itself provides.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to dsn and ensures the calculations table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", wrapPgError("ensure schema", err))
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) (Record, error) {
	row := s.pool.QueryRow(
		ctx,
		`INSERT INTO "calculations" ("operation", "operand_a", "operand_b", "result")
		 VALUES ($1, $2, $3, $4)
		 RETURNING "id", "created_at"`,
		rec.Operation, rec.OperandA, rec.OperandB, rec.Result,
	)

	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return Record{}, wrapPgError("append", err)
	}

	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]Record, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT "id", "operation", "operand_a", "operand_b", "result", "created_at"
		 FROM "calculations"
		 ORDER BY "created_at" DESC, "id" DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapPgError("list", err)
	}
	defer rows.Close()

	recs := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Operation, &rec.OperandA, &rec.OperandB, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, wrapPgError("list scan", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("list rows", err)
	}

	return recs, nil
}

func (s *PostgresStore) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics

	err := s.pool.QueryRow(
		ctx,
		`SELECT
		     count(*),
		     coalesce(avg("result"), 0),
		     count(*) FILTER (WHERE "created_at" >= date_trunc('day', now())),
		     count(*) FILTER (WHERE "created_at" >= now() - INTERVAL '7 days')
		 FROM "calculations"`,
	).Scan(&stats.TotalCalculations, &stats.AverageResult, &stats.TodayCalculations, &stats.WeekCalculations)
	if err != nil {
		return Statistics{}, wrapPgError("statistics", err)
	}

	err = s.pool.QueryRow(
		ctx,
		`SELECT "operation" FROM "calculations"
		 GROUP BY "operation"
		 ORDER BY count(*) DESC, "operation" ASC
		 LIMIT 1`,
	).Scan(&stats.MostUsedOperation)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Statistics{}, wrapPgError("statistics most used", err)
	}

	return stats, nil
}

func (s *PostgresStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM "calculations"`)
	if err != nil {
		return 0, wrapPgError("clear", err)
	}

	return tag.RowsAffected(), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return wrapPgError("ping", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// wrapPgError converts a pgx failure into a PersistenceError, keeping the
// SQLSTATE visible for connection-class failures.
func wrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsConnectionException(pgErr.Code) {
		return &PersistenceError{Op: op, Err: fmt.Errorf("connection failure (SQLSTATE %s): %w", pgErr.Code, err)}
	}

	return &PersistenceError{Op: op, Err: err}
}
