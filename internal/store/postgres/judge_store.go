// Package postgres provides the Postgres-backed judge store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eventra/judge-scout/internal/scout"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// undefinedColumn is the Postgres error code raised when a deployment's
// schema lacks the optional location column.
const undefinedColumn = "42703"

// JudgeStoreConfig controls the Postgres connection pool.
type JudgeStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// JudgeStore implements scout.JudgeStore on Postgres. Upserts key on the
// judge's name; a schema without the location column degrades to an upsert
// that omits it instead of failing the record.
type JudgeStore struct {
	pool   pgxPool
	table  string
	logger *zap.Logger
}

// NewJudgeStore connects a pool using the provided config.
func NewJudgeStore(ctx context.Context, cfg JudgeStoreConfig, logger *zap.Logger) (*JudgeStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewJudgeStoreWithPool(pool, cfg.Table, logger)
}

// NewJudgeStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewJudgeStoreWithPool(pool pgxPool, table string, logger *zap.Logger) (*JudgeStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "judges"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JudgeStore{pool: pool, table: table, logger: logger}, nil
}

// Close releases the underlying pool resources.
func (s *JudgeStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Upsert inserts or replaces the record keyed by the judge's name. When the
// judge carries a location and the schema rejects the column, the same upsert
// is retried once without it.
func (s *JudgeStore) Upsert(ctx context.Context, judge scout.Judge) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("judge store is not configured")
	}
	if judge.Name == "" {
		return fmt.Errorf("judge name is required")
	}

	if judge.Location == "" {
		return s.upsertWithoutLocation(ctx, judge)
	}

	err := s.upsertWithLocation(ctx, judge)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		s.logger.Info("location column not in schema, retrying without it",
			zap.String("name", judge.Name),
		)
		return s.upsertWithoutLocation(ctx, judge)
	}
	return err
}

func (s *JudgeStore) upsertWithLocation(ctx context.Context, judge scout.Judge) error {
	query := fmt.Sprintf(`
INSERT INTO %s (name, expertise, availability, hourly_rate, relevance_score, location)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (name) DO UPDATE SET
	expertise = EXCLUDED.expertise,
	availability = EXCLUDED.availability,
	hourly_rate = EXCLUDED.hourly_rate,
	relevance_score = EXCLUDED.relevance_score,
	location = EXCLUDED.location`, s.table)

	args := []any{
		judge.Name,
		judge.Expertise,
		string(judge.Availability),
		judge.HourlyRate,
		judge.RelevanceScore,
		judge.Location,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert judge with location: %w", err)
	}
	return nil
}

func (s *JudgeStore) upsertWithoutLocation(ctx context.Context, judge scout.Judge) error {
	query := fmt.Sprintf(`
INSERT INTO %s (name, expertise, availability, hourly_rate, relevance_score)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (name) DO UPDATE SET
	expertise = EXCLUDED.expertise,
	availability = EXCLUDED.availability,
	hourly_rate = EXCLUDED.hourly_rate,
	relevance_score = EXCLUDED.relevance_score`, s.table)

	args := []any{
		judge.Name,
		judge.Expertise,
		string(judge.Availability),
		judge.HourlyRate,
		judge.RelevanceScore,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert judge: %w", err)
	}
	return nil
}

// List returns all stored judges ordered by relevance descending. Like
// Upsert, it degrades to a location-free query when the schema lacks the
// column.
func (s *JudgeStore) List(ctx context.Context) ([]scout.Judge, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("judge store is not configured")
	}
	judges, err := s.list(ctx, true)
	if err == nil {
		return judges, nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedColumn {
		return s.list(ctx, false)
	}
	return nil, err
}

func (s *JudgeStore) list(ctx context.Context, withLocation bool) ([]scout.Judge, error) {
	columns := "name, expertise, availability, hourly_rate, relevance_score"
	if withLocation {
		columns += ", COALESCE(location, '')"
	}
	query := fmt.Sprintf(`
SELECT %s
FROM %s
ORDER BY relevance_score DESC, name ASC`, columns, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list judges: %w", err)
	}
	defer rows.Close()

	var judges []scout.Judge
	for rows.Next() {
		var (
			j            scout.Judge
			availability string
		)
		dest := []any{&j.Name, &j.Expertise, &availability, &j.HourlyRate, &j.RelevanceScore}
		if withLocation {
			dest = append(dest, &j.Location)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan judge row: %w", err)
		}
		j.Availability = scout.Availability(availability)
		judges = append(judges, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate judge rows: %w", err)
	}
	return judges, nil
}
