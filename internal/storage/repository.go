package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	insertSnapshotSQL = `INSERT INTO leaderboard_snapshots (
        taken_at,
        model_count,
        top_model_id,
        top_profit,
        payload
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    ON CONFLICT (taken_at) DO UPDATE
    SET model_count  = EXCLUDED.model_count,
        top_model_id = EXCLUDED.top_model_id,
        top_profit   = EXCLUDED.top_profit,
        payload      = EXCLUDED.payload
    RETURNING id, taken_at, model_count, top_model_id, top_profit, payload, created_at;`

	listRecentSnapshotsSQL = `SELECT
        id,
        taken_at,
        model_count,
        top_model_id,
        top_profit,
        payload,
        created_at
    FROM leaderboard_snapshots
    ORDER BY taken_at DESC
    LIMIT $1;`

	latestSnapshotSQL = `SELECT
        id,
        taken_at,
        model_count,
        top_model_id,
        top_profit,
        payload,
        created_at
    FROM leaderboard_snapshots
    ORDER BY taken_at DESC
    LIMIT 1;`

	upsertDecisionSQL = `INSERT INTO decision_archive (
        model_id,
        target_date,
        payload,
        archived_at
    ) VALUES (
        $1,$2,$3,$4
    )
    ON CONFLICT (model_id, target_date) DO UPDATE
    SET payload     = EXCLUDED.payload,
        archived_at = EXCLUDED.archived_at;`

	countDecisionsSQL = `SELECT COUNT(*) FROM decision_archive;`
)

// SnapshotStore defines operations for leaderboard snapshot persistence.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snapshot Snapshot) (Snapshot, error)
	ListRecentSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	LatestSnapshot(ctx context.Context) (Snapshot, bool, error)
}

// DecisionArchive defines operations for archiving raw decision records.
type DecisionArchive interface {
	UpsertDecision(ctx context.Context, record DecisionRecord) error
	CountDecisions(ctx context.Context) (int64, error)
}

// Store aggregates access to the snapshot archive.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertSnapshot persists a leaderboard capture, replacing any capture with
// the same timestamp.
func (s *Store) InsertSnapshot(ctx context.Context, snapshot Snapshot) (Snapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return Snapshot{}, err
	}

	row := pool.QueryRow(ctx, insertSnapshotSQL,
		snapshot.TakenAt,
		snapshot.ModelCount,
		snapshot.TopModelID,
		snapshot.TopProfit.String(),
		[]byte(snapshot.Payload),
	)

	stored, err := scanSnapshot(row)
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return stored, nil
}

// ListRecentSnapshots lists the most recent captures, newest first.
func (s *Store) ListRecentSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentSnapshotsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent snapshots: %w", queryErr)
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0, limit)
	for rows.Next() {
		snapshot, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snapshots = append(snapshots, snapshot)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return snapshots, nil
}

// LatestSnapshot returns the most recent capture, if any exists.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, bool, error) {
	snapshots, err := s.ListRecentSnapshots(ctx, 1)
	if err != nil {
		return Snapshot{}, false, err
	}
	if len(snapshots) == 0 {
		return Snapshot{}, false, nil
	}
	return snapshots[0], true, nil
}

// UpsertDecision archives one raw decision payload.
func (s *Store) UpsertDecision(ctx context.Context, record DecisionRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	archivedAt := record.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	_, execErr := pool.Exec(ctx, upsertDecisionSQL,
		record.ModelID,
		record.TargetDate,
		[]byte(record.Payload),
		archivedAt,
	)
	if execErr != nil {
		return fmt.Errorf("upsert decision: %w", execErr)
	}
	return nil
}

// CountDecisions reports the archive size.
func (s *Store) CountDecisions(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := pool.QueryRow(ctx, countDecisionsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var (
		snapshot  Snapshot
		topProfit string
	)
	if err := row.Scan(
		&snapshot.ID,
		&snapshot.TakenAt,
		&snapshot.ModelCount,
		&snapshot.TopModelID,
		&topProfit,
		&snapshot.Payload,
		&snapshot.CreatedAt,
	); err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}

	profit, err := decimal.NewFromString(topProfit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse top profit: %w", err)
	}
	snapshot.TopProfit = profit
	return snapshot, nil
}

var (
	_ SnapshotStore   = (*Store)(nil)
	_ DecisionArchive = (*Store)(nil)
)
