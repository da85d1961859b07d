package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/footylab/prediction-engine/models"
	"github.com/lib/pq"
)

var (
	ErrSnapshotNotFound = errors.New("tournament snapshot not found")
	ErrSnapshotExists   = errors.New("tournament snapshot already exists")
	// ErrVersionConflict is returned when a compare-and-swap update lost the
	// race: the stored version no longer matches the caller's.
	ErrVersionConflict = errors.New("tournament snapshot version conflict")
)

// TournamentSnapshot is one persisted tournament state plus its optimistic
// concurrency version. The version increments on every successful write.
type TournamentSnapshot struct {
	TournamentID string
	Version      int64
	State        *models.TournamentState
	UpdatedAt    time.Time
}

type SnapshotRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, exec SQLExecutor, snap *TournamentSnapshot) error
	Get(ctx context.Context, exec SQLExecutor, tournamentID string) (*TournamentSnapshot, error)
	// Update writes the state only if the stored version still equals
	// snap.Version, then bumps snap.Version. ErrVersionConflict otherwise.
	Update(ctx context.Context, exec SQLExecutor, snap *TournamentSnapshot) error
	Delete(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db}
}

func (r *postgresSnapshotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tournament_snapshots (
			tournament_id TEXT PRIMARY KEY,
			version       BIGINT NOT NULL,
			payload       JSONB NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure tournament_snapshots schema: %w", err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Create(ctx context.Context, exec SQLExecutor, snap *TournamentSnapshot) error {
	executor := r.getExecutor(exec)
	payload, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament state %s: %w", snap.TournamentID, err)
	}
	snap.Version = 1
	snap.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO tournament_snapshots (tournament_id, version, payload, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := executor.ExecContext(ctx, query, snap.TournamentID, snap.Version, payload, snap.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSnapshotExists
		}
		return fmt.Errorf("failed to insert snapshot %s: %w", snap.TournamentID, err)
	}
	return nil
}

func (r *postgresSnapshotRepository) Get(ctx context.Context, exec SQLExecutor, tournamentID string) (*TournamentSnapshot, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT tournament_id, version, payload, updated_at
		FROM tournament_snapshots
		WHERE tournament_id = $1`

	var snap TournamentSnapshot
	var payload []byte
	err := executor.QueryRowContext(ctx, query, tournamentID).
		Scan(&snap.TournamentID, &snap.Version, &payload, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", tournamentID, err)
	}

	var state models.TournamentState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", tournamentID, err)
	}
	snap.State = &state
	return &snap, nil
}

func (r *postgresSnapshotRepository) Update(ctx context.Context, exec SQLExecutor, snap *TournamentSnapshot) error {
	executor := r.getExecutor(exec)
	payload, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament state %s: %w", snap.TournamentID, err)
	}
	now := time.Now().UTC()

	query := `
		UPDATE tournament_snapshots
		SET version = version + 1, payload = $1, updated_at = $2
		WHERE tournament_id = $3 AND version = $4`
	result, err := executor.ExecContext(ctx, query, payload, now, snap.TournamentID, snap.Version)
	if err != nil {
		return fmt.Errorf("failed to update snapshot %s: %w", snap.TournamentID, err)
	}
	if err := checkAffectedRows(result, ErrVersionConflict); err != nil {
		return err
	}
	snap.Version++
	snap.UpdatedAt = now
	return nil
}

func (r *postgresSnapshotRepository) Delete(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournament_snapshots WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrSnapshotNotFound)
}
