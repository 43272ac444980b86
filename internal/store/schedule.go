package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/nordatc/shiftplan/pkg/errors"
	"github.com/nordatc/shiftplan/pkg/stats"
)

// RunRecord is a single persisted scheduling run: its identity, when it
// ran, and the final statistics summary.
type RunRecord struct {
	ID        uuid.UUID
	StartedAt time.Time
	Summary   stats.Summary
}

// Schema is the DDL for the single table this package owns. Migrations are
// out of scope for the core; operators apply this once per environment.
const Schema = `
CREATE TABLE IF NOT EXISTS schedule_runs (
	id UUID PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	summary JSONB NOT NULL
);
`

// SaveRun inserts a finished run's summary.
func SaveRun(ctx context.Context, db *DB, record RunRecord) error {
	payload, err := json.Marshal(record.Summary)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO schedule_runs (id, started_at, summary) VALUES ($1, $2, $3)`,
		record.ID, record.StartedAt, payload,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert schedule run")
	}
	return nil
}

// LoadRun fetches a previously saved run by ID.
func LoadRun(ctx context.Context, db *DB, id uuid.UUID) (*RunRecord, error) {
	var record RunRecord
	var payload []byte
	row := db.QueryRowContext(ctx,
		`SELECT id, started_at, summary FROM schedule_runs WHERE id = $1`, id,
	)
	if err := row.Scan(&record.ID, &record.StartedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("schedule run", id.String())
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "load schedule run")
	}
	if err := json.Unmarshal(payload, &record.Summary); err != nil {
		return nil, err
	}
	return &record, nil
}
