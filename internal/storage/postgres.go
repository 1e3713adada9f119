package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cafe-tab/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS tab_events (
	tab_id        UUID        NOT NULL,
	sequence      BIGINT      NOT NULL,
	event_type    TEXT        NOT NULL,
	event_version TEXT        NOT NULL,
	payload       JSONB       NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (tab_id, sequence)
)`

// PostgresEventStore keeps every tab's stream in one table. The primary key
// on (tab_id, sequence) backs the version check in Append.
type PostgresEventStore struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *PostgresEventStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

func (s *PostgresEventStore) Load(ctx context.Context, id domain.TabID) ([]domain.Envelope, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT sequence, event_type, event_version, payload, recorded_at
		FROM tab_events
		WHERE tab_id = $1
		ORDER BY sequence
	`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var envs []domain.Envelope
	for rows.Next() {
		var (
			env     = domain.Envelope{TabID: id}
			payload []byte
		)
		if err := rows.Scan(&env.Sequence, &env.Type, &env.Version, &payload, &env.RecordedAt); err != nil {
			return nil, err
		}
		env.Event, err = domain.DecodeEvent(env.Type, payload)
		if err != nil {
			return nil, fmt.Errorf("tab %s sequence %d: %w", id, env.Sequence, err)
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

// Append writes events after expectedVersion in one transaction.
func (s *PostgresEventStore) Append(ctx context.Context, id domain.TabID, expectedVersion int64, events []domain.Event) ([]domain.Envelope, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sequence), 0) FROM tab_events WHERE tab_id = $1
	`, id.String()).Scan(&current); err != nil {
		return nil, err
	}
	if current != expectedVersion {
		return nil, fmt.Errorf("tab %s at version %d, expected %d: %w", id, current, expectedVersion, ErrConcurrencyConflict)
	}

	envs, err := envelopes(id, expectedVersion, events, s.Now())
	if err != nil {
		return nil, err
	}
	for _, env := range envs {
		payload, err := json.Marshal(env.Event)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tab_events (tab_id, sequence, event_type, event_version, payload, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id.String(), env.Sequence, env.Type, env.Version, payload, env.RecordedAt); err != nil {
			return nil, conflictOr(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, conflictOr(err)
	}
	return envs, nil
}

func conflictOr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pqErr.Message, ErrConcurrencyConflict)
	}
	return err
}

func envelopes(id domain.TabID, after int64, events []domain.Event, at time.Time) ([]domain.Envelope, error) {
	envs := make([]domain.Envelope, 0, len(events))
	for i, e := range events {
		if e.AggregateID() != id {
			return nil, fmt.Errorf("event %s for tab %s appended to stream %s", e.EventType(), e.AggregateID(), id)
		}
		envs = append(envs, domain.NewEnvelope(after+int64(i)+1, e, at))
	}
	return envs, nil
}
