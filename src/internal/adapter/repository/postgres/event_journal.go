package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/api-sage/account-ledger/src/internal/ledger"
)

// EventJournal appends ledger notifications to the ledger_events table.
type EventJournal struct {
	db *sql.DB
}

func NewEventJournal(db *sql.DB) *EventJournal {
	return &EventJournal{db: db}
}

func (j *EventJournal) Name() string { return "postgres:ledger_events" }

// Write stores a batch in one transaction.
func (j *EventJournal) Write(ctx context.Context, batch []ledger.Notification) error {
	const query = `
INSERT INTO ledger_events (account_id, seq, op, memo, changes, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range batch {
		changes, err := json.Marshal(n.Changes)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode changes of %d/%d: %w", n.AccountID, n.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx, n.AccountID, int64(n.Seq), n.Op, n.Memo, string(changes), n.At); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert journal entry %d/%d: %w", n.AccountID, n.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}
	return nil
}

// JournalEntry is one stored notification.
type JournalEntry struct {
	AccountID  int64
	Seq        int64
	Op         string
	Memo       string
	Changes    json.RawMessage
	OccurredAt time.Time
}

// History returns the latest entries of one account, newest first.
func (j *EventJournal) History(ctx context.Context, accountID int64, limit int) ([]JournalEntry, error) {
	const query = `
SELECT account_id, seq, op, memo, changes, occurred_at
FROM ledger_events
WHERE account_id = $1
ORDER BY occurred_at DESC, seq DESC
LIMIT $2`

	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var changes []byte
		if err := rows.Scan(&e.AccountID, &e.Seq, &e.Op, &e.Memo, &changes, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Changes = json.RawMessage(changes)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}
