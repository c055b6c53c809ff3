// Package journal keeps recognition outcomes in a SQLite database, one run per recognition sweep.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/affine/diffspace"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Memory is the data source name of a journal that lives only as long as it is open.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS outcomes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run TEXT NOT NULL REFERENCES runs(id),
	expected TEXT NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	a REAL NOT NULL,
	found INTEGER NOT NULL,
	selected TEXT NOT NULL,
	sel_x INTEGER NOT NULL,
	sel_y INTEGER NOT NULL,
	sel_a REAL NOT NULL,
	name_match INTEGER NOT NULL,
	t_match INTEGER NOT NULL,
	accuracy REAL NOT NULL,
	coherence REAL NOT NULL,
	t_dx INTEGER NOT NULL,
	t_dy INTEGER NOT NULL,
	t_da REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run);
`

// Journal records outcomes under run identifiers.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at dsn, a file path or Memory.
func Open(dsn string) (*Journal, error) {
	if dsn != Memory {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, errors.Wrapf(err, "Unable to create directory for %v", dsn)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open journal %v", dsn)
	}
	// one connection: an in-memory database is private to its connection, and sqlite serializes writers anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Unable to create journal tables")
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error { return errors.WithStack(j.db.Close()) }

// Run is a recognition run as stored in the journal.
type Run struct {
	ID      string
	Label   string
	Created string // as sqlite formats CURRENT_TIMESTAMP
}

// Begin registers a new run and returns its identifier.
func (j *Journal) Begin(ctx context.Context, label string) (string, error) {
	id := uuid.NewString()
	if _, err := j.db.ExecContext(ctx, `INSERT INTO runs (id, label) VALUES (?, ?)`, id, label); err != nil {
		return "", errors.Wrapf(err, "Unable to begin run %q", label)
	}
	return id, nil
}

// Record appends outcomes to run in a single transaction.
func (j *Journal) Record(ctx context.Context, run string, outcomes ...diffspace.Outcome) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO outcomes
		(run, expected, x, y, a, found, selected, sel_x, sel_y, sel_a, name_match, t_match, accuracy, coherence, t_dx, t_dy, t_da)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.WithStack(err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err = stmt.ExecContext(ctx, run,
			o.Expected, o.Tran.X, o.Tran.Y, o.Tran.A,
			o.Found, o.Selected, o.SelectedTran.X, o.SelectedTran.Y, o.SelectedTran.A,
			o.NameMatch, o.TranMatch, o.Accuracy, o.Coherence,
			o.DX, o.DY, o.DA); err != nil {
			return errors.Wrapf(err, "Unable to record outcome of %q", o.Expected)
		}
	}
	return errors.WithStack(tx.Commit())
}

// Runs lists every run, oldest first.
func (j *Journal) Runs(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT id, label, created_at FROM runs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var retVal []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.Created); err != nil {
			return nil, errors.WithStack(err)
		}
		retVal = append(retVal, r)
	}
	return retVal, errors.WithStack(rows.Err())
}

// Outcomes returns the outcomes of run in the order they were recorded.
func (j *Journal) Outcomes(ctx context.Context, run string) ([]diffspace.Outcome, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT
		expected, x, y, a, found, selected, sel_x, sel_y, sel_a, name_match, t_match, accuracy, coherence, t_dx, t_dy, t_da
		FROM outcomes WHERE run = ? ORDER BY id`, run)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var retVal []diffspace.Outcome
	for rows.Next() {
		var o diffspace.Outcome
		var a, selA, acc, coh, da float64
		if err := rows.Scan(
			&o.Expected, &o.Tran.X, &o.Tran.Y, &a,
			&o.Found, &o.Selected, &o.SelectedTran.X, &o.SelectedTran.Y, &selA,
			&o.NameMatch, &o.TranMatch, &acc, &coh,
			&o.DX, &o.DY, &da); err != nil {
			return nil, errors.WithStack(err)
		}
		o.Tran.A, o.SelectedTran.A = float32(a), float32(selA)
		o.Accuracy, o.Coherence, o.DA = float32(acc), float32(coh), float32(da)
		retVal = append(retVal, o)
	}
	return retVal, errors.WithStack(rows.Err())
}

// Summary summarises the outcomes of run.
func (j *Journal) Summary(ctx context.Context, run string) (diffspace.Summary, error) {
	outcomes, err := j.Outcomes(ctx, run)
	if err != nil {
		return diffspace.Summary{}, err
	}
	stats := diffspace.Statistics{Outcomes: outcomes}
	return stats.Summary(), nil
}
