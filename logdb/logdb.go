// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/core"
	"github.com/vechain/stakepool/fixed"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a memory database lives as long as its only connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in one transaction, filling in their sequence numbers.
func (db *LogDB) Insert(ctx context.Context, events []*Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO event(time, kind, account, amount) VALUES(?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		amount := fixed.Clone(ev.Amount).Bytes32()
		res, err := stmt.ExecContext(ctx, ev.Time, ev.Kind, ev.Account.Bytes(), amount[:])
		if err != nil {
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		ev.Seq = uint64(seq)
	}
	return tx.Commit()
}

// FilterEvents returns events matching the filter.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT seq, time, kind, account, amount FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	stmt, args := whereClause("SELECT seq, time, kind, account, amount FROM event WHERE 1", filter)
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

// CountEvents returns the count of events matching the filter, ignoring order and options.
func (db *LogDB) CountEvents(ctx context.Context, filter *EventFilter) (uint64, error) {
	stmt, args := "SELECT COUNT(*) FROM event WHERE 1", []any(nil)
	if filter != nil {
		stmt, args = whereClause(stmt, filter)
	}
	var count uint64
	if err := db.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func whereClause(stmt string, filter *EventFilter) (string, []any) {
	var args []any
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ?"
		}
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		stmt += " AND kind = ?"
	}
	return stmt, args
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			account []byte
			amount  []byte
		)
		if err := rows.Scan(&ev.Seq, &ev.Time, &ev.Kind, &account, &amount); err != nil {
			return nil, err
		}
		ev.Account = core.BytesToAddress(account)
		ev.Amount = new(uint256.Int).SetBytes(amount)
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
