package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name            string
	Upsert          string
	SelectForUpdate string
}

// MySQL targets MySQL/MariaDB through github.com/go-sql-driver/mysql.
var MySQL = Dialect{
	Name: "mysql",
	Upsert: `INSERT INTO kv_entries (k, v, expires_at) VALUES (?, ?, ?)
	         ON DUPLICATE KEY UPDATE v = VALUES(v), expires_at = VALUES(expires_at)`,
	SelectForUpdate: `SELECT v, expires_at FROM kv_entries WHERE k = ? FOR UPDATE`,
}

// SQLite targets modernc.org/sqlite.  SQLite has no row locks; the
// connection pool is limited to one connection so transactions serialize.
var SQLite = Dialect{
	Name: "sqlite",
	Upsert: `INSERT INTO kv_entries (k, v, expires_at) VALUES (?, ?, ?)
	         ON CONFLICT(k) DO UPDATE SET v = excluded.v, expires_at = excluded.expires_at`,
	SelectForUpdate: `SELECT v, expires_at FROM kv_entries WHERE k = ?`,
}

const (
	qSelect = `SELECT v, expires_at FROM kv_entries WHERE k = ?`
	qDelete = `DELETE FROM kv_entries WHERE k = ?`
)

// SQLStore keeps keys in the kv_entries table created by the database
// migrations.  Expiry is stored as unix milliseconds; expired rows are
// treated as missing and removed lazily.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

func (s *SQLStore) expired(exp sql.NullInt64) bool {
	return exp.Valid && exp.Int64 <= s.now().UnixMilli()
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		v   []byte
		exp sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, qSelect, key).Scan(&v, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	if s.expired(exp) {
		_, _ = s.db.ExecContext(ctx, qDelete, key)
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var exp sql.NullInt64
	if ttl > 0 {
		exp = sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, value, exp); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, qDelete, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Update runs fn inside a transaction holding the row lock.  MySQL may
// pick the transaction as a deadlock victim when two writers race to
// create the same key; those attempts are rolled back and retried.
func (s *SQLStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for i := 0; i < maxUpdateRetries; i++ {
		err := s.update(ctx, key, fn)
		if isDeadlock(err) {
			continue
		}
		return err
	}
	return ErrConflict
}

// MySQL error numbers for a deadlock victim and a lock wait timeout.
const (
	errDeadlock        = 1213
	errLockWaitTimeout = 1205
)

func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == errDeadlock || me.Number == errLockWaitTimeout
}

func (s *SQLStore) update(ctx context.Context, key string, fn UpdateFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		cur []byte
		exp sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, s.dialect.SelectForUpdate, key).Scan(&cur, &exp)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		cur = nil
	case err != nil:
		return fmt.Errorf("select %s: %w", key, err)
	case s.expired(exp):
		cur = nil
	}

	next, err := fn(cur)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, s.dialect.Upsert, key, next, sql.NullInt64{}); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error { return s.db.Close() }
