package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"PivotDesk/internal/model"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLiteStore caches bars in a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
	mu sync.Mutex
}

type barRow struct {
	Day    int64   `db:"day"`
	Open   float64 `db:"open"`
	High   float64 `db:"high"`
	Low    float64 `db:"low"`
	Close  float64 `db:"close"`
	Volume float64 `db:"volume"`
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the bot read while the refresh job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite bar cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bar_sets (
			symbol     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bar_sets_fetched ON bar_sets(fetched_at)`,

		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT    NOT NULL,
			day    INTEGER NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, day)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Load(ctx context.Context, symbol string) ([]model.OHLCV, time.Time, error) {
	var fetched int64
	err := s.db.GetContext(ctx, &fetched, `SELECT fetched_at FROM bar_sets WHERE symbol = ?`, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load bar set %s: %w", symbol, err)
	}

	var rows []barRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT day, open, high, low, close, volume FROM daily_bars WHERE symbol = ? ORDER BY day`, symbol); err != nil {
		return nil, time.Time{}, fmt.Errorf("load bars %s: %w", symbol, err)
	}
	bars := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		bars[i] = model.OHLCV{
			Time:   time.Unix(r.Day, 0).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return bars, time.Unix(fetched, 0).UTC(), nil
}

func (s *SQLiteStore) Save(ctx context.Context, symbol string, bars []model.OHLCV, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("clear bars %s: %w", symbol, err)
	}
	stmt, err := tx.PreparexContext(ctx, `INSERT INTO daily_bars
		(symbol, day, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, model.Day(b.Time).Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s %s: %w", symbol, b.Time.Format("2006-01-02"), err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO bar_sets (symbol, fetched_at) VALUES (?, ?)
		ON CONFLICT(symbol) DO UPDATE SET fetched_at = excluded.fetched_at`, symbol, fetchedAt.Unix()); err != nil {
		return fmt.Errorf("upsert bar set %s: %w", symbol, err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cutoff := before.Unix()
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_bars WHERE symbol IN
		(SELECT symbol FROM bar_sets WHERE fetched_at < ?)`, cutoff); err != nil {
		return 0, fmt.Errorf("prune bars: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bar_sets WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune bar sets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite bar cache")
	return s.db.Close()
}
