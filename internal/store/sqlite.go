package store

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SignalRank/internal/model"
)

// SQLiteStore persists all tables to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_data (
			date    TEXT NOT NULL,
			symbol  TEXT NOT NULL,
			open    REAL,
			high    REAL,
			low     REAL,
			close   REAL,
			volume  REAL,
			PRIMARY KEY (date, symbol)
		)`,

		`CREATE TABLE IF NOT EXISTS technical_analysis_score (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol    TEXT NOT NULL,
			score     INTEGER NOT NULL,
			rank      INTEGER NOT NULL,
			analysis  TEXT NOT NULL,
			timestamp TEXT,
			UNIQUE(symbol, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_ts ON technical_analysis_score(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_results (
			timestamp         TEXT PRIMARY KEY,
			invested_symbols  TEXT,
			total_investment  REAL,
			total_earning     REAL,
			net_earning       REAL,
			return_rate       REAL,
			daily_net_earning REAL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveBars(bars []model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO stock_data
		(date, symbol, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(b.Date.Format(model.DateLayout), b.Symbol,
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar %s %s: %w", b.Symbol, b.Date.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) MaxBarDate(symbol string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max sql.NullString
	err := s.db.QueryRow(`SELECT MAX(date) FROM stock_data WHERE symbol = ?`, symbol).Scan(&max)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query max bar date: %w", err)
	}
	if !max.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(model.DateLayout, max.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse max bar date %q: %w", max.String, err)
	}
	return t, true, nil
}

func (s *SQLiteStore) BarsThrough(cutoff time.Time) ([]model.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date, symbol, open, high, low, close, volume
		FROM stock_data WHERE date <= ? ORDER BY symbol, date`,
		cutoff.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var date string
		if err := rows.Scan(&date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		if b.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", date, err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLiteStore) SaveScores(records []model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO technical_analysis_score
		(symbol, score, rank, analysis, timestamp)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Symbol, r.Score, r.Rank, r.Analysis,
			r.Timestamp.Format(model.DateLayout)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert score %s %s: %w", r.Symbol, r.Timestamp.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) MaxScoreDate() (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max sql.NullString
	err := s.db.QueryRow(`SELECT MAX(timestamp) FROM technical_analysis_score`).Scan(&max)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query max score date: %w", err)
	}
	if !max.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(model.DateLayout, max.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse max score date %q: %w", max.String, err)
	}
	return t, true, nil
}

func (s *SQLiteStore) TopRanked(date time.Time, limit int) ([]model.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, score, rank, analysis, timestamp
		FROM technical_analysis_score WHERE timestamp = ?
		ORDER BY rank, symbol LIMIT ?`,
		date.Format(model.DateLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("query top ranked: %w", err)
	}
	defer rows.Close()

	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]model.ScoreRecord, error) {
	var records []model.ScoreRecord
	for rows.Next() {
		var r model.ScoreRecord
		var ts string
		if err := rows.Scan(&r.Symbol, &r.Score, &r.Rank, &r.Analysis, &ts); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		t, err := time.Parse(model.DateLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse score timestamp %q: %w", ts, err)
		}
		r.Timestamp = t
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) MergedRows(start, end time.Time) ([]model.DayRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT d.date, d.symbol, d.close, t.score
		FROM stock_data d
		JOIN technical_analysis_score t
		  ON t.timestamp = d.date AND t.symbol = d.symbol
		WHERE t.timestamp >= ? AND t.timestamp <= ?
		ORDER BY d.date, d.symbol`,
		start.Format(model.DateLayout), end.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query merged rows: %w", err)
	}
	defer rows.Close()

	var out []model.DayRow
	for rows.Next() {
		var r model.DayRow
		var date string
		if err := rows.Scan(&date, &r.Symbol, &r.Close, &r.Score); err != nil {
			return nil, fmt.Errorf("scan merged row: %w", err)
		}
		if r.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse merged date %q: %w", date, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ReplaceBacktestResults(results []model.BacktestDayResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM backtest_results`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear backtest results: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO backtest_results
		(timestamp, invested_symbols, total_investment, total_earning,
		 net_earning, return_rate, daily_net_earning)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(r.Date.Format(model.DateLayout),
			strings.Join(r.InvestedSymbols, ","),
			r.TotalInvestment, r.TotalEarning, r.NetEarning,
			r.ReturnRate, r.DailyNetEarning); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert backtest row %s: %w", r.Date.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
