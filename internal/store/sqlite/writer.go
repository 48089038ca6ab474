package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/bars.db"
}

// Writer imports bar series into SQLite.
type Writer struct {
	db *sql.DB
}

var _ model.SeriesWriter = (*Writer)(nil)

// DB returns the underlying sql.DB for health checks.
func (w *Writer) DB() *sql.DB { return w.db }

// New creates a new SQLite Writer, initializes the database with WAL mode and schema.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Writer{db: db}, nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol     TEXT    NOT NULL,
			timeframe  TEXT    NOT NULL,
			ts         INTEGER NOT NULL,
			open       REAL    NOT NULL,
			high       REAL    NOT NULL,
			low        REAL    NOT NULL,
			close      REAL    NOT NULL,
			volume     REAL    NOT NULL,
			PRIMARY KEY (symbol, timeframe, ts)
		);

		CREATE TABLE IF NOT EXISTS series_meta (
			symbol     TEXT    NOT NULL,
			timeframe  TEXT    NOT NULL,
			fields     INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, timeframe)
		);
	`)
	return err
}

// WriteSeries stores every bar of s in a single transaction. Bars with an
// existing (symbol, timeframe, ts) are replaced, and the series' field set
// replaces the stored one.
func (w *Writer) WriteSeries(s model.Series) error {
	start := time.Now()
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bars (symbol, timeframe, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		if _, err := stmt.Exec(s.Symbol, s.Timeframe, b.TS.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite insert bar %d: %w", i, err)
		}
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO series_meta (symbol, timeframe, fields, updated_at)
		VALUES (?, ?, ?, ?)
	`, s.Symbol, s.Timeframe, int(s.Fields), time.Now().Unix())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite upsert meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	log.Printf("[sqlite] committed %d bars for %s/%s in %v", s.Len(), s.Symbol, s.Timeframe, time.Since(start))
	return nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
