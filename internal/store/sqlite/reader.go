package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"trading-signals/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// ErrSeriesNotFound is returned when no series is stored for a key.
var ErrSeriesNotFound = errors.New("series not found")

// Reader provides read-only access to stored bar series.
type Reader struct {
	db *sql.DB
}

var _ model.SeriesReader = (*Reader)(nil)

// DB returns the underlying connection for health checks.
func (r *Reader) DB() *sql.DB { return r.db }

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[sqlite-reader] opened %s", dbPath)
	return &Reader{db: db}, nil
}

// ReadSeries returns the stored bars for symbol+timeframe ordered by
// timestamp ascending.
func (r *Reader) ReadSeries(symbol, timeframe string) (model.Series, error) {
	var fields int
	err := r.db.QueryRow(
		`SELECT fields FROM series_meta WHERE symbol = ? AND timeframe = ?`,
		symbol, timeframe,
	).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Series{}, fmt.Errorf("%w: %s/%s", ErrSeriesNotFound, symbol, timeframe)
	}
	if err != nil {
		return model.Series{}, fmt.Errorf("sqlite query series_meta: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND timeframe = ?
		ORDER BY ts ASC
	`, symbol, timeframe)
	if err != nil {
		return model.Series{}, fmt.Errorf("sqlite query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var tsUnix int64
		if err := rows.Scan(&tsUnix, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return model.Series{}, fmt.Errorf("sqlite scan bars: %w", err)
		}
		b.TS = time.Unix(tsUnix, 0).UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return model.Series{}, fmt.Errorf("sqlite iterate bars: %w", err)
	}
	return model.NewSeries(symbol, timeframe, bars, model.Field(fields))
}

// SeriesInfo summarises one stored series.
type SeriesInfo struct {
	Symbol    string      `json:"symbol"`
	Timeframe string      `json:"timeframe"`
	Fields    model.Field `json:"fields"`
	Bars      int         `json:"bars"`
	First     time.Time   `json:"first"`
	Last      time.Time   `json:"last"`
}

// ListSeries returns every stored series ordered by symbol and timeframe.
func (r *Reader) ListSeries() ([]SeriesInfo, error) {
	rows, err := r.db.Query(`
		SELECT m.symbol, m.timeframe, m.fields, COUNT(b.ts), COALESCE(MIN(b.ts), 0), COALESCE(MAX(b.ts), 0)
		FROM series_meta m
		LEFT JOIN bars b ON b.symbol = m.symbol AND b.timeframe = m.timeframe
		GROUP BY m.symbol, m.timeframe
		ORDER BY m.symbol, m.timeframe
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite list series: %w", err)
	}
	defer rows.Close()

	var out []SeriesInfo
	for rows.Next() {
		var info SeriesInfo
		var fields int
		var first, last int64
		if err := rows.Scan(&info.Symbol, &info.Timeframe, &fields, &info.Bars, &first, &last); err != nil {
			return nil, fmt.Errorf("sqlite scan series: %w", err)
		}
		info.Fields = model.Field(fields)
		info.First = time.Unix(first, 0).UTC()
		info.Last = time.Unix(last, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}
