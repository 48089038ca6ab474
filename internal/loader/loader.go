// Package loader reads OHLCV bar series from CSV files.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"trading-signals/internal/model"
)

// ErrNoTimestamp is returned when no date/time column can be identified.
var ErrNoTimestamp = errors.New("no timestamp column")

// Unknown is used when the symbol or timeframe cannot be read from the name.
const Unknown = "UNKNOWN"

var (
	symbolRe    = regexp.MustCompile(`[A-Z]+/[A-Z]+|[A-Z]+`)
	timeframeRe = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(M15|M30|M1|M5|H1|H4|D1|W1|MN)(?:[^a-z0-9]|$)`)
)

// timeLayouts are tried in order for the timestamp column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// LoadCSV reads a bar series from path. Symbol and timeframe are taken from
// the file name, e.g. "EURUSD_H1.csv".
func LoadCSV(path string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// ParseName extracts symbol and timeframe from a file name.
func ParseName(name string) (symbol, timeframe string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	symbol, timeframe = Unknown, Unknown
	if m := timeframeRe.FindStringSubmatchIndex(base); m != nil {
		timeframe = strings.ToUpper(base[m[2]:m[3]])
		base = base[:m[2]] + base[m[3]:]
	}
	if m := symbolRe.FindString(base); m != "" {
		symbol = m
	}
	return symbol, timeframe
}

// columns maps bar fields to CSV column positions (-1 = absent).
type columns struct {
	date, clock                    int
	open, high, low, close, volume int
}

// matchColumns resolves headers case-insensitively. An exact name wins over
// a substring match, so "Close" is preferred to "Adj Close".
func matchColumns(header []string) columns {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	find := func(names ...string) int {
		for _, n := range names {
			for i, h := range norm {
				if h == n {
					return i
				}
			}
		}
		for _, n := range names {
			for i, h := range norm {
				if strings.Contains(h, n) {
					return i
				}
			}
		}
		return -1
	}

	c := columns{
		date:   find("date", "datetime", "timestamp", "time"),
		clock:  -1,
		open:   find("open"),
		high:   find("high"),
		low:    find("low"),
		close:  find("close"),
		volume: find("volume", "vol"),
	}
	// Split date and time columns, as in MetaTrader exports.
	if c.date >= 0 && norm[c.date] == "date" {
		for i, h := range norm {
			if h == "time" {
				c.clock = i
			}
		}
	}
	return c
}

// Parse reads CSV data with a header row. Columns are matched
// case-insensitively; absent OHLCV columns are left out of the series'
// field set. Rows are sorted ascending and duplicate timestamps rejected.
func Parse(r io.Reader, name string) (model.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Series{}, fmt.Errorf("%s: %w", name, model.ErrEmptySeries)
		}
		return model.Series{}, fmt.Errorf("%s: read header: %w", name, err)
	}
	cols := matchColumns(header)
	if cols.date < 0 {
		return model.Series{}, fmt.Errorf("%s: %w in %v", name, ErrNoTimestamp, header)
	}

	var fields model.Field
	for _, fc := range []struct {
		idx int
		f   model.Field
	}{
		{cols.open, model.FieldOpen},
		{cols.high, model.FieldHigh},
		{cols.low, model.FieldLow},
		{cols.close, model.FieldClose},
		{cols.volume, model.FieldVolume},
	} {
		if fc.idx >= 0 {
			fields |= fc.f
		}
	}

	var bars []model.Bar
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return model.Series{}, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		bar, err := parseRow(rec, cols)
		if err != nil {
			return model.Series{}, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		bars = append(bars, bar)
	}

	symbol, timeframe := ParseName(name)
	s, err := model.NewSeries(symbol, timeframe, bars, fields)
	if err != nil {
		return model.Series{}, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func parseRow(rec []string, cols columns) (model.Bar, error) {
	cell := func(i int) (string, error) {
		if i >= len(rec) {
			return "", fmt.Errorf("missing column %d", i+1)
		}
		return strings.TrimSpace(rec[i]), nil
	}

	raw, err := cell(cols.date)
	if err != nil {
		return model.Bar{}, err
	}
	if cols.clock >= 0 {
		clock, err := cell(cols.clock)
		if err != nil {
			return model.Bar{}, err
		}
		raw += " " + clock
	}
	ts, err := ParseTime(raw)
	if err != nil {
		return model.Bar{}, err
	}

	bar := model.Bar{TS: ts}
	for _, target := range []struct {
		idx int
		dst *float64
	}{
		{cols.open, &bar.Open},
		{cols.high, &bar.High},
		{cols.low, &bar.Low},
		{cols.close, &bar.Close},
		{cols.volume, &bar.Volume},
	} {
		if target.idx < 0 {
			continue
		}
		s, err := cell(target.idx)
		if err != nil {
			return model.Bar{}, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("column %d: %w", target.idx+1, err)
		}
		*target.dst = v
	}
	return bar, nil
}

// ParseTime parses a timestamp in one of the supported layouts, or as
// integer unix seconds. Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
