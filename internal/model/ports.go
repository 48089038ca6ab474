package model

import "context"

// ── Storage / transport ports ──
// These interfaces decouple the analysis pipeline from concrete backends
// (SQLite, Redis). Each implementation satisfies one or more of them.

// SeriesReader loads a stored bar series.
type SeriesReader interface {
	// ReadSeries returns the bars for symbol+timeframe in ascending order.
	ReadSeries(symbol, timeframe string) (Series, error)

	// Close releases underlying resources.
	Close() error
}

// SeriesWriter stores a bar series, replacing bars with equal timestamps.
type SeriesWriter interface {
	WriteSeries(s Series) error

	// Close releases underlying resources.
	Close() error
}

// RunPublisher ships a finished run to downstream consumers.
type RunPublisher interface {
	PublishRun(ctx context.Context, run *Run) error
}
