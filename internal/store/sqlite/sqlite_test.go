package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-signals/internal/model"
)

func testSeries(t *testing.T, symbol string, closes []float64, fields model.Field) model.Series {
	t.Helper()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{TS: start.Add(time.Duration(i) * time.Hour), Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 10 * c}
	}
	s, err := model.NewSeries(symbol, "H1", bars, fields)
	require.NoError(t, err)
	return s
}

func TestWriteThenReadSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.db")
	w, err := New(WriterConfig{DBPath: path})
	require.NoError(t, err)
	defer w.Close()

	in := testSeries(t, "EURUSD", []float64{1, 2, 3, 4}, model.AllFields)
	require.NoError(t, w.WriteSeries(in))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	out, err := r.ReadSeries("EURUSD", "H1")
	require.NoError(t, err)
	assert.Equal(t, in.Bars(), out.Bars())
	assert.Equal(t, model.AllFields, out.Fields)
}

func TestWriteSeries_ReplacesExistingBars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.db")
	w, err := New(WriterConfig{DBPath: path})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.WriteSeries(testSeries(t, "X", []float64{1, 2, 3}, model.AllFields)))
	require.NoError(t, w.WriteSeries(testSeries(t, "X", []float64{5, 6}, model.FieldClose)))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	out, err := r.ReadSeries("X", "H1")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 3}, out.Closes())
	assert.Equal(t, model.FieldClose, out.Fields)

	infos, err := r.ListSeries()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 3, infos[0].Bars)
	assert.Equal(t, out.First(), infos[0].First)
	assert.Equal(t, out.Last(), infos[0].Last)
}

func TestReadSeries_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.db")
	w, err := New(WriterConfig{DBPath: path})
	require.NoError(t, err)
	defer w.Close()

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadSeries("NOPE", "D1")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}
