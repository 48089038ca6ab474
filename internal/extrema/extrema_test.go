package extrema

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindExtrema_Basic(t *testing.T) {
	values := []float64{1, 3, 2, 1, 0, 1, 5, 1}
	highs, lows := FindExtrema(values, 1)

	assert.Equal(t, []Point{{Index: 1, Price: 3, Kind: SwingHigh}, {Index: 6, Price: 5, Kind: SwingHigh}}, highs)
	assert.Equal(t, []Point{{Index: 4, Price: 0, Kind: SwingLow}}, lows)
}

func TestFindExtrema_StrictComparison(t *testing.T) {
	// A plateau is not a swing high.
	highs, lows := FindExtrema([]float64{1, 2, 2, 1}, 1)
	assert.Empty(t, highs)
	assert.Empty(t, lows)
}

func TestFindExtrema_NoEdgeWindows(t *testing.T) {
	highs, _ := FindExtrema([]float64{0, 1, 2, 1, 0}, 2)
	assert.Equal(t, []Point{{Index: 2, Price: 2, Kind: SwingHigh}}, highs)

	highs, lows := FindExtrema([]float64{5, 1}, 1)
	assert.Empty(t, highs)
	assert.Empty(t, lows)
}

func TestFindExtrema_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	values := make([]float64, 400)
	price := 100.0
	for i := range values {
		price += r.NormFloat64()
		values[i] = price
	}

	prev := len(values)
	for w := 1; w <= 8; w++ {
		highs, lows := FindExtrema(values, w)

		seen := map[int]bool{}
		for _, p := range highs {
			seen[p.Index] = true
		}
		for _, p := range lows {
			assert.False(t, seen[p.Index], "window %d: position %d is both high and low", w, p.Index)
		}

		count := len(highs) + len(lows)
		assert.LessOrEqual(t, count, prev, "window %d increased extrema count", w)
		prev = count
	}
}

func TestMerge_OrdersByIndex(t *testing.T) {
	highs := []Point{{Index: 2, Kind: SwingHigh}, {Index: 8, Kind: SwingHigh}}
	lows := []Point{{Index: 5, Kind: SwingLow}, {Index: 8, Kind: SwingLow}}
	got := Merge(highs, lows)

	require.Len(t, got, 4)
	assert.Equal(t, []int{2, 5, 8, 8}, []int{got[0].Index, got[1].Index, got[2].Index, got[3].Index})
	assert.Equal(t, SwingHigh, got[2].Kind)
}
