package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Stats
	}{
		{
			name:   "empty",
			values: nil,
			want:   Stats{},
		},
		{
			name:   "single value",
			values: []float64{10},
			want:   Stats{Count: 1, Mean: 10, Median: 10, Min: 10, Max: 10},
		},
		{
			name:   "odd sample",
			values: []float64{11, 9, 10},
			want:   Stats{Count: 3, Mean: 10, Median: 10, Min: 9, Max: 11, Std: 1},
		},
		{
			name:   "even sample midpoint median",
			values: []float64{120, 100},
			want:   Stats{Count: 2, Mean: 110, Median: 110, Min: 100, Max: 120, Std: math.Sqrt(200)},
		},
		{
			name:   "even sample unsorted input",
			values: []float64{4, 1, 3, 2},
			want:   Stats{Count: 4, Mean: 2.5, Median: 2.5, Min: 1, Max: 4, Std: math.Sqrt(5.0 / 3.0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.values)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.Median, got.Median, 1e-9)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tt.want.Std, got.Std, 1e-9)
		})
	}
}

func TestDescribeDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 10.0, Median([]float64{9, 10, 11}), 1e-9)
	assert.InDelta(t, 110.0, Median([]float64{100, 120}), 1e-9)
	assert.Zero(t, Median(nil))
}
