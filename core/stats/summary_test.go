package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]float64{1.5})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 1.5, s.Mean)
	assert.Zero(t, s.StdDev)
	assert.Equal(t, 1.5, s.Lower)
	assert.Equal(t, 1.5, s.Upper)
}

func TestSummarizeSample(t *testing.T) {
	s := Summarize([]float64{10, 11, 12, 13})
	sd := math.Sqrt(5.0 / 3.0)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 11.5, s.Mean, 1e-12)
	assert.InDelta(t, sd, s.StdDev, 1e-12)
	assert.InDelta(t, 1.96*sd, s.HalfWidth, 1e-12)
	assert.InDelta(t, 11.5-1.96*sd, s.Lower, 1e-12)
	assert.InDelta(t, 11.5+1.96*sd, s.Upper, 1e-12)
}

func TestSummarizeSmallMeanFloored(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	sd := math.Sqrt(5.0 / 3.0)
	assert.InDelta(t, 1.96*sd, s.HalfWidth, 1e-12)
	assert.Zero(t, s.Lower)
	assert.InDelta(t, 2.5+1.96*sd, s.Upper, 1e-12)
}

func TestSummarizeLowerFloored(t *testing.T) {
	sample := []float64{0, 0, 0, 4}
	s := Summarize(sample)
	assert.Zero(t, s.Lower)
	assert.Greater(t, s.Upper, s.Mean)
	assert.Equal(t, []float64{0, 0, 0, 4}, sample)
}
