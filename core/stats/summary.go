// Package stats summarizes samples of per-trial ratios.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Z95 is the two-sided 95% normal quantile.
const Z95 = 1.96

// Summary describes a sample with a normal-approximation 95% interval.
type Summary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	HalfWidth float64 `json:"half_width"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
}

// Summarize computes mean, sample standard deviation and mean ± 1.96·stddev.
// The lower bound is floored at zero since ratios cannot be negative; the
// sample itself is left untouched. Samples with fewer than two values have a
// zero standard deviation, and an empty sample yields the zero Summary.
func Summarize(sample []float64) Summary {
	n := len(sample)
	if n == 0 {
		return Summary{}
	}
	var mean, sd float64
	if n == 1 {
		mean = sample[0]
	} else {
		mean, sd = stat.MeanStdDev(sample, nil)
	}
	half := Z95 * sd
	return Summary{
		Count:     n,
		Mean:      mean,
		StdDev:    sd,
		HalfWidth: half,
		Lower:     math.Max(0, mean-half),
		Upper:     mean + half,
	}
}
