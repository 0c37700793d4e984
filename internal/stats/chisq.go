// Package stats provides goodness-of-fit helpers for checking generated values.
package stats

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance level uniformity tests are run at.
const Alpha = 0.001

// UniformityResult is the outcome of a chi-squared uniformity test.
type UniformityResult struct {
	Buckets   int     `json:"buckets"`
	Samples   int     `json:"samples"`
	Statistic float64 `json:"statistic"`
	Critical  float64 `json:"critical"`
	Uniform   bool    `json:"uniform"`
}

// ChiSquared returns the chi-squared statistic of counts against an equal
// expected frequency per bucket.
func ChiSquared(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 || len(counts) == 0 {
		return 0
	}

	expected := float64(total) / float64(len(counts))
	obs := make([]float64, len(counts))
	exp := make([]float64, len(counts))
	for i, c := range counts {
		obs[i] = float64(c)
		exp[i] = expected
	}
	return stat.ChiSquare(obs, exp)
}

// CriticalValue returns the chi-squared critical value for df degrees of
// freedom at the Alpha level.
func CriticalValue(df int) float64 {
	if df < 1 {
		return 0
	}
	return distuv.ChiSquared{K: float64(df)}.Quantile(1 - Alpha)
}

// Bucket counts samples in [0,1) into n equal-width buckets. Values outside the
// range are ignored.
func Bucket(samples []float64, n int) []int {
	counts := make([]int, n)
	if n == 0 {
		return counts
	}
	for _, v := range samples {
		if v < 0 || v >= 1 {
			continue
		}
		idx := int(v * float64(n))
		if idx >= n {
			idx = n - 1
		}
		counts[idx]++
	}
	return counts
}

// Uniformity tests whether samples are uniformly distributed over [0,1).
func Uniformity(samples []float64, buckets int) UniformityResult {
	counts := Bucket(samples, buckets)
	stat := ChiSquared(counts)
	crit := CriticalValue(buckets - 1)

	return UniformityResult{
		Buckets:   buckets,
		Samples:   len(samples),
		Statistic: stat,
		Critical:  crit,
		Uniform:   stat <= crit,
	}
}
