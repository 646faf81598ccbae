package numeric

import (
	"math"
	"sort"
)

// Quantile computes the p-quantile of data by linear interpolation between
// order statistics at rank p*(n-1) (the numpy/pandas default). The method is
// fixed here so quartiles are reproducible bit-for-bit everywhere the engine
// reports them.
func Quantile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return data[0]
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Skewness computes the adjusted Fisher-Pearson skewness coefficient.
// Returns 0 for fewer than three values or zero spread.
func Skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}
	return (sumCubed / n) * math.Sqrt(n*(n-1)) / (n - 2)
}

// EuclideanSq computes the squared Euclidean distance between equal-length points
func EuclideanSq(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
