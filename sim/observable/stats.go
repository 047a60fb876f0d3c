package observable

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultDecorrelationStride is the sampling stride used for cumulants: one
// sample in ten is treated as independent.
const DefaultDecorrelationStride = 10

// ErrNoSamples is returned when a cumulant is requested over too few samples.
var ErrNoSamples = errors.New("observable: not enough samples")

// Stats summarises a sample stream.
type Stats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // population variance
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize returns the summary of samples; the zero Stats for none.
func Summarize(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	mean, variance := stat.PopMeanVariance(samples, nil)
	return Stats{
		Count:    len(samples),
		Mean:     mean,
		Variance: variance,
		Min:      floats.Min(samples),
		Max:      floats.Max(samples),
	}
}

// BinderCumulant returns U = 1 - <x^4> / (3 <x^2>^2) over every stride-th
// sample (the stride-th, 2*stride-th, ... values).
func BinderCumulant(samples []float64, stride int) (float64, error) {
	if stride < 1 {
		stride = 1
	}
	var x2, x4 []float64
	for i := stride - 1; i < len(samples); i += stride {
		sq := samples[i] * samples[i]
		x2 = append(x2, sq)
		x4 = append(x4, sq*sq)
	}
	if len(x2) == 0 {
		return math.NaN(), ErrNoSamples
	}
	second := stat.Mean(x2, nil)
	if second == 0 {
		return math.NaN(), errors.New("observable: second moment is zero")
	}
	fourth := stat.Mean(x4, nil)
	return 1 - fourth/(3*second*second), nil
}
