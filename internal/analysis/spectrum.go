package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k|² for k = 0..n/2 of the mean-removed series,
// zero padded to the next power of two n.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	n := nextPow2(len(series))
	padded := make([]float64, n)

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2+1)
	for i := range ps {
		a := cmplx.Abs(spectrum[i])
		ps[i] = a * a
	}
	return ps
}

// DominantPeriod returns the period of the strongest frequency above zero
// in a series sampled every sampleDt.
func DominantPeriod(series []float64, sampleDt float64) (float64, error) {
	if len(series) < 4 || sampleDt <= 0 {
		return 0, ErrShortSeries
	}
	ps := PowerSpectrum(series)
	n := nextPow2(len(series))

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: flat series has no period")
	}
	return float64(n) * sampleDt / float64(peak), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
