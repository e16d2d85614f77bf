// Package analysis provides tools for characterising an N-body run.
//
//   - [PowerSpectrum]: one-sided power spectrum of a sampled series
//   - [DominantPeriod]: period of the strongest non-zero frequency
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Orbital Period
//
// The distance of a body from the centre of mass oscillates once per orbit:
//
//	r, _ := result.RadialSeries(1)
//	period, _ := analysis.DominantPeriod(r, result.SampleInterval())
package analysis
