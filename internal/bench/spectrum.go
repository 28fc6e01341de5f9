package bench

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/driftfield/internal/particle"
)

// Periodicity is the strongest cycle in a per-frame series.
type Periodicity struct {
	// Period is the cycle length in frames.
	Period float64
	// Strength is the share of the non-constant spectrum at that period, in (0, 1].
	Strength float64
}

// DominantPeriod finds the strongest cycle in series after removing its mean
// and applying a Hann window. It reports false for series shorter than four
// samples or with no variation.
func DominantPeriod(series []float64) (Periodicity, bool) {
	n := len(series)
	if n < 4 {
		return Periodicity{}, false
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}
	spectrum := fft.FFTReal(windowed)

	best, bestMag, total := 0, 0.0, 0.0
	for k := 1; k <= n/2; k++ {
		mag := cmplx.Abs(spectrum[k])
		total += mag
		if mag > bestMag {
			best, bestMag = k, mag
		}
	}
	if best == 0 || total < 1e-9 {
		return Periodicity{}, false
	}
	return Periodicity{Period: float64(n) / float64(best), Strength: bestMag / total}, true
}

// LinkSeries is the links-per-frame series of frames.
func LinkSeries(frames []particle.FrameStats) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(f.Links)
	}
	return out
}
