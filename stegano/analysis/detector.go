package analysis
import (
	"math"
)

/*
 * statistical steganalysis heuristics. these only look at raw carrier
 * samples and guess whether something is hidden in them, they know
 * nothing about the container format and never try to parse it.
 */

const (
	// a clean natural carrier rarely scores above this
	suspicionThreshold = 0.5

	// chi-square over 128 pairs of values; values under this are what
	// uniformly flattened lsb histograms produce
	chiSquareFlat = 150.0
)

// Report carries the scores for one carrier.
type Report struct {
	SampleCount	int	`json:"sample_count"`
	LSBEntropy	float64	`json:"lsb_entropy"`
	ChiSquare	float64	`json:"chi_square"`
	Autocorr	float64	`json:"autocorrelation"`
	Suspicion	float64	`json:"suspicion"`
	Suspicious	bool	`json:"suspicious"`
}

func Analyze( samples []byte ) *Report {
	r := &Report{ SampleCount: len(samples) }
	if len(samples) < 2 {
		return r
	}

	bits := lsbPlane( samples )
	r.LSBEntropy = bitEntropy( bits )
	r.ChiSquare = chiSquarePairs( samples )
	r.Autocorr = lagOneAutocorr( bits )
	r.Suspicion = suspicion( r )
	r.Suspicious = r.Suspicion > suspicionThreshold
	return r
}

func lsbPlane( samples []byte ) []uint8 {
	bits := make( []uint8, len(samples) )
	for i, s := range samples {
		bits[i] = s & 0x1
	}
	return bits
}

// shannon entropy of the lsb plane, in [0, 1]. embedded data, packed or
// encrypted, drives this towards 1.
func bitEntropy( bits []uint8 ) float64 {
	ones := 0
	for _, b := range bits {
		ones += int(b)
	}
	p := float64(ones) / float64(len(bits))
	if p == 0.0 || p == 1.0 {
		return 0.0
	}
	return -p * math.Log2( p ) - (1.0 - p) * math.Log2( 1.0 - p )
}

// the classic pairs-of-values test: lsb embedding evens out the counts
// of each (2k, 2k+1) pair, so a *low* statistic is the suspicious case.
func chiSquarePairs( samples []byte ) float64 {
	var hist [256]float64
	for _, s := range samples {
		hist[s]++
	}
	chi := 0.0
	for k := 0; k < 128; k++ {
		even := hist[ 2 * k ]
		odd := hist[ 2 * k + 1 ]
		expected := (even + odd) / 2.0
		if expected > 0.0 {
			chi += (even - expected) * (even - expected) / expected
		}
	}
	return chi
}

// lag-1 autocorrelation of the lsb sequence. natural signals keep some
// sample to sample correlation, random payload bits destroy it.
func lagOneAutocorr( bits []uint8 ) float64 {
	n := len(bits)
	mean := 0.0
	for _, b := range bits {
		mean += float64(b)
	}
	mean /= float64(n)

	num := 0.0
	den := 0.0
	for i := 0; i < n; i++ {
		d := float64(bits[i]) - mean
		den += d * d
		if i > 0 {
			num += d * (float64(bits[i-1]) - mean)
		}
	}
	if den == 0.0 {
		return 1.0	// a constant sequence is perfectly predictable
	}
	return num / den
}

func suspicion( r *Report ) float64 {
	score := 0.0
	if r.LSBEntropy > 0.95 {
		score += 0.4
	}
	if r.ChiSquare < chiSquareFlat {
		score += 0.3
	}
	if math.Abs( r.Autocorr ) < 0.05 {
		score += 0.3
	}
	return score
}
