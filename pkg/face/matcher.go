package face

import (
	"math"
	"os"
	"strconv"
)

const DefaultSimilarityThreshold = 0.35

// Matcher scores two encodings by correlation similarity.
type Matcher struct {
	threshold float64
}

func NewMatcher() *Matcher {
	threshold := DefaultSimilarityThreshold
	if raw := os.Getenv("FACE_SIMILARITY_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = parsed
		}
	}

	return NewMatcherWithThreshold(threshold)
}

func NewMatcherWithThreshold(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Compare returns whether the two encodings match and the final similarity
// score. Each descriptor pair contributes its Pearson correlation, clamped at
// zero; undefined correlations are skipped. The final score is the mean of
// the present contributions, 0.0 when none survive.
func (m *Matcher) Compare(a, b Encoding) (bool, float64) {
	var contributions []float64

	for _, pair := range [][2][]float64{
		{a.Pixels, b.Pixels},
		{a.LBP, b.LBP},
		{a.Gradients, b.Gradients},
	} {
		r := pearson(pair[0], pair[1])
		if math.IsNaN(r) {
			continue
		}
		contributions = append(contributions, math.Max(0, r))
	}

	if len(contributions) == 0 {
		return false, 0.0
	}

	var sum float64
	for _, c := range contributions {
		sum += c
	}
	similarity := sum / float64(len(contributions))

	return similarity > m.threshold, similarity
}

// pearson computes the Pearson correlation coefficient. It returns NaN for
// mismatched or constant inputs, mirroring how an undefined correlation is
// excluded from the final score.
func pearson(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}

	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return math.NaN()
	}

	return cov / math.Sqrt(varA*varB)
}
