package face

import (
	"math"
	"testing"
)

func TestCompareIdenticalEncodings(t *testing.T) {
	enc := Encoding{
		Pixels:    []float64{0.1, 0.5, 0.9, 0.2},
		LBP:       []float64{0.25, 0.25, 0.5, 0.0},
		Gradients: []float64{0.4, 0.1, 0.3, 0.2},
	}

	m := NewMatcherWithThreshold(DefaultSimilarityThreshold)
	match, similarity := m.Compare(enc, enc)

	if !match {
		t.Error("identical encodings should match")
	}
	if math.Abs(similarity-1.0) > 1e-9 {
		t.Errorf("similarity = %f, want 1.0", similarity)
	}
}

func TestCompareEmptyEncodings(t *testing.T) {
	m := NewMatcherWithThreshold(DefaultSimilarityThreshold)
	match, similarity := m.Compare(Encoding{}, Encoding{})

	if match {
		t.Error("empty encodings should not match")
	}
	if similarity != 0.0 {
		t.Errorf("similarity = %f, want 0.0", similarity)
	}
}

func TestCompareSkipsConstantDescriptors(t *testing.T) {
	// Constant vectors have undefined correlation and must not drag the
	// score down; only the pixel descriptor contributes here.
	a := Encoding{
		Pixels:    []float64{0.1, 0.5, 0.9, 0.2},
		LBP:       []float64{0.25, 0.25, 0.25, 0.25},
		Gradients: []float64{0.25, 0.25, 0.25, 0.25},
	}
	b := Encoding{
		Pixels:    []float64{0.1, 0.5, 0.9, 0.2},
		LBP:       []float64{0.25, 0.25, 0.25, 0.25},
		Gradients: []float64{0.25, 0.25, 0.25, 0.25},
	}

	m := NewMatcherWithThreshold(DefaultSimilarityThreshold)
	match, similarity := m.Compare(a, b)

	if !match {
		t.Error("expected match from pixel descriptor alone")
	}
	if math.Abs(similarity-1.0) > 1e-9 {
		t.Errorf("similarity = %f, want 1.0", similarity)
	}
}

func TestCompareClampsNegativeCorrelation(t *testing.T) {
	a := Encoding{Pixels: []float64{0.0, 0.25, 0.5, 0.75, 1.0}}
	b := Encoding{Pixels: []float64{1.0, 0.75, 0.5, 0.25, 0.0}}

	m := NewMatcherWithThreshold(DefaultSimilarityThreshold)
	match, similarity := m.Compare(a, b)

	if match {
		t.Error("anti-correlated encodings should not match")
	}
	if similarity != 0.0 {
		t.Errorf("similarity = %f, want 0.0 after clamping", similarity)
	}
}

func TestCompareThresholdIsStrict(t *testing.T) {
	enc := Encoding{Pixels: []float64{0.1, 0.5, 0.9, 0.2}}

	// Identical encodings score exactly 1.0; with the threshold at 1.0 the
	// strict comparison must reject them.
	m := NewMatcherWithThreshold(1.0)
	match, _ := m.Compare(enc, enc)

	if match {
		t.Error("similarity equal to the threshold must not count as a match")
	}
}

func TestNewMatcherReadsThresholdFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected float64
	}{
		{"default", "", DefaultSimilarityThreshold},
		{"custom", "0.75", 0.75},
		{"invalid falls back", "not-a-number", DefaultSimilarityThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FACE_SIMILARITY_THRESHOLD", tt.envValue)
			m := NewMatcher()
			if m.Threshold() != tt.expected {
				t.Errorf("Threshold() = %f, want %f", m.Threshold(), tt.expected)
			}
		})
	}
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantNaN bool
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1.0, false},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1.0, false},
		{"constant input", []float64{1, 1, 1}, []float64{1, 2, 3}, 0, true},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0, true},
		{"empty", nil, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pearson(tt.a, tt.b)
			if tt.wantNaN {
				if !math.IsNaN(got) {
					t.Errorf("pearson() = %f, want NaN", got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("pearson() = %f, want %f", got, tt.want)
			}
		})
	}
}
