package face

// Encoding is the stored descriptor of a registered face. Pixels holds the
// normalized 200x200 equalized grayscale crop, LBP and Gradients hold 256-bin
// L1-normalized histograms.
type Encoding struct {
	Pixels    []float64 `json:"pixels"`
	LBP       []float64 `json:"lbp"`
	Gradients []float64 `json:"gradients"`
}

func (e Encoding) IsZero() bool {
	return len(e.Pixels) == 0 && len(e.LBP) == 0 && len(e.Gradients) == 0
}

// Vector flattens the encoding into a single float32 vector for the
// nearest-neighbor shortlist index.
func (e Encoding) Vector() []float32 {
	out := make([]float32, 0, len(e.Pixels)+len(e.LBP)+len(e.Gradients))
	for _, v := range e.Pixels {
		out = append(out, float32(v))
	}
	for _, v := range e.LBP {
		out = append(out, float32(v))
	}
	for _, v := range e.Gradients {
		out = append(out, float32(v))
	}
	return out
}
