package face

import (
	"image"
	"os"
)

const defaultCascadePath = "./cascade/facefinder"

// IEngine bundles detection, feature extraction and matching behind one
// interface so services can be exercised without a cascade asset.
type IEngine interface {
	Detect(img image.Image) []image.Rectangle
	Extract(img image.Image, region image.Rectangle) Encoding
	Compare(a, b Encoding) (bool, float64)
	Threshold() float64
}

type engine struct {
	detector *Detector
	matcher  *Matcher
}

func NewEngine() (IEngine, error) {
	cascadePath := os.Getenv("FACE_CASCADE_PATH")
	if cascadePath == "" {
		cascadePath = defaultCascadePath
	}

	detector, err := NewDetectorFromFile(cascadePath)
	if err != nil {
		return nil, err
	}

	return &engine{
		detector: detector,
		matcher:  NewMatcher(),
	}, nil
}

func (e *engine) Detect(img image.Image) []image.Rectangle {
	return e.detector.Detect(img)
}

func (e *engine) Extract(img image.Image, region image.Rectangle) Encoding {
	return ExtractFeatures(img, region)
}

func (e *engine) Compare(a, b Encoding) (bool, float64) {
	return e.matcher.Compare(a, b)
}

func (e *engine) Threshold() float64 {
	return e.matcher.Threshold()
}
