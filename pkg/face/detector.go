package face

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

const (
	detectorMinSize     = 60
	detectorShiftFactor = 0.1
	detectorScaleFactor = 1.1
	detectorIoU         = 0.2
	detectorMinQuality  = 5.0
)

// Detector locates faces in a frame using a pigo cascade classifier.
type Detector struct {
	classifier *pigo.Pigo
}

func NewDetectorFromFile(cascadePath string) (*Detector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cascade file %s: %w", cascadePath, err)
	}

	return NewDetector(cascade)
}

func NewDetector(cascade []byte) (*Detector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack cascade: %w", err)
	}

	return &Detector{classifier: classifier}, nil
}

// Detect returns the bounding rectangles of all detected faces, clamped to the
// image bounds.
func (d *Detector) Detect(img image.Image) []image.Rectangle {
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	maxSize := cols
	if rows < cols {
		maxSize = rows
	}

	params := pigo.CascadeParams{
		MinSize:     detectorMinSize,
		MaxSize:     maxSize,
		ShiftFactor: detectorShiftFactor,
		ScaleFactor: detectorScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, detectorIoU)

	var faces []image.Rectangle
	for _, det := range dets {
		if det.Q < detectorMinQuality {
			continue
		}

		half := det.Scale / 2
		rect := image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half)
		rect = rect.Intersect(img.Bounds())
		if rect.Empty() {
			continue
		}

		faces = append(faces, rect)
	}

	return faces
}

// LargestFace picks the face with the biggest area. The original system keys
// registration and login on the dominant face in the frame.
func LargestFace(faces []image.Rectangle) (image.Rectangle, bool) {
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}

	best := faces[0]
	for _, f := range faces[1:] {
		if f.Dx()*f.Dy() > best.Dx()*best.Dy() {
			best = f
		}
	}

	return best, true
}
