package detectionService

import (
	"FaceIDGolang/internal/api/detection"
	"FaceIDGolang/internal/entity"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	"FaceIDGolang/pkg/utils"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/jpeg"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakeEngine returns canned detections so position logic can be exercised
// without a cascade asset.
type fakeEngine struct {
	faces []image.Rectangle
}

func (f *fakeEngine) Detect(img image.Image) []image.Rectangle { return f.faces }
func (f *fakeEngine) Extract(img image.Image, region image.Rectangle) face.Encoding {
	return face.Encoding{}
}
func (f *fakeEngine) Compare(a, b face.Encoding) (bool, float64) { return false, 0 }
func (f *fakeEngine) Threshold() float64                         { return face.DefaultSimilarityThreshold }

func newTestService(t *testing.T, faces []image.Rectangle) IDetectionService {
	t.Helper()

	t.Setenv("FACE_STORAGE_DIR", t.TempDir())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := facestore.New(logger)
	if err != nil {
		t.Fatalf("facestore.New() error = %v", err)
	}

	return NewDetectionService(logger, &fakeEngine{faces: faces}, store, utils.New())
}

// frame encodes a blank 400x300 JPEG as a base64 payload.
func frame(t *testing.T) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 400, 300))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProcessFrameNoFace(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.ProcessFrameBase64(frame(t))
	if err != nil {
		t.Fatalf("ProcessFrameBase64() error = %v", err)
	}

	if result.Status != entity.NoFaceDetected {
		t.Errorf("Status = %q, want %q", result.Status, entity.NoFaceDetected)
	}
	if result.FacesFound != 0 {
		t.Errorf("FacesFound = %d, want 0", result.FacesFound)
	}
	if len(result.Instructions) == 0 {
		t.Error("expected guidance instructions when no face is present")
	}
}

func TestProcessFrameCenteredFace(t *testing.T) {
	// Face centered at (200,150) and 160px wide in a 400px frame: ratio 0.4.
	svc := newTestService(t, []image.Rectangle{image.Rect(120, 70, 280, 230)})

	result, err := svc.ProcessFrameBase64(frame(t))
	if err != nil {
		t.Fatalf("ProcessFrameBase64() error = %v", err)
	}

	if result.Status != entity.PerfectPosition {
		t.Errorf("Status = %q, want %q (instructions: %v)", result.Status, entity.PerfectPosition, result.Instructions)
	}
	if result.FacesFound != 1 {
		t.Errorf("FacesFound = %d, want 1", result.FacesFound)
	}
	if result.FacePosition == nil || result.FacePosition.X != 200 || result.FacePosition.Y != 150 {
		t.Errorf("FacePosition = %+v, want center (200,150)", result.FacePosition)
	}
}

func TestProcessFrameAdjustments(t *testing.T) {
	tests := []struct {
		name        string
		face        image.Rectangle
		instruction string
	}{
		{"face far right", image.Rect(280, 70, 400, 190), "move left"},
		{"face far left", image.Rect(0, 70, 120, 190), "move right"},
		{"face too low", image.Rect(140, 180, 260, 300), "move up"},
		{"face too high", image.Rect(140, 0, 260, 110), "move down"},
		{"face too small", image.Rect(180, 130, 220, 170), "move closer"},
		{"face too big", image.Rect(50, 20, 350, 280), "move farther away"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, []image.Rectangle{tt.face})

			result, err := svc.ProcessFrameBase64(frame(t))
			if err != nil {
				t.Fatalf("ProcessFrameBase64() error = %v", err)
			}

			if result.Status != entity.AdjustPosition {
				t.Fatalf("Status = %q, want %q", result.Status, entity.AdjustPosition)
			}

			found := false
			for _, ins := range result.Instructions {
				if ins == tt.instruction {
					found = true
				}
			}
			if !found {
				t.Errorf("Instructions = %v, want to contain %q", result.Instructions, tt.instruction)
			}
		})
	}
}

func TestProcessFrameInvalidPayload(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.ProcessFrame([]byte("not a jpeg")); !errors.Is(err, detection.ErrInvalidFramePayload) {
		t.Errorf("ProcessFrame() error = %v, want ErrInvalidFramePayload", err)
	}
	if _, err := svc.ProcessFrameBase64("%%%"); !errors.Is(err, detection.ErrInvalidFramePayload) {
		t.Errorf("ProcessFrameBase64() error = %v, want ErrInvalidFramePayload", err)
	}
}

func TestSystemInfo(t *testing.T) {
	t.Setenv("APP_PORT", "8123")
	svc := newTestService(t, nil)

	info := svc.SystemInfo(context.Background())

	if info.Port != "8123" {
		t.Errorf("Port = %q, want %q", info.Port, "8123")
	}
	if info.KnownFaces != 0 {
		t.Errorf("KnownFaces = %d, want 0", info.KnownFaces)
	}
	if info.Threshold != face.DefaultSimilarityThreshold {
		t.Errorf("Threshold = %f, want %f", info.Threshold, face.DefaultSimilarityThreshold)
	}
}
