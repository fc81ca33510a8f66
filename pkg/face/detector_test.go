package face

import (
	"image"
	"os"
	"testing"
)

func TestNewDetectorFromFileMissingCascade(t *testing.T) {
	if _, err := NewDetectorFromFile("testdata/does-not-exist"); err == nil {
		t.Error("expected error for missing cascade file")
	}
}

func TestNewDetectorInvalidCascade(t *testing.T) {
	if _, err := NewDetector([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("expected error for truncated cascade data")
	}
}

// Detection itself needs the binary cascade asset, which is not committed.
// Point FACE_CASCADE_PATH at a facefinder cascade to run this test.
func TestDetectWithCascade(t *testing.T) {
	cascadePath := os.Getenv("FACE_CASCADE_PATH")
	if cascadePath == "" {
		t.Skip("FACE_CASCADE_PATH not set")
	}

	detector, err := NewDetectorFromFile(cascadePath)
	if err != nil {
		t.Fatalf("NewDetectorFromFile() error = %v", err)
	}

	// A blank frame must produce no detections.
	blank := image.NewGray(image.Rect(0, 0, 320, 240))
	if faces := detector.Detect(blank); len(faces) != 0 {
		t.Errorf("Detect(blank) = %d faces, want 0", len(faces))
	}
}

func TestLargestFace(t *testing.T) {
	tests := []struct {
		name  string
		faces []image.Rectangle
		want  image.Rectangle
		found bool
	}{
		{
			name:  "empty",
			faces: nil,
			found: false,
		},
		{
			name:  "single",
			faces: []image.Rectangle{image.Rect(0, 0, 50, 50)},
			want:  image.Rect(0, 0, 50, 50),
			found: true,
		},
		{
			name: "picks biggest area",
			faces: []image.Rectangle{
				image.Rect(0, 0, 40, 40),
				image.Rect(10, 10, 110, 110),
				image.Rect(0, 0, 60, 60),
			},
			want:  image.Rect(10, 10, 110, 110),
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := LargestFace(tt.faces)
			if found != tt.found {
				t.Fatalf("LargestFace() found = %v, want %v", found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("LargestFace() = %v, want %v", got, tt.want)
			}
		})
	}
}
