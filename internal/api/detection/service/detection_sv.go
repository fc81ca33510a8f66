package detectionService

import (
	"FaceIDGolang/internal/api/detection"
	"FaceIDGolang/internal/entity"
	"FaceIDGolang/pkg/face"
	"image"
	"math"
	"os"
	"runtime"

	"golang.org/x/net/context"
)

const (
	// Tolerated horizontal/vertical offset of the face center from the frame
	// center, as a fraction of the frame dimension.
	centerTolerance = 0.15

	// Acceptable face width relative to frame width. Below means too far
	// from the camera, above means too close.
	minFaceRatio = 0.25
	maxFaceRatio = 0.60
)

func (s *detectionService) ProcessFrame(frame []byte) (*entity.DetectionResult, error) {
	img, err := s.utils.DecodeImage(frame)
	if err != nil {
		return nil, detection.ErrInvalidFramePayload
	}

	return s.analyze(img), nil
}

func (s *detectionService) ProcessFrameBase64(payload string) (*entity.DetectionResult, error) {
	data, err := s.utils.DecodeDataURL(payload)
	if err != nil {
		return nil, detection.ErrInvalidFramePayload
	}

	return s.ProcessFrame(data)
}

// analyze turns detector output into positioning guidance for the capture UI.
func (s *detectionService) analyze(img image.Image) *entity.DetectionResult {
	bounds := img.Bounds()
	frameCenter := entity.Position{
		X: bounds.Dx() / 2,
		Y: bounds.Dy() / 2,
	}

	faces := s.faceEngine.Detect(img)
	if len(faces) == 0 {
		return &entity.DetectionResult{
			Status:       entity.NoFaceDetected,
			Instructions: []string{"position your face inside the frame"},
			FacesFound:   0,
			FrameCenter:  frameCenter,
		}
	}

	primary, _ := face.LargestFace(faces)
	facePosition := entity.Position{
		X: primary.Min.X + primary.Dx()/2,
		Y: primary.Min.Y + primary.Dy()/2,
	}

	dx := float64(facePosition.X-frameCenter.X) / float64(bounds.Dx())
	dy := float64(facePosition.Y-frameCenter.Y) / float64(bounds.Dy())
	ratio := float64(primary.Dx()) / float64(bounds.Dx())

	var instructions []string
	if dx > centerTolerance {
		instructions = append(instructions, "move left")
	} else if dx < -centerTolerance {
		instructions = append(instructions, "move right")
	}
	if dy > centerTolerance {
		instructions = append(instructions, "move up")
	} else if dy < -centerTolerance {
		instructions = append(instructions, "move down")
	}
	if ratio < minFaceRatio {
		instructions = append(instructions, "move closer")
	} else if ratio > maxFaceRatio {
		instructions = append(instructions, "move farther away")
	}

	status := entity.PerfectPosition
	if len(instructions) > 0 {
		status = entity.AdjustPosition
	}

	boxes := make([]entity.FaceBox, 0, len(faces))
	for _, f := range faces {
		boxes = append(boxes, entity.FaceBox{
			X:      f.Min.X,
			Y:      f.Min.Y,
			Width:  f.Dx(),
			Height: f.Dy(),
		})
	}

	return &entity.DetectionResult{
		Status:       status,
		Instructions: instructions,
		FacesFound:   len(faces),
		FacePosition: &facePosition,
		FaceRatio:    &ratio,
		FrameCenter:  frameCenter,
		Deviations: map[string]float64{
			"horizontal": math.Abs(dx),
			"vertical":   math.Abs(dy),
		},
		Boxes: boxes,
	}
}

func (s *detectionService) SystemInfo(ctx context.Context) detection.SystemInfoResponse {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "5000"
	}

	return detection.SystemInfoResponse{
		ServerIP:   s.utils.LocalIP(),
		Port:       port,
		Platform:   runtime.GOOS,
		GoVersion:  runtime.Version(),
		KnownFaces: s.faceStore.Count(),
		Threshold:  s.faceEngine.Threshold(),
	}
}
