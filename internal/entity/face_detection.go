package entity

type PositionStatus string

const (
	NoFaceDetected  PositionStatus = "NO_FACE_DETECTED"
	PerfectPosition PositionStatus = "PERFECT_POSITION"
	AdjustPosition  PositionStatus = "ADJUST_POSITION"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type FaceBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DetectionResult struct {
	Status       PositionStatus     `json:"status"`
	Instructions []string           `json:"instructions,omitempty"`
	FacesFound   int                `json:"faces_found"`
	FacePosition *Position          `json:"face_position,omitempty"`
	FaceRatio    *float64           `json:"face_ratio,omitempty"`
	FrameCenter  Position           `json:"frame_center"`
	Deviations   map[string]float64 `json:"deviations,omitempty"`
	Boxes        []FaceBox          `json:"boxes,omitempty"`
}
