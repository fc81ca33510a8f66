package detection

type FrameRequest struct {
	Image string `json:"image" validate:"required"`
}

type SystemInfoResponse struct {
	ServerIP   string  `json:"server_ip"`
	Port       string  `json:"port"`
	Platform   string  `json:"platform"`
	GoVersion  string  `json:"go_version"`
	KnownFaces int     `json:"known_faces"`
	Threshold  float64 `json:"threshold"`
}
