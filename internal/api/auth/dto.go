package auth

import (
	"FaceIDGolang/internal/entity"
	"time"
)

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Image    string `json:"image" validate:"required"`
}

type RegisterUserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FacePhotoURL string `json:"face_photo_url,omitempty"`
	RecoveryKey  string `json:"recovery_key"`
}

type FaceLoginRequest struct {
	Image string `json:"image" validate:"required"`
}

type RecoveryLoginRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	RecoveryKey string `json:"recovery_key" validate:"required"`
}

type LoginUserResponse struct {
	AccessToken      string  `json:"access_token"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
	Username         string  `json:"username"`
	Confidence       float64 `json:"confidence,omitempty"`
}

type UpdateFaceRequest struct {
	Image string `json:"image" validate:"required"`
}

type UpdateFaceResponse struct {
	FacePhotoURL string `json:"face_photo_url,omitempty"`
}

type RotateRecoveryKeyResponse struct {
	RecoveryKey string `json:"recovery_key"`
}

type TestMatchRequest struct {
	Image string `json:"image" validate:"required"`
}

type MatchCandidate struct {
	Username   string  `json:"username"`
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
	IsMatch    bool    `json:"is_match"`
	Threshold  float64 `json:"threshold"`
}

type TestMatchResponse struct {
	FacesDetected   int              `json:"faces_detected"`
	FaceCoordinates []entity.FaceBox `json:"face_coordinates"`
	Matches         []MatchCandidate `json:"matches"`
	Message         string           `json:"message,omitempty"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FacePhotoURL string    `json:"face_photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisteredFaceInfo struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	EncodingFile string    `json:"encoding_file"`
	Exists       bool      `json:"exists"`
	CapturedAt   time.Time `json:"captured_at"`
}

type RegisteredFacesResponse struct {
	RegisteredFaces []RegisteredFaceInfo `json:"registered_faces"`
}
