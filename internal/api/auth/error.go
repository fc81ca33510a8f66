package auth

import (
	"FaceIDGolang/pkg/response"
	"net/http"
)

var (
	ErrUsernameAlreadyExists = response.NewError(http.StatusConflict, "username already exists")
	ErrUserNotFound          = response.NewError(http.StatusNotFound, "user not found")
	ErrNoFaceDetected        = response.NewError(http.StatusBadRequest, "no face detected in the image")
	ErrFaceNotRecognized     = response.NewError(http.StatusUnauthorized, "face is not registered or similarity too low")
	ErrInvalidRecoveryKey    = response.NewError(http.StatusUnauthorized, "invalid username or recovery key")
	ErrInvalidImagePayload   = response.NewError(http.StatusBadRequest, "invalid image payload")
)
