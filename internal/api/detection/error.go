package detection

import (
	"FaceIDGolang/pkg/response"
	"net/http"
)

var (
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, "internal server error")
	ErrInvalidFramePayload = response.NewError(http.StatusBadRequest, "invalid frame payload")
)
