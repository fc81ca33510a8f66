package authService

import (
	"FaceIDGolang/internal/api/auth"
	"FaceIDGolang/internal/entity"
	"FaceIDGolang/pkg/utils"
	"image"
)

func MakeUserData(user entity.User, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"sid":      sessionID,
	}
}

func decodeImagePayload(u utils.IUtils, payload string) (image.Image, error) {
	data, err := u.DecodeDataURL(payload)
	if err != nil {
		return nil, auth.ErrInvalidImagePayload
	}

	img, err := u.DecodeImage(data)
	if err != nil {
		return nil, auth.ErrInvalidImagePayload
	}

	return img, nil
}

func makeFaceBoxes(faces []image.Rectangle) []entity.FaceBox {
	boxes := make([]entity.FaceBox, 0, len(faces))
	for _, f := range faces {
		boxes = append(boxes, entity.FaceBox{
			X:      f.Min.X,
			Y:      f.Min.Y,
			Width:  f.Dx(),
			Height: f.Dy(),
		})
	}
	return boxes
}
