package authService

import (
	"FaceIDGolang/internal/api/auth"
	"FaceIDGolang/internal/entity"
	contextPkg "FaceIDGolang/pkg/context"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"time"
)

func (s *userDomainImpl) RegisterUser(c context.Context, req auth.RegisterUserRequest) (auth.RegisterUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	img, err := decodeImagePayload(s.utils, req.Image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode registration image")
		return auth.RegisterUserResponse{}, err
	}

	faces := s.faceEngine.Detect(img)
	region, ok := face.LargestFace(faces)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("No face detected during registration")
		return auth.RegisterUserResponse{}, auth.ErrNoFaceDetected
	}

	encoding := s.faceEngine.Extract(img, region)

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return auth.RegisterUserResponse{}, err
	}

	recoveryKey, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate recovery key")
		return auth.RegisterUserResponse{}, err
	}

	recoveryHash, err := s.bcryptUtils.HashPassword(recoveryKey)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash recovery key")
		return auth.RegisterUserResponse{}, err
	}

	snapshot, err := s.utils.EncodeJPEG(img, 90)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode registration snapshot")
		return auth.RegisterUserResponse{}, err
	}

	facePhotoURL, err := s.faceStore.SaveSnapshot(ULID, snapshot)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to save registration snapshot")
		return auth.RegisterUserResponse{}, err
	}

	if s.s3Client != nil {
		if url, err := s.s3Client.UploadBytes(ULID+".jpg", "image/jpeg", snapshot); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to upload snapshot to S3, keeping local path")
		} else {
			facePhotoURL = url
		}
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.RegisterUserResponse{}, err
	}

	newUser := entity.User{
		ID:           ULID,
		Username:     req.Username,
		RecoveryHash: recoveryHash,
		FacePhotoURL: facePhotoURL,
	}

	if err := repo.Users.CreateUser(c, newUser); err != nil {
		if errors.Is(err, auth.ErrUsernameAlreadyExists) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
			}).Warn("Registration rejected, username taken")
		}
		return auth.RegisterUserResponse{}, err
	}

	if err := s.faceStore.Save(facestore.StoredEncoding{
		UserID:     ULID,
		Username:   req.Username,
		Encoding:   encoding,
		CapturedAt: time.Now(),
	}); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to persist face encoding, rolling back user")

		if delErr := repo.Users.DeleteUser(c, ULID); delErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      delErr.Error(),
			}).Error("Failed to roll back user after encoding failure")
		}

		return auth.RegisterUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   req.Username,
	}).Info("User registered with face encoding")

	return auth.RegisterUserResponse{
		ID:           ULID,
		Username:     req.Username,
		FacePhotoURL: facePhotoURL,
		RecoveryKey:  recoveryKey,
	}, nil
}

func (s *userDomainImpl) GetProfile(c context.Context, userID string) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	user, err := repo.Users.GetByID(c, userID)
	if err != nil {
		return auth.UserResponse{}, err
	}

	return auth.UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		FacePhotoURL: user.FacePhotoURL,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}, nil
}

// UpdateFace re-enrolls a user's biometric: the new frame replaces both the
// stored encoding and the snapshot, so future logins match against it.
func (s *userDomainImpl) UpdateFace(c context.Context, userID string, req auth.UpdateFaceRequest) (auth.UpdateFaceResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	img, err := decodeImagePayload(s.utils, req.Image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode re-enrollment image")
		return auth.UpdateFaceResponse{}, err
	}

	faces := s.faceEngine.Detect(img)
	region, ok := face.LargestFace(faces)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
		}).Warn("No face detected during re-enrollment")
		return auth.UpdateFaceResponse{}, auth.ErrNoFaceDetected
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UpdateFaceResponse{}, err
	}

	user, err := repo.Users.GetByID(c, userID)
	if err != nil {
		return auth.UpdateFaceResponse{}, err
	}

	encoding := s.faceEngine.Extract(img, region)

	snapshot, err := s.utils.EncodeJPEG(img, 90)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to encode re-enrollment snapshot")
		return auth.UpdateFaceResponse{}, err
	}

	facePhotoURL, err := s.faceStore.SaveSnapshot(userID, snapshot)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to save re-enrollment snapshot")
		return auth.UpdateFaceResponse{}, err
	}

	if s.s3Client != nil {
		if url, err := s.s3Client.UploadBytes(userID+".jpg", "image/jpeg", snapshot); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to upload snapshot to S3, keeping local path")
		} else {
			facePhotoURL = url
		}
	}

	if err := repo.Users.UpdateFacePhoto(c, userID, facePhotoURL); err != nil {
		return auth.UpdateFaceResponse{}, err
	}

	if err := s.faceStore.Save(facestore.StoredEncoding{
		UserID:     userID,
		Username:   user.Username,
		Encoding:   encoding,
		CapturedAt: time.Now(),
	}); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to replace face encoding")
		return auth.UpdateFaceResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Face re-enrolled")

	return auth.UpdateFaceResponse{FacePhotoURL: facePhotoURL}, nil
}

func (s *userDomainImpl) DeleteUser(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	user, err := repo.Users.GetByID(c, id)
	if err != nil {
		return err
	}

	if err := repo.Users.DeleteUser(c, id); err != nil {
		return err
	}

	if err := s.faceStore.Delete(id); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to remove stored face encoding")
	}

	if s.s3Client != nil && user.FacePhotoURL != "" {
		if err := s.s3Client.DeleteFile(user.FacePhotoURL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to remove face photo from S3")
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User deleted")

	return nil
}

func (s *userDomainImpl) RegisteredFaces(c context.Context) (auth.RegisteredFacesResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	stored := s.faceStore.All()
	faces := make([]auth.RegisteredFaceInfo, 0, len(stored))
	for _, enc := range stored {
		faces = append(faces, auth.RegisteredFaceInfo{
			UserID:       enc.UserID,
			Username:     enc.Username,
			EncodingFile: s.faceStore.EncodingPath(enc.UserID),
			Exists:       !enc.Encoding.IsZero(),
			CapturedAt:   enc.CapturedAt,
		})
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"count":      len(faces),
	}).Debug("Listed registered faces")

	return auth.RegisteredFacesResponse{RegisteredFaces: faces}, nil
}
