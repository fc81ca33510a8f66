package authService

import (
	"FaceIDGolang/internal/api/auth"
	contextPkg "FaceIDGolang/pkg/context"
	jwtPkg "FaceIDGolang/pkg/jwt"
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"time"
)

// LoginRecovery is the fallback for when the camera or the match fails: the
// one-time recovery key handed out at registration acts as the password.
func (s *recoveryDomainImpl) LoginRecovery(c context.Context, req auth.RecoveryLoginRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByUsername(c, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   req.Username,
			}).Warn("Recovery login for unknown username")
			return auth.LoginUserResponse{}, auth.ErrInvalidRecoveryKey
		}
		return auth.LoginUserResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(user.RecoveryHash, req.RecoveryKey); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Recovery key comparison failed")
		return auth.LoginUserResponse{}, auth.ErrInvalidRecoveryKey
	}

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return auth.LoginUserResponse{}, err
	}

	if err := s.redisServer.SetSession(c, sessionID, user.ID, sessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store session")
		return auth.LoginUserResponse{}, err
	}

	userData := MakeUserData(user, sessionID)

	token, expired, err := jwtPkg.Sign(userData, sessionTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   user.Username,
	}).Info("Recovery login succeeded")

	return auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
		Username:         user.Username,
	}, nil
}

// RotateRecoveryKey invalidates the previous key and hands out a fresh one,
// returned in plain text exactly once.
func (s *recoveryDomainImpl) RotateRecoveryKey(c context.Context, userID string) (auth.RotateRecoveryKeyResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.RotateRecoveryKeyResponse{}, err
	}

	if _, err := repo.Users.GetByID(c, userID); err != nil {
		return auth.RotateRecoveryKeyResponse{}, err
	}

	recoveryKey, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate recovery key")
		return auth.RotateRecoveryKeyResponse{}, err
	}

	recoveryHash, err := s.bcryptUtils.HashPassword(recoveryKey)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash recovery key")
		return auth.RotateRecoveryKeyResponse{}, err
	}

	if err := repo.Users.UpdateRecoveryHash(c, userID, recoveryHash); err != nil {
		return auth.RotateRecoveryKeyResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Recovery key rotated")

	return auth.RotateRecoveryKeyResponse{RecoveryKey: recoveryKey}, nil
}
