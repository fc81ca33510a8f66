package authService

import (
	"FaceIDGolang/internal/api/auth"
	"FaceIDGolang/internal/entity"
	contextPkg "FaceIDGolang/pkg/context"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	jwtPkg "FaceIDGolang/pkg/jwt"
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"time"
)

const (
	sessionTTL        = time.Hour * 1
	shortlistSize     = 5
	noMatchSimilarity = -1.0
)

func (s *authDomainImpl) Login(c context.Context, req auth.FaceLoginRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	img, err := decodeImagePayload(s.utils, req.Image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode login image")
		return auth.LoginUserResponse{}, err
	}

	faces := s.faceEngine.Detect(img)
	region, ok := face.LargestFace(faces)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("No face detected during login")
		return auth.LoginUserResponse{}, auth.ErrNoFaceDetected
	}

	encoding := s.faceEngine.Extract(img, region)

	best, bestSimilarity, matched := s.bestMatch(encoding)
	if !matched {
		s.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"best_similarity": bestSimilarity,
			"threshold":       s.faceEngine.Threshold(),
		}).Warn("Face not recognized")
		return auth.LoginUserResponse{}, auth.ErrFaceNotRecognized
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByID(c, best.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    best.UserID,
			}).Warn("Matched encoding has no database user")
			return auth.LoginUserResponse{}, auth.ErrFaceNotRecognized
		}
		return auth.LoginUserResponse{}, err
	}

	res, err := s.issueSession(c, user, bestSimilarity)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"username":   user.Username,
		"similarity": bestSimilarity,
	}).Info("Face login succeeded")

	return res, nil
}

func (s *authDomainImpl) Logout(c context.Context, sessionID string) error {
	requestID := contextPkg.GetRequestID(c)

	if err := s.redisServer.DeleteSession(c, sessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to delete session")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
	}).Info("Session revoked")

	return nil
}

func (s *authDomainImpl) TestMatch(c context.Context, req auth.TestMatchRequest) (auth.TestMatchResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	img, err := decodeImagePayload(s.utils, req.Image)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode test-match image")
		return auth.TestMatchResponse{}, err
	}

	faces := s.faceEngine.Detect(img)
	region, ok := face.LargestFace(faces)
	if !ok {
		return auth.TestMatchResponse{
			FacesDetected:   0,
			FaceCoordinates: []entity.FaceBox{},
			Matches:         []auth.MatchCandidate{},
			Message:         "no face detected in the image",
		}, nil
	}

	encoding := s.faceEngine.Extract(img, region)
	threshold := s.faceEngine.Threshold()

	stored := s.faceStore.All()
	matches := make([]auth.MatchCandidate, 0, len(stored))
	for _, candidate := range stored {
		isMatch, similarity := s.faceEngine.Compare(encoding, candidate.Encoding)
		matches = append(matches, auth.MatchCandidate{
			Username:   candidate.Username,
			UserID:     candidate.UserID,
			Similarity: similarity,
			IsMatch:    isMatch,
			Threshold:  threshold,
		})
	}

	return auth.TestMatchResponse{
		FacesDetected:   len(faces),
		FaceCoordinates: makeFaceBoxes(faces),
		Matches:         matches,
	}, nil
}

// bestMatch scores the shortlist first and, when nothing clears the
// threshold, re-scores the full roster. The exact comparator is
// shift-invariant while the cosine shortlist is not, so a true match can sit
// outside the shortlist.
func (s *authDomainImpl) bestMatch(encoding face.Encoding) (facestore.StoredEncoding, float64, bool) {
	best, similarity, matched := s.scanCandidates(encoding, s.faceStore.Nearest(encoding, shortlistSize))
	if matched || s.faceStore.Count() <= shortlistSize {
		return best, similarity, matched
	}

	return s.scanCandidates(encoding, s.faceStore.All())
}

// scanCandidates runs the exact comparator over the candidates and keeps the
// highest similarity that clears the threshold.
func (s *authDomainImpl) scanCandidates(encoding face.Encoding, candidates []facestore.StoredEncoding) (facestore.StoredEncoding, float64, bool) {
	var best facestore.StoredEncoding
	bestSimilarity := noMatchSimilarity
	matchedSimilarity := noMatchSimilarity
	matched := false

	for _, candidate := range candidates {
		isMatch, similarity := s.faceEngine.Compare(encoding, candidate.Encoding)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
		}
		if isMatch && similarity > matchedSimilarity {
			best = candidate
			matchedSimilarity = similarity
			matched = true
		}
	}

	if matched {
		return best, matchedSimilarity, true
	}
	return facestore.StoredEncoding{}, bestSimilarity, false
}

func (s *authDomainImpl) issueSession(c context.Context, user entity.User, similarity float64) (auth.LoginUserResponse, error) {
	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	if err := s.redisServer.SetSession(c, sessionID, user.ID, sessionTTL); err != nil {
		return auth.LoginUserResponse{}, err
	}

	userData := MakeUserData(user, sessionID)

	token, expired, err := jwtPkg.Sign(userData, sessionTTL)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	return auth.LoginUserResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
		Username:         user.Username,
		Confidence:       similarity,
	}, nil
}
