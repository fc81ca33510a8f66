package authService

import (
	"FaceIDGolang/internal/api/auth"
	authRepository "FaceIDGolang/internal/api/auth/repository"
	"FaceIDGolang/pkg/bcrypt"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	"FaceIDGolang/pkg/redis"
	"FaceIDGolang/pkg/s3"
	"FaceIDGolang/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
	Recovery() RecoveryDomain
	GetRepository() authRepository.Repository
}

type UserDomain interface {
	RegisterUser(c context.Context, req auth.RegisterUserRequest) (auth.RegisterUserResponse, error)
	GetProfile(c context.Context, userID string) (auth.UserResponse, error)
	UpdateFace(c context.Context, userID string, req auth.UpdateFaceRequest) (auth.UpdateFaceResponse, error)
	DeleteUser(c context.Context, id string) error
	RegisteredFaces(c context.Context) (auth.RegisteredFacesResponse, error)
}

type AuthDomain interface {
	Login(c context.Context, req auth.FaceLoginRequest) (auth.LoginUserResponse, error)
	Logout(c context.Context, sessionID string) error
	TestMatch(c context.Context, req auth.TestMatchRequest) (auth.TestMatchResponse, error)
}

type RecoveryDomain interface {
	LoginRecovery(c context.Context, req auth.RecoveryLoginRequest) (auth.LoginUserResponse, error)
	RotateRecoveryKey(c context.Context, userID string) (auth.RotateRecoveryKeyResponse, error)
}

type authService struct {
	log            *logrus.Logger
	authRepository authRepository.Repository
	redisServer    redis.IRedis
	s3Client       s3.ItfS3
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils
	faceEngine     face.IEngine
	faceStore      facestore.IFaceStore

	userDomain     UserDomain
	authDomain     AuthDomain
	recoveryDomain RecoveryDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

func (a *authService) Recovery() RecoveryDomain {
	return a.recoveryDomain
}

func (a *authService) GetRepository() authRepository.Repository {
	return a.authRepository
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	s3Client    s3.ItfS3
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
	faceEngine  face.IEngine
	faceStore   facestore.IFaceStore
}

type authDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	redisServer redis.IRedis
	utils       utils.IUtils
	faceEngine  face.IEngine
	faceStore   facestore.IFaceStore
}

type recoveryDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	redisServer redis.IRedis
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	redisServer redis.IRedis,
	s3Client s3.ItfS3,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
	faceEngine face.IEngine,
	faceStore facestore.IFaceStore,
) AuthService {
	return &authService{
		log:            log,
		authRepository: authRepo,
		redisServer:    redisServer,
		s3Client:       s3Client,
		bcryptUtils:    bcryptUtils,
		utils:          utils,
		faceEngine:     faceEngine,
		faceStore:      faceStore,

		userDomain:     &userDomainImpl{log: log, repo: authRepo, s3Client: s3Client, bcryptUtils: bcryptUtils, utils: utils, faceEngine: faceEngine, faceStore: faceStore},
		authDomain:     &authDomainImpl{log: log, repo: authRepo, redisServer: redisServer, utils: utils, faceEngine: faceEngine, faceStore: faceStore},
		recoveryDomain: &recoveryDomainImpl{log: log, repo: authRepo, redisServer: redisServer, bcryptUtils: bcryptUtils, utils: utils},
	}
}
