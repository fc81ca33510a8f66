package detectionService

import (
	"FaceIDGolang/internal/api/detection"
	"FaceIDGolang/internal/entity"
	"FaceIDGolang/pkg/face"
	"FaceIDGolang/pkg/facestore"
	"FaceIDGolang/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IDetectionService interface {
	ProcessFrame(frame []byte) (*entity.DetectionResult, error)
	ProcessFrameBase64(payload string) (*entity.DetectionResult, error)
	SystemInfo(ctx context.Context) detection.SystemInfoResponse
}

type detectionService struct {
	log        *logrus.Logger
	faceEngine face.IEngine
	faceStore  facestore.IFaceStore
	utils      utils.IUtils
}

func NewDetectionService(
	log *logrus.Logger,
	faceEngine face.IEngine,
	faceStore facestore.IFaceStore,
	utils utils.IUtils,
) IDetectionService {
	return &detectionService{
		log:        log,
		faceEngine: faceEngine,
		faceStore:  faceStore,
		utils:      utils,
	}
}
