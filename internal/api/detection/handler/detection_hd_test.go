package detectionHandler

import (
	"FaceIDGolang/internal/api/detection"
	"FaceIDGolang/internal/entity"
	"FaceIDGolang/internal/middleware"
	"FaceIDGolang/pkg/utils"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type stubRedis struct{}

func (stubRedis) SetSession(ctx context.Context, sessionID string, userID string, expiration time.Duration) error {
	return nil
}
func (stubRedis) GetSession(ctx context.Context, sessionID string) (string, error) {
	return "", errors.New("session not found")
}
func (stubRedis) DeleteSession(ctx context.Context, sessionID string) error { return nil }

type stubDetectionService struct {
	result *entity.DetectionResult
	err    error
}

func (s *stubDetectionService) ProcessFrame(frame []byte) (*entity.DetectionResult, error) {
	return s.result, s.err
}

func (s *stubDetectionService) ProcessFrameBase64(payload string) (*entity.DetectionResult, error) {
	return s.result, s.err
}

func (s *stubDetectionService) SystemInfo(ctx context.Context) detection.SystemInfoResponse {
	return detection.SystemInfoResponse{ServerIP: "127.0.0.1", Port: "5000", KnownFaces: 2, Threshold: 0.35}
}

func newTestApp(t *testing.T, svc *stubDetectionService) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := New(logger, validator.New(), middleware.New(logger, stubRedis{}), svc, utils.New())

	app := fiber.New()
	h.Start(app)
	return app
}

func TestDetectFaceEndpoint(t *testing.T) {
	svc := &stubDetectionService{
		result: &entity.DetectionResult{
			Status:     entity.PerfectPosition,
			FacesFound: 1,
		},
	}
	app := newTestApp(t, svc)

	body := bytes.NewBufferString(`{"image":"AAAA"}`)
	req := httptest.NewRequest("POST", "/detection/face", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var result entity.DetectionResult
	if err := jsoniter.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != entity.PerfectPosition {
		t.Errorf("Status = %q, want %q", result.Status, entity.PerfectPosition)
	}
}

func TestDetectFaceValidation(t *testing.T) {
	app := newTestApp(t, &stubDetectionService{})

	body := bytes.NewBufferString(`{}`)
	req := httptest.NewRequest("POST", "/detection/face", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestDetectFaceInvalidPayload(t *testing.T) {
	app := newTestApp(t, &stubDetectionService{err: detection.ErrInvalidFramePayload})

	body := bytes.NewBufferString(`{"image":"!!!"}`)
	req := httptest.NewRequest("POST", "/detection/face", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestSystemInfoEndpoint(t *testing.T) {
	app := newTestApp(t, &stubDetectionService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/detection/info", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var info detection.SystemInfoResponse
	if err := jsoniter.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if info.KnownFaces != 2 {
		t.Errorf("KnownFaces = %d, want 2", info.KnownFaces)
	}
}
