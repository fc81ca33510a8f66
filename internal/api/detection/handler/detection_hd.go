package detectionHandler

import (
	"FaceIDGolang/internal/api/detection"
	contextPkg "FaceIDGolang/pkg/context"
	"FaceIDGolang/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

// handleFaceWebSocket streams positioning guidance back for every camera
// frame the capture page sends.
func (h *DetectionHandler) handleFaceWebSocket(c *websocket.Conn) {
	h.log.Info("Face detection WebSocket client connected")
	defer h.log.Info("Face detection WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		h.log.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Face WebSocket error: %v", err)
			} else {
				h.log.Info("Face WebSocket connection closed")
			}
			break
		}

		var result interface{}
		var processErr error

		switch messageType {
		case websocket.BinaryMessage:
			result, processErr = h.detectionService.ProcessFrame(message)
		case websocket.TextMessage:
			result, processErr = h.detectionService.ProcessFrameBase64(string(message))
		default:
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		if processErr != nil {
			h.log.Errorf("Error processing face frame: %v", processErr)
			if writeErr := c.WriteJSON(map[string]string{"error": processErr.Error()}); writeErr != nil {
				h.log.Errorf("Error sending error response: %v", writeErr)
				break
			}
			continue
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

func (h *DetectionHandler) DetectFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req detection.FrameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.detectionService.ProcessFrameBase64(req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *DetectionHandler) SystemInfo(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	info := h.detectionService.SystemInfo(c)

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithField("request_id", requestID).Debug("System info requested")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, info)
	}
}
