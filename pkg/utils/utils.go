package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeDataURL(payload string) ([]byte, error)
	DecodeImage(data []byte) (image.Image, error)
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
	LocalIP() string
}

type utils struct {
	maxImageSize int
}

func New() IUtils {
	return &utils{
		maxImageSize: 8 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeDataURL accepts the browser camera payload: either a plain base64
// string or a data URL ("data:image/jpeg;base64,...").
func (u *utils) DecodeDataURL(payload string) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty image payload")
	}

	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.New("image payload is not valid base64")
	}

	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	if len(data) > u.maxImageSize {
		return nil, errors.New("image payload exceeds size limit")
	}

	return data, nil
}

func (u *utils) DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (u *utils) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LocalIP reports the outbound interface address, used by the system info
// endpoint so phones on the same network can find the server.
func (u *utils) LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "unknown"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "unknown"
	}

	return addr.IP.String()
}
