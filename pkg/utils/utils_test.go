package utils

import (
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"plain base64", encoded, false},
		{"jpeg data url", "data:image/jpeg;base64," + encoded, false},
		{"png data url", "data:image/png;base64," + encoded, false},
		{"empty", "", true},
		{"invalid base64", "!!!not-base64!!!", true},
		{"data url with invalid body", "data:image/jpeg;base64,???", true},
	}

	u := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := u.DecodeDataURL(tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if string(got) != string(raw) {
				t.Errorf("DecodeDataURL() = %q, want %q", got, raw)
			}
		})
	}
}

func TestDecodeDataURLSizeLimit(t *testing.T) {
	u := &utils{maxImageSize: 8}

	big := base64.StdEncoding.EncodeToString(make([]byte, 16))
	if _, err := u.DecodeDataURL(big); err == nil {
		t.Error("expected error for oversized payload")
	}
}

func TestEncodeJPEGDecodeImageRoundtrip(t *testing.T) {
	u := New()

	src := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 100, A: 255})
		}
	}

	data, err := u.EncodeJPEG(src, 90)
	if err != nil {
		t.Fatalf("EncodeJPEG() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("EncodeJPEG() produced no data")
	}

	decoded, err := u.DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	u := New()
	if _, err := u.DecodeImage([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	first, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp() error = %v", err)
	}
	second, err := u.NewULIDFromTimestamp(time.Now())
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp() error = %v", err)
	}

	if len(first) != 26 {
		t.Errorf("ULID length = %d, want 26", len(first))
	}
	if first == second {
		t.Error("consecutive ULIDs should not collide")
	}
	if strings.ToUpper(first) != first {
		t.Errorf("ULID %q should be upper case", first)
	}
}
