// Package ocr extracts text from images. Two engines are available: a local
// Tesseract binding (built only with the "ocr" tag, since it needs cgo and
// libtesseract) and Gemini vision over the network.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrOCRNotEnabled is returned for the tesseract engine in builds without the
// "ocr" tag.
var ErrOCRNotEnabled = errors.New("tesseract OCR not enabled in this build (rebuild with -tags ocr)")

// Engine turns an encoded image (PNG, JPEG, ...) into text. An image without
// text yields an empty string and no error.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

type Config struct {
	// Engine is "tesseract" or "gemini".
	Engine string
	// Languages are Tesseract language packs, e.g. "eng", "hin".
	Languages []string

	GeminiAPIKey string
	GeminiModel  string
}

// New builds the engine named by cfg.Engine.
func New(ctx context.Context, cfg Config) (Engine, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", "tesseract":
		e, err := NewTesseractEngine(cfg.Languages)
		if err != nil {
			return nil, err
		}
		return e, nil
	case "gemini":
		e, err := NewGeminiEngine(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}
