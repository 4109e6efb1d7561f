//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestTesseract_NotEnabled(t *testing.T) {
	if _, err := NewTesseractEngine(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if _, err := New(context.Background(), Config{Engine: "tesseract"}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled from New, got %v", err)
	}

	var e TesseractEngine
	if _, err := e.Recognize(context.Background(), []byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled from Recognize, got %v", err)
	}
}
