//go:build !ocr

package ocr

import "context"

// TesseractEngine is unavailable without the "ocr" build tag.
type TesseractEngine struct{}

// NewTesseractEngine always fails with ErrOCRNotEnabled in this build.
func NewTesseractEngine(languages []string) (*TesseractEngine, error) {
	return nil, ErrOCRNotEnabled
}

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
