// Package extract obtains source text from the inputs the CLI accepts:
// plain and Markdown files, images, PDFs and audio recordings.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valpere/tlumach/internal/markdown"
	"github.com/valpere/tlumach/internal/ocr"
	"github.com/valpere/tlumach/internal/pdfdoc"
	"github.com/valpere/tlumach/internal/speech"
)

// ErrExtractionFailed is returned when a collaborator fails or produces no
// text.
var ErrExtractionFailed = errors.New("text extraction failed")

// Kind names the source of the extracted text.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
	KindAudio Kind = "audio"
)

// Extractor holds the collaborators. A nil OCR engine or recognizer makes the
// corresponding input unavailable.
type Extractor struct {
	OCR        ocr.Engine
	Recognizer speech.Recognizer
}

func failed(kind Kind, source string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: no text found in %s %s", ErrExtractionFailed, kind, source)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrExtractionFailed, kind, source, err)
}

// File reads a text file; Markdown files are reduced to plain text.
func (e *Extractor) File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", failed(KindText, path, err)
	}
	return fromBytes(path, data)
}

// Reader reads text from r, e.g. standard input.
func (e *Extractor) Reader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", failed(KindText, "stdin", err)
	}
	return fromBytes("stdin", data)
}

func fromBytes(source string, data []byte) (string, error) {
	text := string(data)
	if markdown.IsMarkdownFile(source) {
		text = markdown.ToPlainText(data)
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", failed(KindText, source, nil)
	}
	return text, nil
}

// Image runs OCR over the image file at path.
func (e *Extractor) Image(ctx context.Context, path string) (string, error) {
	if e.OCR == nil {
		return "", failed(KindImage, path, errors.New("no OCR engine configured"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", failed(KindImage, path, err)
	}
	text, err := e.OCR.Recognize(ctx, data)
	if err != nil {
		return "", failed(KindImage, path, err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", failed(KindImage, path, nil)
	}
	return text, nil
}

// PDF extracts the text layer of a PDF. Scanned PDFs without one fail.
func (e *Extractor) PDF(path string) (string, error) {
	text, err := pdfdoc.ExtractText(path)
	if err != nil {
		return "", failed(KindPDF, path, err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", failed(KindPDF, path, nil)
	}
	return text, nil
}

// Audio transcribes a recording. lang may be empty for auto-detection.
func (e *Extractor) Audio(ctx context.Context, path, lang string) (string, error) {
	if e.Recognizer == nil {
		return "", failed(KindAudio, path, errors.New("no speech recognizer configured"))
	}
	text, err := e.Recognizer.Transcribe(ctx, path, lang)
	if err != nil {
		return "", failed(KindAudio, path, err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", failed(KindAudio, path, nil)
	}
	return text, nil
}
