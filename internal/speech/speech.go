// Package speech turns translations into audio and audio files into text.
package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Synthesizer writes spoken text as MP3 audio to w. lang is a catalog
// language code.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, lang string, w io.Writer) error
}

// Recognizer transcribes an audio file. An empty lang lets the service
// detect the spoken language.
type Recognizer interface {
	Transcribe(ctx context.Context, path, lang string) (string, error)
}

type Config struct {
	// Engine is "google" or "openai".
	Engine  string
	Timeout time.Duration

	OpenAIKey   string
	OpenAIModel string
	Voice       string
	Speed       float64
	// BaseURL overrides the service endpoint of either engine.
	BaseURL string
}

func NewSynthesizer(cfg Config) (Synthesizer, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", "google":
		return NewGoogleTTS(cfg.BaseURL, cfg.Timeout), nil
	case "openai":
		s, err := NewOpenAITTS(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown speech engine %q", cfg.Engine)
	}
}

// baseLanguage strips a region suffix and maps legacy catalog codes to
// ISO 639-1, as expected by speech services.
func baseLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	switch code {
	case "iw":
		return "he"
	case "jw":
		return "jv"
	}
	return code
}
