package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAITTS synthesizes with the OpenAI speech API. The voices are
// multilingual, so lang is not sent.
type OpenAITTS struct {
	client *openai.Client
	model  string
	voice  string
	speed  float64
}

func NewOpenAITTS(cfg Config) (*OpenAITTS, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	model := cfg.OpenAIModel
	if model == "" {
		model = string(openai.TTSModel1)
	}
	voice := cfg.Voice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	speed := cfg.Speed
	if speed <= 0 {
		speed = 1.0
	}
	return &OpenAITTS{
		client: newOpenAIClient(cfg.OpenAIKey, cfg.BaseURL),
		model:  model,
		voice:  voice,
		speed:  speed,
	}, nil
}

func (o *OpenAITTS) Name() string { return "openai" }

func (o *OpenAITTS) Synthesize(ctx context.Context, text, lang string, w io.Writer) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to speak")
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		Speed:          o.speed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	n, err := io.Copy(w, resp)
	if err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}
	return nil
}

// Whisper transcribes audio files with the OpenAI transcription API.
type Whisper struct {
	client *openai.Client
	model  string
}

func NewWhisper(apiKey, model, baseURL string) (*Whisper, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for transcription")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Whisper{client: newOpenAIClient(apiKey, baseURL), model: model}, nil
}

func (wh *Whisper) Transcribe(ctx context.Context, path, lang string) (string, error) {
	req := openai.AudioRequest{
		Model:    wh.model,
		FilePath: path,
	}
	if lang != "" {
		req.Language = baseLanguage(lang)
	}

	resp, err := wh.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
