package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/valpere/tlumach/internal/postprocess"
)

const defaultGeminiModel = "gemini-2.0-flash"

const visionPrompt = `Transcribe all text visible in this image exactly as written, ` +
	`keeping line breaks. Do not translate, describe or comment on it. ` +
	`If the image contains no readable text, answer with ` + postprocess.NoTextMarker + `.`

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiEngine asks a Gemini vision model to transcribe the image.
type GeminiEngine struct {
	model    string
	generate generateFunc
}

func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini OCR requires an API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiEngine(model, client.Models.GenerateContent), nil
}

func newGeminiEngine(model string, generate generateFunc) *GeminiEngine {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiEngine{model: model, generate: generate}
}

func (e *GeminiEngine) Name() string { return "gemini" }

func (e *GeminiEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported image type %s", mimeType)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(visionPrompt),
		}, genai.RoleUser),
	}

	resp, err := e.generate(ctx, e.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return "", err
	}

	text := postprocess.Clean(raw)
	slog.Debug("gemini OCR", "model", e.model, "mime", mimeType, "chars", len([]rune(text)))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
