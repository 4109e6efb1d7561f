package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co/models"

// MarianMT models truncate input past 512 tokens. Devanagari text runs close
// to one token per character.
const huggingFaceMaxChars = 400

// Default direction-specific MarianMT models for the accurate engine.
const (
	ModelEnglishToHindi = "Helsinki-NLP/opus-mt-en-hi"
	ModelHindiToEnglish = "Helsinki-NLP/opus-mt-hi-en"
)

// HuggingFaceService runs one fixed translation model on the Hugging Face
// Inference API. A model only translates the direction it was trained for.
type HuggingFaceService struct {
	model   string
	token   string
	baseURL string
	client  *http.Client
}

func NewHuggingFaceService(cfg ServiceConfig) *HuggingFaceService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = huggingFaceBaseURL
	}
	return &HuggingFaceService{
		model:   cfg.Model,
		token:   cfg.APIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeoutOr(cfg.Timeout)},
	}
}

func (s *HuggingFaceService) Name() string {
	return "huggingface"
}

func (s *HuggingFaceService) Model() string {
	return s.model
}

func (s *HuggingFaceService) MaxChars() int {
	return huggingFaceMaxChars
}

type hfRequest struct {
	Inputs  string `json:"inputs"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

func (s *HuggingFaceService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{
		ServiceName: s.Name(),
		Metadata:    map[string]string{"model": s.model},
	}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.model == "" {
		result.Error = "no model configured"
		return result, fmt.Errorf("no model configured")
	}

	body := hfRequest{Inputs: req.Text}
	body.Options.WaitForModel = true

	jsonData, err := json.Marshal(body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", s.baseURL, s.model), bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response: %v", err)
		return result, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		result.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, msg)
		return result, fmt.Errorf("API returned status %d: %s", resp.StatusCode, msg)
	}

	var outputs []struct {
		TranslationText string `json:"translation_text"`
	}
	if err := json.Unmarshal(raw, &outputs); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	if len(outputs) == 0 || outputs[0].TranslationText == "" {
		result.Error = "empty translation response"
		return result, fmt.Errorf("empty translation response")
	}

	result.TranslatedText = outputs[0].TranslationText
	return result, nil
}

func (s *HuggingFaceService) IsAvailable(ctx context.Context) error {
	if s.token == "" {
		return fmt.Errorf("Hugging Face token not configured")
	}
	return nil
}

func (s *HuggingFaceService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "hi"}, nil
}
