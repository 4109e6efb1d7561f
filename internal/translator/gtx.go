package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const gtxBaseURL = "https://translate.googleapis.com/translate_a/single"

// GTXService talks to Google's keyless web translation endpoint, the same one
// used by browser extensions. It accepts every code in the default catalog.
type GTXService struct {
	baseURL string
	client  *http.Client
}

func NewGTXService(cfg ServiceConfig) *GTXService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gtxBaseURL
	}
	return &GTXService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeoutOr(cfg.Timeout)},
	}
}

func (s *GTXService) Name() string {
	return "gtx"
}

func (s *GTXService) Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if isAuto(sourceLang) {
		sourceLang = "auto"
	}

	form := url.Values{}
	form.Set("client", "gtx")
	form.Set("sl", sourceLang)
	form.Set("tl", req.TargetLang)
	form.Set("dt", "t")
	form.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		result.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	// The payload is positional: [[[translated, original, ...], ...], null, detectedSource, ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, err
	}

	text, err := joinGTXSegments(payload)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	result.TranslatedText = text
	if len(payload) > 2 {
		var detected string
		if json.Unmarshal(payload[2], &detected) == nil && detected != "" {
			result.Metadata = map[string]string{"detected_source": detected}
		}
	}

	return result, nil
}

func joinGTXSegments(payload []json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected response shape: %v", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	return sb.String(), nil
}

func (s *GTXService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *GTXService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}
