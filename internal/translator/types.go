package translator

import (
	"context"
	"time"
)

// ServiceConfig carries backend settings resolved from configuration.
type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

// TranslateRequest is one call to a backend. SourceLang may be empty or
// "auto" to let the backend detect it.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

// TranslationService is a single translation backend. Translate makes exactly
// one attempt; on failure both the returned error and result.Error are set.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// ChunkLimiter is implemented by backends that reject requests longer than
// MaxChars runes.
type ChunkLimiter interface {
	MaxChars() int
}

// MaxCharsOf returns the request limit of svc, or 0 when it has none.
func MaxCharsOf(svc TranslationService) int {
	if l, ok := svc.(ChunkLimiter); ok {
		return l.MaxChars()
	}
	return 0
}

const defaultTimeout = 30 * time.Second

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

func isAuto(lang string) bool {
	return lang == "" || lang == "auto"
}
