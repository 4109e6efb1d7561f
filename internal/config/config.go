// Package config resolves settings from defaults, an optional YAML file, a
// .env file, TLUMACH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TLUMACH"

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Translate   TranslateConfig   `mapstructure:"translate"`
	Google      GoogleConfig      `mapstructure:"google"`
	MyMemory    MyMemoryConfig    `mapstructure:"mymemory"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	OCR         OCRConfig         `mapstructure:"ocr"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Speech      SpeechConfig      `mapstructure:"speech"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	PDF         PDFConfig         `mapstructure:"pdf"`
	Watch       WatchConfig       `mapstructure:"watch"`
	History     HistoryConfig     `mapstructure:"history"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TranslateConfig struct {
	// Backend is the fast engine: gtx, google or mymemory.
	Backend   string        `mapstructure:"backend"`
	Target    string        `mapstructure:"target"`
	Engine    string        `mapstructure:"engine"`
	ChunkSize int           `mapstructure:"chunk_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	// MaxFailures of zero disables the breaker.
	MaxFailures uint32        `mapstructure:"max_failures"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
}

type GoogleConfig struct {
	Credentials string `mapstructure:"credentials"`
	APIKey      string `mapstructure:"api_key"`
	ProjectID   string `mapstructure:"project_id"`
}

type MyMemoryConfig struct {
	Email string `mapstructure:"email"`
}

type HuggingFaceConfig struct {
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	EnglishToHindi string `mapstructure:"en_hi_model"`
	HindiToEnglish string `mapstructure:"hi_en_model"`
}

type OCRConfig struct {
	// Engine is tesseract or gemini.
	Engine    string   `mapstructure:"engine"`
	Languages []string `mapstructure:"languages"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type SpeechConfig struct {
	// Engine is google or openai.
	Engine string `mapstructure:"engine"`
}

type OpenAIConfig struct {
	APIKey   string  `mapstructure:"api_key"`
	TTSModel string  `mapstructure:"tts_model"`
	Voice    string  `mapstructure:"voice"`
	Speed    float64 `mapstructure:"speed"`
	STTModel string  `mapstructure:"stt_model"`
}

type PDFConfig struct {
	// Font is an optional TTF file used for non-Latin scripts in exports.
	Font string `mapstructure:"font"`
}

type WatchConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	Extensions []string      `mapstructure:"extensions"`
}

type HistoryConfig struct {
	// Path of the SQLite history database; empty disables history.
	Path string `mapstructure:"path"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"backend":    "translate.backend",
	"target":     "translate.target",
	"engine":     "translate.engine",
	"chunk-size": "translate.chunk_size",
	"timeout":    "translate.timeout",
	"ocr":        "ocr.engine",
	"ocr-lang":   "ocr.languages",
	"tts":        "speech.engine",
	"pdf-font":   "pdf.font",
	"interval":   "watch.interval",
	"history":    "history.path",
}

// envAliases lets the conventional provider variables stand in for the
// prefixed ones.
var envAliases = map[string]string{
	"google.credentials": "GOOGLE_APPLICATION_CREDENTIALS",
	"google.project_id":  "GOOGLE_CLOUD_PROJECT",
	"huggingface.token":  "HF_TOKEN",
	"gemini.api_key":     "GEMINI_API_KEY",
	"openai.api_key":     "OPENAI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("translate.backend", "gtx")
	v.SetDefault("translate.target", "Hindi")
	v.SetDefault("translate.engine", "fast")
	v.SetDefault("translate.chunk_size", 4500)
	v.SetDefault("translate.timeout", 30*time.Second)
	v.SetDefault("translate.breaker.max_failures", 5)
	v.SetDefault("translate.breaker.cooldown", 30*time.Second)

	v.SetDefault("google.credentials", "")
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.project_id", "")
	v.SetDefault("mymemory.email", "")

	v.SetDefault("huggingface.token", "")
	v.SetDefault("huggingface.base_url", "")
	v.SetDefault("huggingface.en_hi_model", "Helsinki-NLP/opus-mt-en-hi")
	v.SetDefault("huggingface.hi_en_model", "Helsinki-NLP/opus-mt-hi-en")

	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	v.SetDefault("speech.engine", "google")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.tts_model", "tts-1")
	v.SetDefault("openai.voice", "alloy")
	v.SetDefault("openai.speed", 1.0)
	v.SetDefault("openai.stt_model", "whisper-1")

	v.SetDefault("pdf.font", "")

	v.SetDefault("watch.interval", 2*time.Second)
	v.SetDefault("watch.extensions", []string{".png", ".jpg", ".jpeg"})

	v.SetDefault("history.path", "")
}

// Load reads configuration. path names an explicit config file; when empty,
// .tlumach.yaml is searched for in the working directory and then in the
// home directory, and its absence is not an error. Flags present in flags
// override every other source.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".tlumach")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config %s: %w", configName(v, path), err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		envName := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, alias); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", alias, err)
		}
	}

	if err := BindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// BindFlags binds the known flags found in flags to their config keys.
// Unknown flags and a nil set are ignored.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func configName(v *viper.Viper, path string) string {
	if used := v.ConfigFileUsed(); used != "" {
		return filepath.Base(used)
	}
	return path
}
