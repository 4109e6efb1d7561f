/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/valpere/tlumach/internal"
	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/config"
	"github.com/valpere/tlumach/internal/detector"
	"github.com/valpere/tlumach/internal/dispatch"
	"github.com/valpere/tlumach/internal/extract"
	"github.com/valpere/tlumach/internal/memo"
	"github.com/valpere/tlumach/internal/ocr"
	"github.com/valpere/tlumach/internal/speech"
	"github.com/valpere/tlumach/internal/store"
	"github.com/valpere/tlumach/internal/translator"
	"github.com/valpere/tlumach/internal/validator"
)

// Minimum lingua confidence before a detected source language is reported.
const detectConfidence = 0.5

// addTranslationFlags registers the flags shared by every command that
// translates. Values are read back through the loaded configuration.
func addTranslationFlags(fs *pflag.FlagSet) {
	engine := dispatch.Fast
	fs.StringP("target", "t", catalog.DefaultTarget, "Target language name (see \"tlumach languages\")")
	fs.VarP(&engine, "engine", "e", "Translation engine: fast or accurate")
	fs.String("backend", "gtx", "Fast engine backend: gtx, google or mymemory")
	fs.Int("chunk-size", dispatch.DefaultChunkSize, "Maximum characters sent to a backend per request")
	fs.Duration("timeout", 0, "Per-request backend timeout (default 30s)")
	fs.String("history", "", "SQLite database to record translations in (disabled when empty)")
}

// buildFastService constructs the general-purpose backend named by
// cfg.Translate.Backend.
func buildFastService(c *config.Config) (translator.TranslationService, error) {
	sc := translator.ServiceConfig{Timeout: c.Translate.Timeout}

	var svc translator.TranslationService
	switch strings.ToLower(c.Translate.Backend) {
	case "", "gtx":
		svc = translator.NewGTXService(sc)
	case "google":
		sc.Credentials = c.Google.Credentials
		sc.APIKey = c.Google.APIKey
		sc.ProjectID = c.Google.ProjectID
		svc = translator.NewGoogleService(sc)
	case "mymemory":
		sc.APIKey = c.MyMemory.Email
		svc = translator.NewMyMemoryService(sc)
	default:
		return nil, fmt.Errorf("unknown backend %q (want gtx, google or mymemory)", c.Translate.Backend)
	}

	return translator.WithBreaker(svc, breakerSettings(c)), nil
}

// buildAccurateModels returns the English<->Hindi models keyed by the code
// they translate into. Without a Hugging Face token every accurate request
// falls back to the fast engine.
func buildAccurateModels(c *config.Config) map[string]dispatch.AccurateModel {
	hf := c.HuggingFace
	if hf.Token == "" && hf.BaseURL == "" {
		slog.Debug("accurate engine disabled: no Hugging Face token configured")
		return nil
	}

	model := func(name string) translator.TranslationService {
		return translator.WithBreaker(translator.NewHuggingFaceService(translator.ServiceConfig{
			APIKey:  hf.Token,
			BaseURL: hf.BaseURL,
			Model:   name,
			Timeout: c.Translate.Timeout,
		}), breakerSettings(c))
	}

	return map[string]dispatch.AccurateModel{
		"hi": {Service: model(hf.EnglishToHindi), Source: "en"},
		"en": {Service: model(hf.HindiToEnglish), Source: "hi"},
	}
}

func breakerSettings(c *config.Config) translator.BreakerSettings {
	return translator.BreakerSettings{
		MaxFailures: c.Translate.Breaker.MaxFailures,
		Cooldown:    c.Translate.Breaker.Cooldown,
	}
}

func buildOCR(ctx context.Context, c *config.Config) (ocr.Engine, error) {
	return ocr.New(ctx, ocr.Config{
		Engine:       c.OCR.Engine,
		Languages:    c.OCR.Languages,
		GeminiAPIKey: c.Gemini.APIKey,
		GeminiModel:  c.Gemini.Model,
	})
}

func buildSynthesizer(c *config.Config) (speech.Synthesizer, error) {
	return speech.NewSynthesizer(speech.Config{
		Engine:      c.Speech.Engine,
		Timeout:     c.Translate.Timeout,
		OpenAIKey:   c.OpenAI.APIKey,
		OpenAIModel: c.OpenAI.TTSModel,
		Voice:       c.OpenAI.Voice,
		Speed:       c.OpenAI.Speed,
	})
}

// session is the translation pipeline shared by the commands: the memo in
// front of the dispatcher, plus the optional history log.
type session struct {
	cfg       *config.Config
	engine    dispatch.Engine
	memo      *memo.Memo
	extractor *extract.Extractor
	history   *store.Store
	detector  *detector.Detector
}

func newSession(c *config.Config) (*session, error) {
	engine, err := dispatch.ParseEngine(c.Translate.Engine)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.Default().Lookup(c.Translate.Target); err != nil {
		return nil, err
	}

	fast, err := buildFastService(c)
	if err != nil {
		return nil, err
	}

	d := dispatch.New(catalog.Default(), fast, buildAccurateModels(c), dispatch.Options{
		ChunkSize: c.Translate.ChunkSize,
	})

	s := &session{
		cfg:       c,
		engine:    engine,
		memo:      memo.New(d),
		extractor: &extract.Extractor{},
	}

	if c.History.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		db, err := store.New(c.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		s.history = db
	}

	return s, nil
}

func (s *session) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// languageDetector loads the detector on first use.
func (s *session) languageDetector() *detector.Detector {
	if s.detector == nil {
		s.detector = detector.New(detectConfidence)
	}
	return s.detector
}

func (s *session) detectSource(text string) (detector.Detection, bool) {
	return s.languageDetector().Detect(text)
}

// checkLanguage warns when the translation does not look like the target.
func (s *session) checkLanguage(res dispatch.Result) {
	if err := validator.New(s.languageDetector()).Check(res.Text, res.Code); err != nil {
		slog.Warn("suspicious translation", "target", res.Language, "service", res.Service, "error", err)
	}
}

// translate runs text through the memo and records the result in history.
func (s *session) translate(ctx context.Context, kind extract.Kind, text string) (dispatch.Result, error) {
	res, err := s.memo.GetOrTranslate(ctx, text, s.cfg.Translate.Target, s.engine)
	if err != nil {
		return res, err
	}
	s.record(ctx, kind, text, res)
	return res, nil
}

func (s *session) record(ctx context.Context, kind extract.Kind, text string, res dispatch.Result) {
	if s.history == nil {
		return
	}

	rec := internal.HistoryRecord{
		Input:          string(kind),
		SourceText:     text,
		TargetLang:     res.Code,
		TargetName:     res.Language,
		Engine:         s.engine.String(),
		Route:          string(res.Route),
		Service:        res.Service,
		TranslatedText: res.Text,
		FromCache:      res.FromCache,
		Latency:        res.Latency,
	}
	if det, ok := s.detectSource(text); ok {
		rec.SourceLang = det.Code
	}

	if _, err := s.history.Save(ctx, rec); err != nil {
		slog.Warn("failed to save history", "error", err)
	}
}
