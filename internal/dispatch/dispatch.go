// Package dispatch routes a translation request to the fast or the accurate
// engine. The accurate engine only covers a fixed language pair; requests for
// any other target are re-routed to the fast engine without an error.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/chunker"
	"github.com/valpere/tlumach/internal/placeholder"
	"github.com/valpere/tlumach/internal/translator"
)

// DefaultChunkSize is the largest text, in runes, sent in one backend call.
const DefaultChunkSize = 4500

var (
	// ErrEmptyInput is returned when the text is empty after trimming.
	ErrEmptyInput = errors.New("nothing to translate")
	// ErrTranslationFailed matches every backend failure via errors.Is.
	ErrTranslationFailed = errors.New("translation failed")
)

// FailedError carries the backend that failed and its underlying error.
type FailedError struct {
	Service string
	Err     error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("translation failed (%s): %v", e.Service, e.Err)
}

func (e *FailedError) Is(target error) bool {
	return target == ErrTranslationFailed
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// Route names the path a request actually took.
type Route string

const (
	RouteFast     Route = "fast"
	RouteAccurate Route = "accurate"
	// RouteFallback is an accurate request re-routed to the fast engine.
	RouteFallback Route = "fallback"
)

// Result is a completed translation.
type Result struct {
	Text      string        `json:"text"`
	FromCache bool          `json:"from_cache"`
	Route     Route         `json:"route"`
	Code      string        `json:"code"`
	Language  string        `json:"language"`
	Service   string        `json:"service"`
	Latency   time.Duration `json:"latency"`
}

// AccurateModel is a direction-specific backend for one target language.
type AccurateModel struct {
	Service translator.TranslationService
	// Source is the language code the model translates from.
	Source string
}

type Options struct {
	// ChunkSize ≤ 0 selects DefaultChunkSize.
	ChunkSize int
}

type Dispatcher struct {
	catalog   *catalog.Catalog
	fast      translator.TranslationService
	accurate  map[string]AccurateModel
	chunkSize int
}

// New builds a dispatcher. accurate maps a target language code to the model
// that produces it; a nil or empty map makes every Accurate request fall back.
func New(cat *catalog.Catalog, fast translator.TranslationService, accurate map[string]AccurateModel, opts Options) *Dispatcher {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	models := make(map[string]AccurateModel, len(accurate))
	for code, m := range accurate {
		if m.Service != nil {
			models[code] = m
		}
	}

	return &Dispatcher{
		catalog:   cat,
		fast:      fast,
		accurate:  models,
		chunkSize: chunkSize,
	}
}

// Catalog returns the catalog used for target lookups.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// SupportsAccurate reports whether the accurate engine covers the target code.
func (d *Dispatcher) SupportsAccurate(code string) bool {
	_, ok := d.accurate[code]
	return ok
}

// Translate translates text into targetName using engine. It returns
// ErrEmptyInput, catalog.ErrUnknownLanguage or ErrTranslationFailed; no
// backend is called in the first two cases.
func (d *Dispatcher) Translate(ctx context.Context, text, targetName string, engine Engine) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyInput
	}

	code, err := d.catalog.Lookup(targetName)
	if err != nil {
		return Result{}, err
	}

	language := targetName
	if name, ok := d.catalog.NameOf(code); ok {
		language = name
	}

	start := time.Now()
	res := Result{Code: code, Language: language}

	svc, source, route := d.fast, "", RouteFast
	if engine == Accurate {
		if m, ok := d.accurate[code]; ok {
			svc, source, route = m.Service, m.Source, RouteAccurate
		} else {
			route = RouteFallback
			slog.Debug("accurate engine does not cover target, using fast engine", "target", code)
		}
	}

	shield := placeholder.Protect(text)
	translated, err := d.run(ctx, svc, shield.Text, source, code)
	if err != nil {
		return Result{}, &FailedError{Service: svc.Name(), Err: err}
	}
	if missing := shield.Missing(translated); len(missing) > 0 {
		slog.Warn("backend dropped protected fragments", "service", svc.Name(), "missing", len(missing))
	}
	translated = shield.Restore(translated)

	res.Text = translated
	res.Route = route
	res.Service = svc.Name()
	res.Latency = time.Since(start)

	slog.Debug("translated", "target", code, "route", route, "service", res.Service, "latency", res.Latency)
	return res, nil
}

// run sends text to svc one chunk at a time and joins the results in order.
// chunkLimit is the configured chunk size, lowered to the backend's own
// request limit when it has a smaller one.
func (d *Dispatcher) chunkLimit(svc translator.TranslationService) int {
	if n := translator.MaxCharsOf(svc); n > 0 && n < d.chunkSize {
		return n
	}
	return d.chunkSize
}

func (d *Dispatcher) run(ctx context.Context, svc translator.TranslationService, text, source, target string) (string, error) {
	chunks := chunker.Chunk(text, d.chunkLimit(svc))

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := svc.Translate(ctx, translator.TranslateRequest{
			Text:       chunk,
			SourceLang: source,
			TargetLang: target,
		})
		if err == nil && out != nil && out.Error != "" {
			err = errors.New(out.Error)
		}
		if err == nil && out == nil {
			err = errors.New("backend returned no result")
		}
		if err != nil {
			if len(chunks) > 1 {
				return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
			}
			return "", err
		}
		parts = append(parts, strings.TrimSpace(out.TranslatedText))
	}

	return strings.Join(parts, joinSeparator(text)), nil
}

// joinSeparator keeps paragraph breaks when the source had them.
func joinSeparator(text string) string {
	if strings.Contains(text, "\n\n") || strings.Contains(text, "\r\n\r\n") {
		return "\n\n"
	}
	return " "
}
