// Package memo caches completed translations for the lifetime of a process.
package memo

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/tlumach/internal/dispatch"
)

// Translator is the operation the memo short-circuits. *dispatch.Dispatcher
// satisfies it.
type Translator interface {
	Translate(ctx context.Context, text, targetName string, engine dispatch.Engine) (dispatch.Result, error)
}

type key struct {
	text   string
	target string
	engine dispatch.Engine
}

// Memo is an unbounded in-memory translation cache. Entries are keyed by the
// normalized source text, the target language and the engine, so the same
// text requested in two languages is cached twice. Failures are never stored.
type Memo struct {
	next Translator

	mu      sync.Mutex
	entries map[key]dispatch.Result
}

func New(next Translator) *Memo {
	return &Memo{
		next:    next,
		entries: make(map[key]dispatch.Result),
	}
}

// GetOrTranslate returns a cached result with FromCache set, or translates,
// stores and returns the fresh result.
func (m *Memo) GetOrTranslate(ctx context.Context, text, targetName string, engine dispatch.Engine) (dispatch.Result, error) {
	k := key{
		text:   normalizeText(text),
		target: strings.ToLower(strings.TrimSpace(targetName)),
		engine: engine,
	}

	if k.text != "" {
		m.mu.Lock()
		cached, ok := m.entries[k]
		m.mu.Unlock()
		if ok {
			cached.FromCache = true
			cached.Latency = 0
			return cached, nil
		}
	}

	res, err := m.next.Translate(ctx, text, targetName, engine)
	if err != nil {
		return res, err
	}

	res.FromCache = false
	m.mu.Lock()
	m.entries[k] = res
	m.mu.Unlock()

	return res, nil
}

// Len reports the number of cached translations.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Reset drops every cached translation.
func (m *Memo) Reset() {
	m.mu.Lock()
	m.entries = make(map[key]dispatch.Result)
	m.mu.Unlock()
}

func normalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}
