package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/dispatch"
	"github.com/valpere/tlumach/internal/translator"
)

type mockService struct {
	name  string
	err   error
	limit int
	calls atomic.Int32

	mu   sync.Mutex
	reqs []translator.TranslateRequest
}

func (m *mockService) Name() string { return m.name }

func (m *mockService) Translate(ctx context.Context, req translator.TranslateRequest) (*translator.ServiceResult, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()

	if m.err != nil {
		return &translator.ServiceResult{ServiceName: m.name, Error: m.err.Error()}, m.err
	}
	return &translator.ServiceResult{
		ServiceName:    m.name,
		TranslatedText: "[" + req.TargetLang + "] " + req.Text,
	}, nil
}

func (m *mockService) IsAvailable(ctx context.Context) error { return nil }

func (m *mockService) MaxChars() int { return m.limit }

func (m *mockService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockService) requests() []translator.TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]translator.TranslateRequest(nil), m.reqs...)
}

func newDispatcher(fast, enHi, hiEn translator.TranslationService) *dispatch.Dispatcher {
	accurate := map[string]dispatch.AccurateModel{}
	if enHi != nil {
		accurate["hi"] = dispatch.AccurateModel{Service: enHi, Source: "en"}
	}
	if hiEn != nil {
		accurate["en"] = dispatch.AccurateModel{Service: hiEn, Source: "hi"}
	}
	return dispatch.New(catalog.Default(), fast, accurate, dispatch.Options{})
}

func TestTranslate_EmptyInput(t *testing.T) {
	fast := &mockService{name: "fast"}
	accurate := &mockService{name: "accurate"}
	d := newDispatcher(fast, accurate, accurate)

	for _, text := range []string{"", "   ", "\n\t"} {
		for _, engine := range []dispatch.Engine{dispatch.Fast, dispatch.Accurate} {
			_, err := d.Translate(context.Background(), text, "Hindi", engine)
			assert.ErrorIs(t, err, dispatch.ErrEmptyInput)
		}
	}

	assert.Zero(t, fast.calls.Load())
	assert.Zero(t, accurate.calls.Load())
}

func TestTranslate_UnknownLanguage(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := newDispatcher(fast, nil, nil)

	_, err := d.Translate(context.Background(), "hello", "Klingon", dispatch.Fast)
	require.ErrorIs(t, err, catalog.ErrUnknownLanguage)
	assert.Contains(t, err.Error(), "Klingon")
	assert.Zero(t, fast.calls.Load())
}

func TestTranslate_FastUsesCatalogCode(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := newDispatcher(fast, nil, nil)

	res, err := d.Translate(context.Background(), "hello", "Hindi", dispatch.Fast)
	require.NoError(t, err)

	reqs := fast.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "hi", reqs[0].TargetLang)
	assert.Equal(t, "hello", reqs[0].Text)

	assert.Equal(t, "[hi] hello", res.Text)
	assert.Equal(t, dispatch.RouteFast, res.Route)
	assert.Equal(t, "hi", res.Code)
	assert.Equal(t, "Hindi", res.Language)
	assert.Equal(t, "fast", res.Service)
	assert.False(t, res.FromCache)
}

func TestTranslate_AccurateRoutesByDirection(t *testing.T) {
	fast := &mockService{name: "fast"}
	enHi := &mockService{name: "en-hi"}
	hiEn := &mockService{name: "hi-en"}
	d := newDispatcher(fast, enHi, hiEn)

	res, err := d.Translate(context.Background(), "Good morning", "Hindi", dispatch.Accurate)
	require.NoError(t, err)
	assert.Equal(t, dispatch.RouteAccurate, res.Route)
	assert.Equal(t, "en-hi", res.Service)

	res, err = d.Translate(context.Background(), "नमस्ते", "English", dispatch.Accurate)
	require.NoError(t, err)
	assert.Equal(t, dispatch.RouteAccurate, res.Route)
	assert.Equal(t, "hi-en", res.Service)

	require.Len(t, enHi.requests(), 1)
	assert.Equal(t, "en", enHi.requests()[0].SourceLang)
	require.Len(t, hiEn.requests(), 1)
	assert.Equal(t, "hi", hiEn.requests()[0].SourceLang)
	assert.Zero(t, fast.calls.Load())
}

func TestTranslate_AccurateFallsBackToFast(t *testing.T) {
	fast := &mockService{name: "fast"}
	enHi := &mockService{name: "en-hi"}
	d := newDispatcher(fast, enHi, nil)

	viaAccurate, err := d.Translate(context.Background(), "hello", "French", dispatch.Accurate)
	require.NoError(t, err)
	direct, err := d.Translate(context.Background(), "hello", "French", dispatch.Fast)
	require.NoError(t, err)

	assert.Equal(t, dispatch.RouteFallback, viaAccurate.Route)
	assert.Equal(t, dispatch.RouteFast, direct.Route)
	assert.Equal(t, direct.Text, viaAccurate.Text)
	assert.Equal(t, direct.Service, viaAccurate.Service)
	assert.Zero(t, enHi.calls.Load())
	assert.EqualValues(t, 2, fast.calls.Load())
}

func TestTranslate_AccurateWithoutModelsFallsBack(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := dispatch.New(catalog.Default(), fast, nil, dispatch.Options{})

	res, err := d.Translate(context.Background(), "hello", "Hindi", dispatch.Accurate)
	require.NoError(t, err)
	assert.Equal(t, dispatch.RouteFallback, res.Route)
	assert.False(t, d.SupportsAccurate("hi"))
}

func TestTranslate_BackendFailure(t *testing.T) {
	fast := &mockService{name: "fast", err: errors.New("connection reset by peer")}
	d := newDispatcher(fast, nil, nil)

	var res dispatch.Result
	var err error
	assert.NotPanics(t, func() {
		res, err = d.Translate(context.Background(), "test", "German", dispatch.Fast)
	})

	require.ErrorIs(t, err, dispatch.ErrTranslationFailed)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.Empty(t, res.Text)

	var failed *dispatch.FailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "fast", failed.Service)
	assert.EqualValues(t, 1, fast.calls.Load())
}

func TestTranslate_AccurateFailureIsReported(t *testing.T) {
	fast := &mockService{name: "fast"}
	enHi := &mockService{name: "en-hi", err: errors.New("model is loading")}
	d := newDispatcher(fast, enHi, nil)

	_, err := d.Translate(context.Background(), "hello", "Hindi", dispatch.Accurate)
	require.ErrorIs(t, err, dispatch.ErrTranslationFailed)
	assert.Contains(t, err.Error(), "model is loading")
	assert.Zero(t, fast.calls.Load())
}

func TestTranslate_ChunksLongText(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := dispatch.New(catalog.Default(), fast, nil, dispatch.Options{ChunkSize: 20})

	res, err := d.Translate(context.Background(), "First sentence. Second sentence. Third one.", "Spanish", dispatch.Fast)
	require.NoError(t, err)

	reqs := fast.requests()
	require.Greater(t, len(reqs), 1)
	for _, r := range reqs {
		assert.LessOrEqual(t, len([]rune(r.Text)), 20)
		assert.Equal(t, "es", r.TargetLang)
	}
	assert.True(t, strings.HasPrefix(res.Text, "[es] First sentence."))
	assert.Equal(t, len(reqs), strings.Count(res.Text, "[es]"))
}

func TestTranslate_RespectsBackendLimit(t *testing.T) {
	fast := &mockService{name: "fast", limit: 500}
	d := newDispatcher(fast, nil, nil)

	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 18))
	require.Greater(t, len([]rune(text)), 780)

	_, err := d.Translate(context.Background(), text, "French", dispatch.Fast)
	require.NoError(t, err)

	reqs := fast.requests()
	require.Greater(t, len(reqs), 1)
	for _, r := range reqs {
		assert.LessOrEqual(t, len([]rune(r.Text)), 500)
	}
}

func TestTranslate_MyMemoryLongText(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query().Get("q")
		if len([]rune(q)) > 500 {
			w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":"403","responseDetails":"QUERY LENGTH LIMIT EXCEEDED. MAX ALLOWED QUERY : 500 CHARS"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData":   map[string]interface{}{"translatedText": "fr:" + q},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	svc := translator.NewMyMemoryService(translator.ServiceConfig{BaseURL: server.URL})
	d := dispatch.New(catalog.Default(), svc, nil, dispatch.Options{})

	text := strings.TrimSpace(strings.Repeat("Please read the attached report before the meeting. ", 15))
	require.Greater(t, len([]rune(text)), 780)

	res, err := d.Translate(context.Background(), text, "French", dispatch.Fast)
	require.NoError(t, err)
	assert.Greater(t, int(calls.Load()), 1)
	assert.True(t, strings.HasPrefix(res.Text, "fr:Please read"))
}

func TestTranslate_TrimsInput(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := newDispatcher(fast, nil, nil)

	_, err := d.Translate(context.Background(), "  hello \n", "hindi", dispatch.Fast)
	require.NoError(t, err)
	assert.Equal(t, "hello", fast.requests()[0].Text)
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    dispatch.Engine
		wantErr bool
	}{
		{"fast", dispatch.Fast, false},
		{"Accurate", dispatch.Accurate, false},
		{"", dispatch.Fast, false},
		{"slow", dispatch.Fast, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dispatch.ParseEngine(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(got.String()), got.String())
		})
	}
}

func TestTranslate_ProtectsURLsAndMarkup(t *testing.T) {
	fast := &mockService{name: "fast"}
	d := newDispatcher(fast, nil, nil)

	res, err := d.Translate(context.Background(), "Read <b>https://example.com/guide</b> first", "German", dispatch.Fast)
	require.NoError(t, err)

	reqs := fast.requests()
	require.Len(t, reqs, 1)
	assert.NotContains(t, reqs[0].Text, "https://")
	assert.NotContains(t, reqs[0].Text, "<b>")
	assert.Equal(t, "[de] Read <b>https://example.com/guide</b> first", res.Text)
}
