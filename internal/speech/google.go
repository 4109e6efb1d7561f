package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valpere/tlumach/internal/chunker"
)

const (
	googleTTSURL = "https://translate.google.com/translate_tts"
	// googleTTSMaxChars is the longest text the endpoint accepts per request.
	googleTTSMaxChars = 200
)

// GoogleTTS uses the speech endpoint behind Google Translate's "listen"
// button. Long text is spoken piecewise and the MP3 segments concatenated.
type GoogleTTS struct {
	baseURL string
	client  *http.Client
}

func NewGoogleTTS(baseURL string, timeout time.Duration) *GoogleTTS {
	if baseURL == "" {
		baseURL = googleTTSURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleTTS{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (g *GoogleTTS) Name() string { return "google" }

func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string, w io.Writer) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to speak")
	}

	pieces := chunker.Chunk(text, googleTTSMaxChars)

	for i, piece := range pieces {
		if err := g.fetch(ctx, piece, lang, i, len(pieces), w); err != nil {
			return fmt.Errorf("speech segment %d/%d: %w", i+1, len(pieces), err)
		}
	}
	return nil
}

func (g *GoogleTTS) fetch(ctx context.Context, piece, lang string, idx, total int, w io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("q", piece)
	q.Set("tl", lang)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(len([]rune(piece))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no audio data received")
	}
	return nil
}
