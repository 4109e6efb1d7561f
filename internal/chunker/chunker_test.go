package chunker_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/valpere/tlumach/internal/chunker"
)

// --- Chunk tests ---

func TestChunk_ShortText(t *testing.T) {
	text := "Hello, world!"
	chunks := chunker.Chunk(text, 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected %q, got %q", text, chunks[0])
	}
}

func TestChunk_Unlimited(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := chunker.Chunk(text, 0)
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk when maxChars=0, got %d", len(chunks))
	}
}

func TestChunk_ParagraphBoundary(t *testing.T) {
	// Two paragraphs joined by blank line; each fits in 50 chars when alone.
	para1 := "First paragraph text here."
	para2 := "Second paragraph text here."
	text := para1 + "\n\n" + para2

	chunks := chunker.Chunk(text, 40)
	if len(chunks) < 2 {
		t.Fatalf("expected ≥2 chunks, got %d: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "First") {
		t.Errorf("first chunk should contain 'First': %q", chunks[0])
	}
	if !strings.Contains(chunks[len(chunks)-1], "Second") {
		t.Errorf("last chunk should contain 'Second': %q", chunks[len(chunks)-1])
	}
}

func TestChunk_SentenceBoundary(t *testing.T) {
	text := "First sentence ends here. Second sentence follows. Third sentence."
	// maxChars just enough to hold first two sentences
	chunks := chunker.Chunk(text, 40)
	if len(chunks) < 2 {
		t.Fatalf("expected ≥2 chunks, got %d", len(chunks))
	}
	// Each chunk should be non-empty and trimmed.
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d has leading/trailing whitespace: %q", i, c)
		}
	}
}

func TestChunk_WordBoundary(t *testing.T) {
	// No sentence-ending punctuation, no paragraphs.
	text := "one two three four five six seven eight nine ten"
	chunks := chunker.Chunk(text, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected ≥2 chunks, got %d", len(chunks))
	}
	// Reassemble and verify no words are lost.
	rejoined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(rejoined, word) {
			t.Errorf("word %q lost after chunking", word)
		}
	}
}

func TestChunk_ReconstructsFullText(t *testing.T) {
	// After joining chunks the full text should be recovered (ignoring trim).
	original := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump!"
	chunks := chunker.Chunk(original, 50)
	rejoined := strings.Join(chunks, " ")
	// Every word in the original should appear in the rejoined text.
	for _, word := range strings.Fields(original) {
		clean := strings.Trim(word, ".,!?")
		if !strings.Contains(rejoined, clean) {
			t.Errorf("word %q missing after chunk+join", clean)
		}
	}
}

func TestChunk_EmptyText(t *testing.T) {
	chunks := chunker.Chunk("", 100)
	if len(chunks) != 1 || chunks[0] != "" {
		t.Errorf("expected the empty text back unchanged, got %q", chunks)
	}
}

// --- Length limits ---

func TestChunk_RespectsLimit(t *testing.T) {
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 40)
	for _, limit := range []int{10, 57, 200, 1000} {
		for i, c := range chunker.Chunk(text, limit) {
			if n := utf8.RuneCountInString(c); n > limit {
				t.Errorf("limit %d: chunk %d has %d runes", limit, i, n)
			}
		}
	}
}

func TestChunk_HardCut(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := chunker.Chunk(text, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if strings.Join(chunks, "") != text {
		t.Errorf("hard cut lost characters: %v", chunks)
	}
}

func TestChunk_DevanagariDanda(t *testing.T) {
	text := "यह पहला वाक्य है। यह दूसरा वाक्य है। यह तीसरा है।"
	chunks := chunker.Chunk(text, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected ≥2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "।") {
		t.Errorf("expected first chunk to end at the danda, got %q", chunks[0])
	}
}

func TestChunk_CRLFParagraphs(t *testing.T) {
	text := "First paragraph here.\r\n\r\nSecond paragraph here."
	chunks := chunker.Chunk(text, 30)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph here." {
		t.Errorf("unexpected first chunk %q", chunks[0])
	}
}

func TestChunk_MultibyteNotSplitMidRune(t *testing.T) {
	text := strings.Repeat("नमस्ते ", 30)
	for _, c := range chunker.Chunk(text, 16) {
		if !utf8.ValidString(c) {
			t.Errorf("chunk is not valid UTF-8: %q", c)
		}
	}
}
