// Package chunker splits text into pieces small enough for backends with a
// request size limit (web translation endpoints, speech synthesis). Splits
// prefer paragraph breaks, then sentence ends, then word boundaries.
package chunker

import (
	"strings"
	"unicode"
)

// Chunk splits text into pieces of at most maxChars runes. Splits are
// attempted, in order of preference, at:
//  1. Paragraph boundaries (a blank line)
//  2. Sentence-ending punctuation followed by whitespace (. ! ? । ।)
//  3. Whitespace
//  4. A hard cut at maxChars
//
// Pieces are trimmed and empty pieces dropped. maxChars ≤ 0 means unlimited.
func Chunk(text string, maxChars int) []string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxChars {
		split := findSplit(runes[:maxChars+1])
		if piece := strings.TrimSpace(string(runes[:split])); piece != "" {
			chunks = append(chunks, piece)
		}
		runes = trimLeftSpace(runes[split:])
	}

	if piece := strings.TrimSpace(string(runes)); piece != "" {
		chunks = append(chunks, piece)
	}
	return chunks
}

// findSplit returns the rune index at which to cut window, where window holds
// maxChars+1 runes so that a boundary right after the limit is still seen.
func findSplit(window []rune) int {
	limit := len(window) - 1

	// 1. Paragraph boundary.
	for i := limit - 1; i > 0; i-- {
		if window[i] != '\n' {
			continue
		}
		if window[i-1] == '\n' || (i > 1 && window[i-1] == '\r' && window[i-2] == '\n') {
			return i + 1
		}
	}

	// 2. Sentence end followed by whitespace.
	for i := limit - 1; i > 0; i-- {
		if isSentenceEnd(window[i]) && unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}

	// 3. Word boundary.
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}

	// 4. Hard cut.
	return limit
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '。':
		return true
	}
	return false
}

func trimLeftSpace(runes []rune) []rune {
	for len(runes) > 0 && unicode.IsSpace(runes[0]) {
		runes = runes[1:]
	}
	return runes
}
