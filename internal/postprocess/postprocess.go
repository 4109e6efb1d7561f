// Package postprocess tidies text returned by OCR engines before it is
// translated. Vision models wrap the extracted text in prose and markup;
// Tesseract leaves ragged whitespace.
package postprocess

import (
	"regexp"
	"strings"
)

// NoTextMarker is what the vision prompt asks the model to answer when the
// image holds no readable text.
const NoTextMarker = "NO_TEXT"

// Clean strips model chatter and normalizes whitespace:
//  1. Thinking blocks
//  2. Lead-in phrases ("Here is the extracted text:")
//  3. Code fences and outer quotes
//  4. Trailing spaces and runs of blank lines
//
// The no-text marker yields an empty string.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeLeadIns(text)
	text = removeCodeFence(text)
	text = removeQuoteWrapping(text)
	text = NormalizeWhitespace(text)
	if strings.EqualFold(text, NoTextMarker) {
		return ""
	}
	return text
}

// --- thinking blocks ---

// RE2 has no backreferences, so each tag pair is spelled out.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

var truncatedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>).*$`)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// codeFenceRe matches a whole-text ``` block with an optional info string.
var codeFenceRe = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\r?\n(.*?)\r?\n?```$")

func removeCodeFence(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// --- lead-ins ---

// leadInPatterns are anchored at the start and require a colon, so ordinary
// text that happens to begin with "Here is" survives.
var leadInPatterns = []*regexp.Regexp{
	// "Here is / Here's [the] [extracted|recognized] text [from|in the image]:"
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)?[,.!]?\s*here(?:'s| is| are)(?: the)? (?:extracted |recognized |transcribed |ocr )?(?:text|content|transcription)(?: (?:from|in) the (?:image|picture|photo))?\s*:`),
	// "The text in the image reads / says / is:"
	regexp.MustCompile(`(?i)^the (?:text|content) (?:in|of|from) the (?:image|picture|photo) (?:reads|says|is)\s*:`),
	// "Extracted text:"
	regexp.MustCompile(`(?i)^(?:extracted|recognized|transcribed) text\s*:`),
}

func removeLeadIns(text string) string {
	for _, re := range leadInPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// --- quotes ---

func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') {
		inner := string(runes[1 : n-1])
		// "a" and "b" is two quotations, not one wrapped text.
		if strings.ContainsRune(inner, first) {
			return text
		}
		return strings.TrimSpace(inner)
	}
	return text
}

// --- whitespace ---

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// NormalizeWhitespace converts CRLF to LF, trims trailing spaces from every
// line and collapses three or more newlines into one blank line.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}
	text = strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
