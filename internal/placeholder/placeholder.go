// Package placeholder shields fragments that must come back from a backend
// verbatim (code, markup, URLs and e-mail addresses) by swapping them for
// numbered tokens such as [#0] before translation.
package placeholder

import (
	"regexp"
	"strconv"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`\n]+`")
	// Attributes must carry a value, so comparisons such as "a<b and c>d"
	// are left alone. Bare boolean attributes are not matched.
	reHTMLTag    = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(?:\s+[A-Za-z_:][-\w:.]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>=]+))*\s*/?>`)
	reURL        = regexp.MustCompile(`https?://[^\s<>"\[\]]*[^\s<>".,;:!?)\[\]]`)
	reEmail      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Applied in order; a fragment taken by an earlier pattern is not
	// matched again.
	patterns = []*regexp.Regexp{reFencedCode, reInlineCode, reHTMLTag, reURL, reEmail}

	// Backends sometimes insert spaces inside the brackets.
	reToken = regexp.MustCompile(`\[\s*#\s*(\d+)\s*\]`)
)

// Shield is text with its protected fragments replaced by tokens.
type Shield struct {
	Text      string
	originals []string
}

// Protect replaces protected fragments of text with tokens in order of
// appearance per pattern. Text that already contains token-like sequences is
// returned unchanged so that Restore cannot alter it.
func Protect(text string) Shield {
	if reToken.MatchString(text) {
		return Shield{Text: text}
	}

	var originals []string
	replace := func(match string) string {
		tok := token(len(originals))
		originals = append(originals, match)
		return tok
	}

	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, replace)
	}
	return Shield{Text: text, originals: originals}
}

// Len is the number of protected fragments.
func (s Shield) Len() int {
	return len(s.originals)
}

// Restore puts the original fragments back into translated. Unknown token
// numbers are left as they are.
func (s Shield) Restore(translated string) string {
	if len(s.originals) == 0 {
		return translated
	}
	return reToken.ReplaceAllStringFunc(translated, func(match string) string {
		idx, ok := tokenIndex(match)
		if !ok || idx >= len(s.originals) {
			return match
		}
		return s.originals[idx]
	})
}

// Missing returns the indices of tokens the backend dropped from translated.
func (s Shield) Missing(translated string) []int {
	if len(s.originals) == 0 {
		return nil
	}

	found := make([]bool, len(s.originals))
	for _, m := range reToken.FindAllString(translated, -1) {
		if idx, ok := tokenIndex(m); ok && idx < len(found) {
			found[idx] = true
		}
	}

	var missing []int
	for i, ok := range found {
		if !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

func token(i int) string {
	return "[#" + strconv.Itoa(i) + "]"
}

func tokenIndex(match string) (int, bool) {
	sub := reToken.FindStringSubmatch(match)
	if len(sub) < 2 {
		return 0, false
	}
	idx, err := strconv.Atoi(sub[1])
	if err != nil {
		return 0, false
	}
	return idx, true
}
