// Package validator checks that a translation came back in the language that
// was asked for. Backends sometimes echo the source unchanged when they do
// not support a pair; this catches that.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/tlumach/internal/detector"
)

// minCheckLength is the rune count below which detection is too unreliable
// to act on.
const minCheckLength = 20

// ErrWrongLanguage is returned when the translation is detected as a
// different language than the target.
var ErrWrongLanguage = errors.New("translation is not in the target language")

// Validator compares detected and requested languages. The detector is
// expensive to build, so share one instance.
type Validator struct {
	det *detector.Detector
}

func New(det *detector.Detector) *Validator {
	return &Validator{det: det}
}

// Check returns nil when translated appears to be written in targetCode, when
// it is too short to judge or when its language cannot be determined.
// Codes are compared without region, so "zh-TW" accepts Chinese.
func (v *Validator) Check(translated, targetCode string) error {
	if targetCode == "" {
		return nil
	}

	text := strings.TrimSpace(translated)
	if text == "" {
		return fmt.Errorf("%w: translation is empty", ErrWrongLanguage)
	}
	if len([]rune(text)) < minCheckLength {
		return nil
	}

	det, ok := v.det.Detect(text)
	if !ok {
		return nil
	}

	if baseCode(det.Code) != baseCode(targetCode) {
		return fmt.Errorf("%w: expected %s, detected %s (%s)", ErrWrongLanguage, targetCode, det.Code, det.Language)
	}
	return nil
}

func baseCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}
