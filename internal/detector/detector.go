// Package detector guesses the language of source text. The result is
// informational: it is shown to the user and stored in history, but backends
// still auto-detect on their own.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// catalogCodes maps ISO 639-1 codes to the legacy codes the language catalog
// uses for the same language.
var catalogCodes = map[string]string{
	"he": "iw",
	"zh": "zh-CN",
}

// Detection is a detected language with the detector's confidence in [0, 1].
type Detection struct {
	Code       string
	Language   string
	Confidence float64
}

type Detector struct {
	detector      lingua.LanguageDetector
	minConfidence float64
}

// New builds a detector over every language lingua knows. Detections below
// minConfidence are reported as unknown.
func New(minConfidence float64) *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector, minConfidence: minConfidence}
}

func (d *Detector) Detect(text string) (Detection, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Detection{}, false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Detection{}, false
	}

	confidence := d.detector.ComputeLanguageConfidence(text, lang)
	if confidence < d.minConfidence {
		return Detection{}, false
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	if legacy, ok := catalogCodes[code]; ok {
		code = legacy
	}

	return Detection{
		Code:       code,
		Language:   lang.String(),
		Confidence: confidence,
	}, true
}

// DetectCode returns only the catalog-style code.
func (d *Detector) DetectCode(text string) (string, bool) {
	det, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return det.Code, true
}
