/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/dispatch"
	"github.com/valpere/tlumach/internal/extract"
	"github.com/valpere/tlumach/internal/pdfdoc"
	"github.com/valpere/tlumach/internal/playback"
	"github.com/valpere/tlumach/internal/speech"
)

var (
	inputFile  string
	imageFile  string
	pdfFile    string
	audioFile  string
	audioLang  string
	outputFile string
	speakFile  string
	pdfOutFile string
	playAudio  bool
	detectLang bool
	verifyLang bool
	jsonOutput bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text, a file, an image, a PDF or a recording",
	Long: `Translate text into the target language.

The source is taken from, in order of preference:
  --image   OCR over an image (tesseract or gemini)
  --pdf     the text layer of a PDF document
  --audio   a speech recording transcribed with Whisper
  --file    a text or Markdown file
  [text]    the command-line arguments
  stdin     when nothing else is given

Examples:
  tlumach translate -t French "Good morning"
  tlumach translate -t Hindi -e accurate --play "How are you?"
  tlumach translate --image sign.jpg -t English --pdf-out sign.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		kind, text, err := readSource(ctx, s, args)
		if err != nil {
			return err
		}

		if detectLang {
			if det, ok := s.detectSource(text); ok {
				fmt.Fprintf(os.Stderr, "Detected source language: %s (%s, %.2f)\n", det.Language, det.Code, det.Confidence)
			} else {
				fmt.Fprintf(os.Stderr, "Source language could not be detected\n")
			}
		}

		res, err := s.translate(ctx, kind, text)
		if errors.Is(err, dispatch.ErrEmptyInput) {
			slog.Warn("nothing to translate")
			return nil
		}
		if err != nil {
			return err
		}
		if verifyLang {
			s.checkLanguage(res)
		}

		if err := writeResult(res); err != nil {
			return err
		}

		if pdfOutFile != "" {
			if err := exportPDF(text, res); err != nil {
				return err
			}
		}

		if speakFile != "" || playAudio {
			if err := speak(ctx, res); err != nil {
				return err
			}
		}
		return nil
	},
}

// readSource extracts the text to translate from the selected input.
func readSource(ctx context.Context, s *session, args []string) (extract.Kind, string, error) {
	switch {
	case imageFile != "":
		engine, err := buildOCR(ctx, s.cfg)
		if err != nil {
			return "", "", err
		}
		s.extractor.OCR = engine
		text, err := s.extractor.Image(ctx, imageFile)
		return extract.KindImage, text, err
	case pdfFile != "":
		text, err := s.extractor.PDF(pdfFile)
		return extract.KindPDF, text, err
	case audioFile != "":
		whisper, err := speech.NewWhisper(s.cfg.OpenAI.APIKey, s.cfg.OpenAI.STTModel, "")
		if err != nil {
			return "", "", err
		}
		s.extractor.Recognizer = whisper
		text, err := s.extractor.Audio(ctx, audioFile, audioLang)
		return extract.KindAudio, text, err
	case inputFile != "":
		text, err := s.extractor.File(inputFile)
		return extract.KindText, text, err
	case len(args) > 0:
		return extract.KindText, strings.Join(args, " "), nil
	default:
		text, err := s.extractor.Reader(os.Stdin)
		if errors.Is(err, extract.ErrExtractionFailed) {
			// Empty stdin is reported as empty input, not as a failure.
			return extract.KindText, "", nil
		}
		return extract.KindText, text, err
	}
}

func writeResult(res dispatch.Result) error {
	var out []byte
	if jsonOutput {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		out = append(b, '\n')
	} else {
		out = []byte(res.Text + "\n")
	}

	if outputFile == "" {
		_, err := os.Stdout.Write(out)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Translated to %s: %s\n", res.Language, outputFile)
	return nil
}

func exportPDF(original string, res dispatch.Result) error {
	f, err := os.Create(pdfOutFile)
	if err != nil {
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	defer f.Close()

	doc := pdfdoc.Document{Original: original, Translated: res.Text, Language: res.Language}
	if err := pdfdoc.Export(f, doc, pdfdoc.ExportOptions{FontPath: cfg.PDF.Font}); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "PDF saved: %s\n", pdfOutFile)
	return nil
}

// speak synthesizes the translation, saving it to --speak and playing it
// with --play.
func speak(ctx context.Context, res dispatch.Result) error {
	synth, err := buildSynthesizer(cfg)
	if err != nil {
		return err
	}

	var audio bytes.Buffer
	if err := synth.Synthesize(ctx, res.Text, res.Code, &audio); err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	if speakFile != "" {
		if err := os.WriteFile(speakFile, audio.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write audio file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Audio saved: %s\n", speakFile)
	}

	if playAudio {
		if err := playback.NewPlayer().Play(ctx, &audio); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	addTranslationFlags(translateCmd.Flags())

	translateCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Text or Markdown file to translate")
	translateCmd.Flags().StringVar(&imageFile, "image", "", "Image to extract text from with OCR")
	translateCmd.Flags().StringVar(&pdfFile, "pdf", "", "PDF document to translate")
	translateCmd.Flags().StringVar(&audioFile, "audio", "", "Audio recording to transcribe and translate")
	translateCmd.Flags().StringVar(&audioLang, "audio-lang", "", "Spoken language code of --audio (auto-detected when empty)")
	translateCmd.Flags().String("ocr", "tesseract", "OCR engine: tesseract or gemini")
	translateCmd.Flags().StringSlice("ocr-lang", []string{"eng"}, "Tesseract language packs")

	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the translation to this file instead of stdout")
	translateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
	translateCmd.Flags().StringVar(&pdfOutFile, "pdf-out", "", "Export original and translation as a PDF")
	translateCmd.Flags().String("pdf-font", "", "TTF font for non-Latin scripts in PDF export")
	translateCmd.Flags().StringVar(&speakFile, "speak", "", "Save the spoken translation as MP3")
	translateCmd.Flags().BoolVar(&playAudio, "play", false, "Play the spoken translation (binaries built with -tags audio)")
	translateCmd.Flags().String("tts", "google", "Speech engine: google or openai")
	translateCmd.Flags().BoolVar(&detectLang, "detect", false, "Report the detected source language")
	translateCmd.Flags().BoolVar(&verifyLang, "verify", false, "Warn when the translation does not look like the target language")

	translateCmd.MarkFlagsMutuallyExclusive("file", "image", "pdf", "audio")
}
