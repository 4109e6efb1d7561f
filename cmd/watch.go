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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/extract"
	"github.com/valpere/tlumach/internal/playback"
	"github.com/valpere/tlumach/internal/speech"
	"github.com/valpere/tlumach/internal/watcher"
)

var (
	watchDirs []string
	watchPlay bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Translate new snapshots as they appear",
	Long: `Poll one or more directories for new images, extract their text with
OCR and print the translation. Images already present when the command
starts are ignored. Stop with Ctrl+C.

Example:
  tlumach watch --dir ~/Pictures/Snapshots -t English --play`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		engine, err := buildOCR(ctx, cfg)
		if err != nil {
			return err
		}
		s.extractor.OCR = engine

		var (
			synth  speech.Synthesizer
			player *playback.Player
		)
		if watchPlay {
			if synth, err = buildSynthesizer(cfg); err != nil {
				return err
			}
			player = playback.NewPlayer()
		}

		w, err := watcher.NewService(watcher.Options{
			Paths:      watchDirs,
			Extensions: cfg.Watch.Extensions,
			Interval:   cfg.Watch.Interval,
		})
		if err != nil {
			return err
		}

		err = w.Run(ctx, func(ctx context.Context, path string) error {
			text, err := s.extractor.Image(ctx, path)
			if err != nil {
				return err
			}

			res, err := s.translate(ctx, extract.KindImage, text)
			if err != nil {
				return err
			}
			fmt.Printf("[%s] %s\n%s\n\n", filepath.Base(path), text, res.Text)

			if player == nil {
				return nil
			}
			var audio bytes.Buffer
			if err := synth.Synthesize(ctx, res.Text, res.Code, &audio); err != nil {
				return fmt.Errorf("speech synthesis failed: %w", err)
			}
			return player.Play(ctx, &audio)
		})
		if errors.Is(err, context.Canceled) {
			slog.Info("stopped watching")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	addTranslationFlags(watchCmd.Flags())

	watchCmd.Flags().StringSliceVar(&watchDirs, "dir", nil, "Directory to watch (repeatable; default ~/Pictures/Snapshots)")
	watchCmd.Flags().Duration("interval", 0, "Polling interval (default 2s)")
	watchCmd.Flags().String("ocr", "tesseract", "OCR engine: tesseract or gemini")
	watchCmd.Flags().StringSlice("ocr-lang", []string{"eng"}, "Tesseract language packs")
	watchCmd.Flags().BoolVar(&watchPlay, "play", false, "Speak each translation (binaries built with -tags audio)")
	watchCmd.Flags().String("tts", "google", "Speech engine: google or openai")
}
