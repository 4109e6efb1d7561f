//go:build audio

package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

func (p *Player) output(ctx context.Context, streamer beep.StreamSeekCloser, format beep.Format) error {
	if err := p.ensureSpeaker(); err != nil {
		return err
	}

	done := make(chan struct{})
	resampled := beep.Resample(3, format.SampleRate, sampleRate, streamer)
	speaker.Play(beep.Seq(resampled, beep.Callback(func() {
		close(done)
	})))

	slog.Debug("playing audio", "sample_rate", int(format.SampleRate), "duration", format.SampleRate.D(streamer.Len()))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (p *Player) ensureSpeaker() error {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		if p.initErr != nil {
			slog.Error("failed to initialize speaker", "error", p.initErr)
		}
	})
	return p.initErr
}
