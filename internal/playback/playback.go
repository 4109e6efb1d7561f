// Package playback plays synthesized speech on the default output device.
//
// Speaker output needs cgo and the platform audio libraries (ALSA on Linux),
// so it is only compiled with the "audio" build tag. Other builds decode the
// clip and then fail with ErrPlaybackNotEnabled.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
)

var ErrPlaybackNotEnabled = errors.New("audio playback not enabled in this build (rebuild with -tags audio)")

const sampleRate = beep.SampleRate(48000)

// Player plays MP3 clips one at a time. The speaker is initialized on first
// use.
type Player struct {
	initOnce sync.Once
	initErr  error
	mu       sync.Mutex
}

func NewPlayer() *Player {
	return &Player{}
}

// Play decodes r as MP3 and blocks until playback ends or ctx is cancelled.
func (p *Player) Play(ctx context.Context, r io.Reader) error {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output(ctx, streamer, format)
}
