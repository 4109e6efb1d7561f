//go:build !audio

package playback

import (
	"context"

	"github.com/gopxl/beep/v2"
)

func (p *Player) output(ctx context.Context, streamer beep.StreamSeekCloser, format beep.Format) error {
	return ErrPlaybackNotEnabled
}
