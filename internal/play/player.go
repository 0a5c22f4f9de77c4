// Package play sends a finished engine.Buffer to the system's audio
// output via oto, for the CLI's optional "play after render" behavior.
// Unlike a daemon's streaming player, a rendered buffer is already
// complete in memory, so there is no pause/resume state machine or
// producer/consumer buffering to manage: Play blocks until playback
// finishes or the context is cancelled.
package play

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"github.com/austinkregel/whistler/internal/engine"
)

const bitDepthBytes = 2 // 16-bit little-endian PCM, as oto expects

// Play renders buf to 16-bit PCM and plays it to completion, or until
// ctx is cancelled.
func Play(ctx context.Context, buf engine.Buffer) error {
	if buf.Frames == 0 {
		return nil
	}

	otoCtx, ready, err := oto.NewContext(buf.SampleRate, buf.Channels, bitDepthBytes)
	if err != nil {
		return fmt.Errorf("play: create oto context: %w", err)
	}
	<-ready

	pcm := encodePCM16(buf.Samples)
	player := otoCtx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()

	total := time.Duration(buf.Frames) * time.Second / time.Duration(buf.SampleRate)
	deadline := time.NewTimer(total + 250*time.Millisecond)
	defer deadline.Stop()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}

// encodePCM16 converts float32 [-1, 1] samples to signed 16-bit
// little-endian PCM.
func encodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*bitDepthBytes)
	for i, s := range samples {
		v := float64(s) * 32767.0
		if v > 32767.0 {
			v = 32767.0
		}
		if v < -32768.0 {
			v = -32768.0
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}
