package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"layeh.com/gopus"
)

// Volume is a live playback gain in percent, shared between the encode
// loop and whatever control surface adjusts it.
type Volume struct {
	percent atomic.Int32
}

func NewVolume(percent int) *Volume {
	v := &Volume{}
	v.Set(percent)
	return v
}

func (v *Volume) Set(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 200 {
		percent = 200
	}
	v.percent.Store(int32(percent))
}

func (v *Volume) Get() int {
	return int(v.percent.Load())
}

// EncodeToOpus reads s16le PCM from r and sends Opus frames to send
// until the stream is exhausted or ctx is cancelled. A clean end of
// stream returns nil.
func EncodeToOpus(ctx context.Context, r io.ReadCloser, send chan<- []byte, vol *Volume) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	defer r.Close()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := io.ReadFull(r, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		gain := vol.Get()
		for i := range intBuf {
			sample := int32(int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2])))
			sample = sample * int32(gain) / 100
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			intBuf[i] = int16(sample)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case send <- opus:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
