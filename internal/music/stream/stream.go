// Package stream turns a media URL into the Opus frames a Discord voice
// connection consumes. ffmpeg decodes to raw PCM; the encode loop packs
// it into 20ms Opus frames with volume applied.
package stream

import (
	"fmt"
	"io"
	"os/exec"
	"time"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Open starts an ffmpeg decode of url at the given offset and returns
// its s16le PCM output. cleanup kills the process; call it once the
// reader is drained or abandoned.
func Open(url string, start time.Duration) (io.ReadCloser, func(), error) {
	args := []string{
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
	}
	if start > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", start.Seconds()))
	}
	args = append(args,
		"-i", url,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	cmd := exec.Command("ffmpeg", args...)
	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("command start error: %w", err)
	}

	cleanup := func() {
		cmd.Process.Kill()
		cmd.Wait()
	}
	return reader, cleanup, nil
}
