// Package media converts downloaded and synthesized audio to the format the
// IVR platform plays.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// FFmpeg shells out to the ffmpeg binary.
type FFmpeg struct {
	bin    string
	logger *log.Logger
}

func NewFFmpeg(bin string, logger *log.Logger) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{bin: bin, logger: logger}
}

// ToCanonical extracts the audio track of in and writes it to out as 8 kHz
// mono PCM wav. The result is verified before returning.
func (f *FFmpeg) ToCanonical(ctx context.Context, in, out string) error {
	err := f.run(ctx, "-y", "-i", in, "-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(CanonicalSampleRate),
		"-ac", strconv.Itoa(CanonicalChannels),
		"-f", "wav", out)
	if err != nil {
		return err
	}
	if err := CheckCanonical(out); err != nil {
		return err
	}
	f.logger.Debug("converted", "in", in, "out", out)
	return nil
}

// Concat appends inputs in order into out without re-encoding. Every input
// must already be canonical.
func (f *FFmpeg) Concat(ctx context.Context, out string, inputs ...string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat %s: no inputs", out)
	}
	var list strings.Builder
	for _, in := range inputs {
		if err := CheckCanonical(in); err != nil {
			return fmt.Errorf("concat input: %w", err)
		}
		list.WriteString("file '" + strings.ReplaceAll(in, "'", `'\''`) + "'\n")
	}

	listPath := out + ".list.txt"
	if err := os.WriteFile(listPath, []byte(list.String()), 0o600); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	if err := f.run(ctx, "-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", out); err != nil {
		return err
	}
	if err := CheckCanonical(out); err != nil {
		return err
	}
	f.logger.Debug("concatenated", "out", out, "parts", len(inputs))
	return nil
}

func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", strings.Join(args, " "), err, tail(output, 400))
	}
	return nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
