package media

import (
	"bytes"
	"fmt"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// ProbeMP3 decodes the MP3 header and returns the clip duration. It rejects
// bytes that are not a decodable MP3 stream.
func ProbeMP3(data []byte) (time.Duration, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("probe mp3: %w", err)
	}
	rate := d.SampleRate()
	if rate <= 0 {
		return 0, fmt.Errorf("probe mp3: invalid sample rate %d", rate)
	}
	// Decoded output is 16-bit stereo: four bytes per sample frame.
	frames := d.Length() / 4
	return time.Duration(frames) * time.Second / time.Duration(rate), nil
}
