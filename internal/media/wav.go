package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	CanonicalSampleRate = 8000
	CanonicalChannels   = 1
	CanonicalBits       = 16
	pcmFormat           = 1
)

// ErrNotCanonical marks a file the telephony platform cannot play as is.
var ErrNotCanonical = errors.New("media: not 8kHz mono PCM wav")

// WAVFormat is the fmt chunk of a RIFF/WAVE file.
type WAVFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

func (f WAVFormat) Canonical() bool {
	return f.AudioFormat == pcmFormat &&
		f.Channels == CanonicalChannels &&
		f.SampleRate == CanonicalSampleRate &&
		f.BitsPerSample == CanonicalBits
}

// ReadWAVFormat reads the fmt chunk of the wav file at path.
func ReadWAVFormat(path string) (WAVFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVFormat{}, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return WAVFormat{}, fmt.Errorf("%w: %s: short header", ErrNotCanonical, path)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return WAVFormat{}, fmt.Errorf("%w: %s: not a RIFF/WAVE file", ErrNotCanonical, path)
	}

	for {
		var hdr [8]byte
		if _, err := io.ReadFull(f, hdr[:]); err != nil {
			return WAVFormat{}, fmt.Errorf("%w: %s: no fmt chunk", ErrNotCanonical, path)
		}
		size := binary.LittleEndian.Uint32(hdr[4:8])
		if string(hdr[0:4]) != "fmt " {
			// chunks are word aligned
			if _, err := f.Seek(int64(size+size%2), io.SeekCurrent); err != nil {
				return WAVFormat{}, err
			}
			continue
		}
		if size < 16 {
			return WAVFormat{}, fmt.Errorf("%w: %s: fmt chunk too short", ErrNotCanonical, path)
		}
		var body [16]byte
		if _, err := io.ReadFull(f, body[:]); err != nil {
			return WAVFormat{}, fmt.Errorf("%w: %s: truncated fmt chunk", ErrNotCanonical, path)
		}
		return WAVFormat{
			AudioFormat:   binary.LittleEndian.Uint16(body[0:2]),
			Channels:      binary.LittleEndian.Uint16(body[2:4]),
			SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
			BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
		}, nil
	}
}

// CheckCanonical fails unless path is an 8 kHz mono 16-bit PCM wav file.
func CheckCanonical(path string) error {
	f, err := ReadWAVFormat(path)
	if err != nil {
		return err
	}
	if !f.Canonical() {
		return fmt.Errorf("%w: %s: format=%d channels=%d rate=%d bits=%d",
			ErrNotCanonical, path, f.AudioFormat, f.Channels, f.SampleRate, f.BitsPerSample)
	}
	return nil
}
