package media

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ivrbot/internal/logging"
)

func writeWAV(t *testing.T, path string, rate uint32, channels uint16, extraChunk bool) {
	t.Helper()
	pcm := make([]byte, 160)
	var b []byte
	b = append(b, "RIFF"...)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, "WAVE"...)
	if extraChunk {
		b = append(b, "LIST"...)
		b = binary.LittleEndian.AppendUint32(b, 3)
		b = append(b, 'a', 'b', 'c', 0)
	}
	b = append(b, "fmt "...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, 1)
	b = binary.LittleEndian.AppendUint16(b, channels)
	b = binary.LittleEndian.AppendUint32(b, rate)
	b = binary.LittleEndian.AppendUint32(b, rate*uint32(channels)*2)
	b = binary.LittleEndian.AppendUint16(b, channels*2)
	b = binary.LittleEndian.AppendUint16(b, 16)
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(pcm)))
	b = append(b, pcm...)
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCheckCanonical(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.wav")
	writeWAV(t, good, 8000, 1, true)
	if err := CheckCanonical(good); err != nil {
		t.Fatalf("expected canonical, got %v", err)
	}

	wide := filepath.Join(dir, "wide.wav")
	writeWAV(t, wide, 16000, 1, false)
	if err := CheckCanonical(wide); !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical for 16kHz, got %v", err)
	}

	stereo := filepath.Join(dir, "stereo.wav")
	writeWAV(t, stereo, 8000, 2, false)
	if err := CheckCanonical(stereo); !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical for stereo, got %v", err)
	}

	junk := filepath.Join(dir, "junk.wav")
	if err := os.WriteFile(junk, []byte("ID3 not a wave file at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := CheckCanonical(junk); !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical for junk, got %v", err)
	}
}

// fakeFFmpeg writes a script that copies $FAKE_FFMPEG_FIXTURE to its last
// argument, or fails when the fixture is unset.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := `#!/bin/sh
for a in "$@"; do out="$a"; done
if [ -z "$FAKE_FFMPEG_FIXTURE" ]; then echo "conversion failed" >&2; exit 1; fi
echo "$@" >> "$FAKE_FFMPEG_LOG"
cp "$FAKE_FFMPEG_FIXTURE" "$out"
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToCanonical(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.wav")
	writeWAV(t, fixture, 8000, 1, false)
	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("FAKE_FFMPEG_FIXTURE", fixture)
	t.Setenv("FAKE_FFMPEG_LOG", logPath)

	f := NewFFmpeg(fakeFFmpeg(t), logging.Discard())
	out := filepath.Join(dir, "out.wav")
	if err := f.ToCanonical(context.Background(), filepath.Join(dir, "in.mp4"), out); err != nil {
		t.Fatalf("ToCanonical: %v", err)
	}
	calls, _ := os.ReadFile(logPath)
	if !strings.Contains(string(calls), "-ar 8000 -ac 1") {
		t.Fatalf("unexpected ffmpeg args: %s", calls)
	}
}

func TestToCanonicalRejectsWrongRate(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "fixture.wav")
	writeWAV(t, fixture, 22050, 1, false)
	t.Setenv("FAKE_FFMPEG_FIXTURE", fixture)
	t.Setenv("FAKE_FFMPEG_LOG", filepath.Join(dir, "calls.log"))

	f := NewFFmpeg(fakeFFmpeg(t), logging.Discard())
	err := f.ToCanonical(context.Background(), "in.mp3", filepath.Join(dir, "out.wav"))
	if !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical, got %v", err)
	}
}

func TestToCanonicalNonZeroExit(t *testing.T) {
	t.Setenv("FAKE_FFMPEG_FIXTURE", "")
	f := NewFFmpeg(fakeFFmpeg(t), logging.Discard())
	err := f.ToCanonical(context.Background(), "in.mp3", filepath.Join(t.TempDir(), "out.wav"))
	if err == nil || !strings.Contains(err.Error(), "conversion failed") {
		t.Fatalf("expected ffmpeg failure with output, got %v", err)
	}
}

func TestConcat(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	writeWAV(t, a, 8000, 1, false)
	writeWAV(t, b, 8000, 1, false)
	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("FAKE_FFMPEG_FIXTURE", a)
	t.Setenv("FAKE_FFMPEG_LOG", logPath)

	f := NewFFmpeg(fakeFFmpeg(t), logging.Discard())
	out := filepath.Join(dir, "final.wav")
	if err := f.Concat(context.Background(), out, a, b); err != nil {
		t.Fatalf("Concat: %v", err)
	}
	calls, _ := os.ReadFile(logPath)
	if !strings.Contains(string(calls), "-c copy") {
		t.Fatalf("concat must stream copy: %s", calls)
	}
	if _, err := os.Stat(out + ".list.txt"); !os.IsNotExist(err) {
		t.Fatalf("concat list not removed: %v", err)
	}

	wide := filepath.Join(dir, "wide.wav")
	writeWAV(t, wide, 44100, 2, false)
	if err := f.Concat(context.Background(), out, a, wide); !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical for mismatched input, got %v", err)
	}
}

func TestProbeMP3Rejects(t *testing.T) {
	if _, err := ProbeMP3([]byte("definitely not mp3")); err == nil {
		t.Fatal("expected error")
	}
}

func silentMP3(n int) []byte {
	const frameSize = 417 // 128 kbit/s at 44.1 kHz, no padding
	var b []byte
	for i := 0; i < n; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0xC4})
		b = append(b, frame...)
	}
	return b
}

func TestProbeMP3Duration(t *testing.T) {
	// 8 frames of 1152 samples at 44.1 kHz
	d, err := ProbeMP3(silentMP3(8))
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if d < 150*time.Millisecond || d > 300*time.Millisecond {
		t.Fatalf("unexpected duration %s", d)
	}
}
