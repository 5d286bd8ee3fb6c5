package pipeline

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"ivrbot/internal/hebtime"
	"ivrbot/internal/media"
	"ivrbot/internal/post"
	"ivrbot/internal/textnorm"
	"ivrbot/internal/tts"
)

// ErrEmptyNarration is returned when a post leaves nothing to play: no media
// and no text after normalization.
var ErrEmptyNarration = errors.New("nothing to narrate")

// Fetcher downloads an attached media file to dst.
type Fetcher interface {
	Fetch(ctx context.Context, fileID, dst string) error
}

// Synthesizer turns text into encoded speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, v tts.Voice) ([]byte, error)
}

// Converter produces canonical IVR audio files.
type Converter interface {
	ToCanonical(ctx context.Context, in, out string) error
	Concat(ctx context.Context, out string, inputs ...string) error
}

// Assembler builds the single audio file uploaded for a post.
type Assembler struct {
	Fetcher     Fetcher
	Synthesizer Synthesizer
	Converter   Converter
	Normalizer  *textnorm.Normalizer
	Voice       tts.Voice
	Location    *time.Location
	// HeadlineTag is spoken between the time and the text, e.g. "בחדשות המגזר".
	HeadlineTag   string
	StripMarkdown bool
	Logger        *log.Logger

	now func() time.Time
}

// Assemble writes the audio for p into dir and returns the path of the file
// to upload. Narration, when present, always plays before attached media.
// Narration and media are joined into one file: a post is always exactly one
// upload, audio with text included.
func (a *Assembler) Assemble(ctx context.Context, p post.Post, dir string) (string, error) {
	var parts []string

	if ref := attachment(p); ref != nil {
		clip, err := a.fetchCanonical(ctx, *ref, dir)
		if err != nil {
			return "", err
		}
		parts = append(parts, clip)
	}

	narration, err := a.narrate(ctx, p.Body(), dir)
	if err != nil {
		return "", err
	}
	if narration != "" {
		parts = append([]string{narration}, parts...)
	}

	switch len(parts) {
	case 0:
		return "", ErrEmptyNarration
	case 1:
		return parts[0], nil
	}

	out := filepath.Join(dir, "final.wav")
	if err := a.Converter.Concat(ctx, out, parts...); err != nil {
		return "", fmt.Errorf("concat: %w", err)
	}
	return out, nil
}

// Announcement is the spoken form of text: the current time, the optional
// headline tag and the text itself.
func (a *Assembler) Announcement(text string) string {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	head := hebtime.At(now().In(loc))
	if a.HeadlineTag != "" {
		head += " " + a.HeadlineTag
	}
	return head + ". " + text
}

func (a *Assembler) narrate(ctx context.Context, body, dir string) (string, error) {
	if a.StripMarkdown {
		body = textnorm.PlainText(body)
	}
	clean := a.Normalizer.Normalize(body)
	if clean == "" {
		if body != "" {
			a.Logger.Info("text empty after cleanup, skipping narration")
		}
		return "", nil
	}

	speech, err := a.Synthesizer.Synthesize(ctx, a.Announcement(clean), a.Voice)
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	if a.Voice.Ext() == ".mp3" {
		d, err := media.ProbeMP3(speech)
		if err != nil {
			return "", fmt.Errorf("synthesize: %w", err)
		}
		if d <= 0 {
			return "", errors.New("synthesize: empty mp3 stream")
		}
		a.Logger.Debug("tts ready", "duration", d.Round(time.Millisecond))
	}

	raw := filepath.Join(dir, "tts"+a.Voice.Ext())
	if err := os.WriteFile(raw, speech, 0o600); err != nil {
		return "", fmt.Errorf("write tts output: %w", err)
	}
	out := filepath.Join(dir, "narration.wav")
	if err := a.Converter.ToCanonical(ctx, raw, out); err != nil {
		return "", fmt.Errorf("convert narration: %w", err)
	}
	return out, nil
}

func (a *Assembler) fetchCanonical(ctx context.Context, ref post.MediaRef, dir string) (string, error) {
	src := filepath.Join(dir, "source"+extFor(ref.MimeType))
	if err := a.Fetcher.Fetch(ctx, ref.FileID, src); err != nil {
		return "", fmt.Errorf("fetch media %s: %w", ref.FileID, err)
	}
	out := filepath.Join(dir, "media.wav")
	if err := a.Converter.ToCanonical(ctx, src, out); err != nil {
		return "", fmt.Errorf("convert media: %w", err)
	}
	return out, nil
}

// attachment picks the media to play. Video wins over audio.
func attachment(p post.Post) *post.MediaRef {
	if p.Video != nil {
		return p.Video
	}
	return p.Audio
}

func extFor(mimeType string) string {
	if mimeType == "" {
		return ".bin"
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
