// Package post defines the inbound channel post handed to the pipeline.
package post

import (
	"strings"
	"time"
)

// MediaRef points at an attached media file on the chat platform.
type MediaRef struct {
	FileID   string
	MimeType string
	Size     int64
	Duration int
}

// Post is one inbound update. At least one of the fields may be set; a post
// with none is a no-op.
type Post struct {
	ChatID    int64
	MessageID int
	Date      time.Time

	Text    string
	Caption string
	Video   *MediaRef
	Audio   *MediaRef
}

// Body returns the text, or the caption when there is no text.
func (p Post) Body() string {
	if p.Text != "" {
		return p.Text
	}
	return p.Caption
}

func (p Post) HasText() bool  { return strings.TrimSpace(p.Body()) != "" }
func (p Post) HasVideo() bool { return p.Video != nil }
func (p Post) HasAudio() bool { return p.Audio != nil }

func (p Post) Empty() bool {
	return !p.HasText() && !p.HasVideo() && !p.HasAudio()
}

type Kind string

const (
	KindEmpty     Kind = "empty"
	KindText      Kind = "text"
	KindVideo     Kind = "video"
	KindVideoText Kind = "video+text"
	KindAudio     Kind = "audio"
	KindAudioText Kind = "audio+text"
)

func (p Post) Kind() Kind {
	switch {
	case p.HasVideo() && p.HasText():
		return KindVideoText
	case p.HasVideo():
		return KindVideo
	case p.HasAudio() && p.HasText():
		return KindAudioText
	case p.HasAudio():
		return KindAudio
	case p.HasText():
		return KindText
	default:
		return KindEmpty
	}
}
