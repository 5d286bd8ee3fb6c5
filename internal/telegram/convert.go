// Package telegram feeds channel posts from the Bot API into the pipeline.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ivrbot/internal/post"
)

// ToPost converts a channel post, or a direct message, into a pipeline post.
// It reports false for updates that carry neither.
func ToPost(u tgbotapi.Update) (post.Post, bool) {
	m := u.ChannelPost
	if m == nil {
		m = u.Message
	}
	if m == nil {
		return post.Post{}, false
	}

	p := post.Post{
		MessageID: m.MessageID,
		Date:      m.Time(),
		Text:      m.Text,
		Caption:   m.Caption,
	}
	if m.Chat != nil {
		p.ChatID = m.Chat.ID
	}

	switch {
	case m.Video != nil:
		p.Video = &post.MediaRef{
			FileID:   m.Video.FileID,
			MimeType: m.Video.MimeType,
			Size:     int64(m.Video.FileSize),
			Duration: m.Video.Duration,
		}
	case m.Audio != nil:
		p.Audio = &post.MediaRef{
			FileID:   m.Audio.FileID,
			MimeType: m.Audio.MimeType,
			Size:     int64(m.Audio.FileSize),
			Duration: m.Audio.Duration,
		}
	case m.Voice != nil:
		p.Audio = &post.MediaRef{
			FileID:   m.Voice.FileID,
			MimeType: m.Voice.MimeType,
			Size:     int64(m.Voice.FileSize),
			Duration: m.Voice.Duration,
		}
	}
	return p, true
}
