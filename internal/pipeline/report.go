package pipeline

import (
	"context"
	"time"

	"ivrbot/internal/moderation"
	"ivrbot/internal/post"
)

// Report is the outcome of one pipeline run.
type Report struct {
	RunID     string    `json:"run_id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	Kind      post.Kind `json:"kind"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Action     moderation.Action `json:"action"`
	Target     string            `json:"target,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Redirected bool              `json:"redirected"`

	UploadStatus int    `json:"upload_status,omitempty"`
	UploadBody   string `json:"upload_body,omitempty"`
	CalloutFired bool   `json:"callout_fired"`
	ArchiveKey   string `json:"archive_key,omitempty"`

	Error string `json:"error,omitempty"`
}

// Delivered reports whether the audio reached the platform.
func (r Report) Delivered() bool { return r.UploadStatus != 0 }

// Reporter receives every finished report. Failures are logged by the
// pipeline and never affect the run.
type Reporter interface {
	Report(ctx context.Context, r Report) error
}

// Archiver stores a copy of the delivered audio under key.
type Archiver interface {
	Archive(ctx context.Context, key, file string) error
}
