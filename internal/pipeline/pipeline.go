// Package pipeline turns an admitted channel post into IVR audio and
// delivers it. Runs are serialized: one post at a time, start to finish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"ivrbot/internal/ivr"
	"ivrbot/internal/moderation"
	"ivrbot/internal/post"
)

const reportTimeout = 10 * time.Second

// Moderator decides what happens to a post.
type Moderator interface {
	Evaluate(ctx context.Context, p post.Post) moderation.Verdict
}

// Deliverer uploads a finished file to a mailbox.
type Deliverer interface {
	Deliver(ctx context.Context, file, target string) (ivr.UploadResult, error)
}

type Pipeline struct {
	mu sync.Mutex

	moderator Moderator
	assembler *Assembler
	deliverer Deliverer
	archiver  Archiver
	reporters []Reporter
	workDir   string
	logger    *log.Logger
}

type Option func(*Pipeline)

// WithArchiver keeps a copy of every delivered file.
func WithArchiver(a Archiver) Option {
	return func(p *Pipeline) { p.archiver = a }
}

// WithReporters adds outcome sinks.
func WithReporters(r ...Reporter) Option {
	return func(p *Pipeline) { p.reporters = append(p.reporters, r...) }
}

// WithWorkDir sets the parent of per-run temp directories. Empty means the
// system temp dir.
func WithWorkDir(dir string) Option {
	return func(p *Pipeline) { p.workDir = dir }
}

func New(m Moderator, a *Assembler, d Deliverer, logger *log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		moderator: m,
		assembler: a,
		deliverer: d,
		logger:    logger,
	}
	for _, o := range opts {
		o(p)
	}
	if a.Logger == nil {
		a.Logger = logger
	}
	return p
}

// Process runs one post through moderation, assembly and delivery. Every
// temporary file is gone by the time it returns.
func (p *Pipeline) Process(ctx context.Context, in post.Post) (Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rep := Report{
		RunID:     uuid.NewString(),
		ChatID:    in.ChatID,
		MessageID: in.MessageID,
		Kind:      in.Kind(),
		StartedAt: time.Now(),
	}
	logger := p.logger.With("run", rep.RunID, "kind", rep.Kind)

	if in.Empty() {
		logger.Debug("empty post, skipping")
		return rep, nil
	}

	verdict := p.moderator.Evaluate(ctx, in)
	rep.Action = verdict.Action
	rep.Target = verdict.Target
	rep.Reason = verdict.Reason
	rep.Redirected = verdict.Redirected

	var err error
	if verdict.Admitted() {
		err = p.run(ctx, logger, in, &rep)
	} else {
		logger.Info("post rejected", "reason", verdict.Reason)
	}

	rep.Duration = time.Since(rep.StartedAt).Round(time.Millisecond).String()
	if err != nil {
		rep.Error = err.Error()
		if errors.Is(err, ErrEmptyNarration) {
			logger.Info("post dropped", "err", err)
		} else {
			logger.Error("run failed", "err", err)
		}
	}
	p.report(ctx, logger, rep)
	return rep, err
}

func (p *Pipeline) run(ctx context.Context, logger *log.Logger, in post.Post, rep *Report) error {
	dir, err := os.MkdirTemp(p.workDir, "run-"+rep.RunID+"-")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("could not remove work dir", "dir", dir, "err", err)
		}
	}()

	final, err := p.assembler.Assemble(ctx, in, dir)
	if err != nil {
		return err
	}

	res, err := p.deliverer.Deliver(ctx, final, rep.Target)
	if err != nil {
		return fmt.Errorf("deliver: %w", err)
	}
	rep.UploadStatus = res.Status
	rep.UploadBody = res.Body
	rep.CalloutFired = res.CalloutFired
	logger.Info("delivered", "target", rep.Target, "redirected", rep.Redirected, "callout", res.CalloutFired)

	if p.archiver != nil {
		key := rep.StartedAt.UTC().Format(time.DateOnly) + "/" + rep.RunID + ".wav"
		if err := p.archiver.Archive(ctx, key, final); err != nil {
			logger.Warn("archive failed", "key", key, "err", err)
		} else {
			rep.ArchiveKey = key
		}
	}
	return nil
}

func (p *Pipeline) report(ctx context.Context, logger *log.Logger, rep Report) {
	if len(p.reporters) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	for _, r := range p.reporters {
		if err := r.Report(ctx, rep); err != nil {
			logger.Warn("reporter failed", "reporter", fmt.Sprintf("%T", r), "err", err)
		}
	}
}
