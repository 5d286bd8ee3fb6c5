package telegram

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ivrbot/internal/pipeline"
	"ivrbot/internal/post"
)

// Processor handles one post at a time.
type Processor interface {
	Process(ctx context.Context, p post.Post) (pipeline.Report, error)
}

// Listener long-polls the Bot API and hands posts to a Processor in arrival
// order.
type Listener struct {
	bot       *tgbotapi.BotAPI
	processor Processor
	chats     map[int64]struct{}
	timeout   int
	logger    *log.Logger
}

// NewListener builds a listener. An empty chatIDs accepts every chat.
func NewListener(bot *tgbotapi.BotAPI, processor Processor, chatIDs []int64, pollTimeout int, logger *log.Logger) *Listener {
	chats := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		chats[id] = struct{}{}
	}
	return &Listener{
		bot:       bot,
		processor: processor,
		chats:     chats,
		timeout:   pollTimeout,
		logger:    logger,
	}
}

// Run polls until ctx is done. It returns ctx.Err() on shutdown and an error
// if the update stream ends for any other reason.
func (l *Listener) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = l.timeout
	u.AllowedUpdates = []string{"message", "channel_post"}

	updates := l.bot.GetUpdatesChan(u)
	defer l.bot.StopReceivingUpdates()
	l.logger.Info("listening for posts", "account", l.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return errors.New("update stream closed")
			}
			l.handle(ctx, upd)
		}
	}
}

func (l *Listener) handle(ctx context.Context, upd tgbotapi.Update) {
	p, ok := ToPost(upd)
	if !ok {
		return
	}
	if !l.accepts(p.ChatID) {
		l.logger.Debug("ignoring chat", "chat", p.ChatID)
		return
	}
	l.logger.Info("post received", "chat", p.ChatID, "message", p.MessageID, "kind", p.Kind())
	// the pipeline logs its own failures
	_, _ = l.processor.Process(ctx, p)
}

func (l *Listener) accepts(chatID int64) bool {
	if len(l.chats) == 0 {
		return true
	}
	_, ok := l.chats[chatID]
	return ok
}
