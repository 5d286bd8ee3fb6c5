package telegram

import (
	"fmt"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewBot authorizes against the Bot API and routes the library's own logs
// through logger at debug level.
func NewBot(token string, logger *log.Logger) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel})); err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	bot.Debug = logger.GetLevel() <= log.DebugLevel
	logger.Info("authorized", "account", bot.Self.UserName)
	return bot, nil
}
