package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/charmbracelet/log"

	"ivrbot/internal/archive"
	"ivrbot/internal/audit"
	"ivrbot/internal/classifier"
	"ivrbot/internal/config"
	"ivrbot/internal/events"
	"ivrbot/internal/ivr"
	"ivrbot/internal/keepalive"
	"ivrbot/internal/logging"
	"ivrbot/internal/media"
	"ivrbot/internal/moderation"
	"ivrbot/internal/pipeline"
	"ivrbot/internal/telegram"
	"ivrbot/internal/textnorm"
	"ivrbot/internal/tts"
)

type app struct {
	pipeline  *pipeline.Pipeline
	assembler *pipeline.Assembler
	closers   []func() error
}

func (a *app) close(logger *log.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close", "err", err)
		}
	}
}

func main() {
	cfg := &config.Config{}
	if err := config.Load(cfg, ""); err != nil {
		log.Fatal("can't load config", "err", err)
	}

	logger, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatal("can't open log", "err", err)
	}
	defer closeLog()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", "err", err)
	}
	defer a.close(logger)

	go func() {
		if err := keepalive.Run(ctx, cfg.HTTPAddr, 5*time.Second, logger); err != nil {
			logger.Error("keepalive server stopped", "err", err)
		}
	}()

	for {
		err := listen(ctx, cfg, a, logger)
		if ctx.Err() != nil {
			logger.Info("shutting down")
			return
		}
		logger.Error("listener stopped, restarting", "err", err, "backoff", cfg.RestartBackoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.RestartBackoff):
		}
	}
}

// listen runs one ingestion lifecycle. Panics are turned into errors so the
// caller can restart it.
func listen(ctx context.Context, cfg *config.Config, a *app, logger *log.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	bot, err := telegram.NewBot(cfg.TelegramBotToken, logger)
	if err != nil {
		return err
	}
	// No run is in flight between lifecycles, so the fetcher can be swapped.
	a.assembler.Fetcher = telegram.NewFetcher(bot, nil)

	l := telegram.NewListener(bot, a.pipeline, cfg.SourceChatIDs, cfg.PollTimeout, logger)
	return l.Run(ctx)
}

func build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	a := &app{}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	logger.Info("policy loaded", "version", policy.Version)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %s: %w", cfg.Timezone, err)
	}

	prompt, err := config.LoadPrompt(cfg.ClassifierPromptFile, classifier.DefaultInstructions)
	if err != nil {
		return nil, err
	}
	screen, err := classifier.New(ctx, classifier.Settings{
		Provider:     cfg.ClassifierProvider,
		Model:        cfg.ClassifierModel,
		APIKey:       cfg.ClassifierAPIKey,
		BaseURL:      cfg.ClassifierBaseURL,
		Instructions: prompt,
	})
	if err != nil {
		return nil, err
	}
	if screen == nil {
		logger.Warn("no classifier API key, AI screen disabled")
	}

	engine := moderation.NewEngine(moderation.Rules{
		DefaultTarget:     cfg.YmotPath,
		ReviewTarget:      cfg.YmotReviewPath,
		WhitelistedPhones: policy.WhitelistedPhones,
		WhitelistedLinks:  policy.WhitelistedLinks,
		ForbiddenWords:    policy.ForbiddenWords,
		ForbiddenMatch:    moderation.MatchMode(policy.ForbiddenMatch),
		RejectForbidden:   policy.ForbiddenAction == "reject",
		OnClassifierError: moderation.OnError(cfg.OnClassifierError),
		ClassifierTimeout: cfg.ClassifierTimeout,
	}, screen, logger)

	creds, err := cfg.GoogleCredentials()
	if err != nil {
		return nil, err
	}
	speech, err := tts.NewGoogle(ctx, creds)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, speech.Close)

	a.assembler = &pipeline.Assembler{
		Synthesizer: speech,
		Converter:   media.NewFFmpeg(cfg.FFmpegPath, logger),
		Normalizer:  textnorm.New(policy.BlockedPhrases),
		Voice: tts.Voice{
			LanguageCode: cfg.VoiceLanguage,
			Name:         cfg.VoiceName,
			Male:         true,
			SpeakingRate: cfg.SpeakingRate,
			Encoding:     "mp3",
		},
		Location:      loc,
		HeadlineTag:   cfg.HeadlineTag,
		StripMarkdown: cfg.StripMarkdown,
		Logger:        logger,
	}

	var throttle *ivr.Throttle
	if cfg.CalloutEnabled {
		throttle = ivr.NewThrottle(cfg.CalloutEvery, cfg.CalloutInterval,
			cfg.QuietFromHour, cfg.QuietUntilHour, loc, time.Now())
	}
	dispatcher := ivr.NewDispatcher(
		ivr.NewClient(cfg.YmotToken, cfg.YmotUploadURL, cfg.CalloutURL, nil, cfg.CalloutHTTPTimeout),
		throttle,
		ivr.CalloutRequest{
			CallerID:    cfg.CalloutCallerID,
			Phones:      cfg.CalloutPhones,
			RingSeconds: cfg.CalloutRingSeconds,
		},
		logger,
	)

	opts := []pipeline.Option{pipeline.WithWorkDir(cfg.WorkDir)}
	if cfg.ArchiveBucket != "" || cfg.AuditTable != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		if cfg.ArchiveBucket != "" {
			opts = append(opts, pipeline.WithArchiver(archive.New(awsCfg, cfg.ArchiveBucket)))
			logger.Info("archiving deliveries", "bucket", cfg.ArchiveBucket)
		}
		if cfg.AuditTable != "" {
			opts = append(opts, pipeline.WithReporters(audit.New(awsCfg, cfg.AuditTable, cfg.AuditEndpoint)))
			logger.Info("recording history", "table", cfg.AuditTable)
		}
	}
	if cfg.AMQPURL != "" {
		pub := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		a.closers = append(a.closers, pub.Close)
		opts = append(opts, pipeline.WithReporters(pub))
		logger.Info("publishing reports to RabbitMQ", "exchange", cfg.AMQPExchange)
	}
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, pub.Close)
		opts = append(opts, pipeline.WithReporters(pub))
		logger.Info("publishing reports to Kafka", "topic", cfg.KafkaTopic)
	}

	a.pipeline = pipeline.New(engine, a.assembler, dispatcher, logger, opts...)
	return a, nil
}
