package config

import "time"

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`

	TelegramBotToken string        `envconfig:"BOT_TOKEN" required:"true"`
	SourceChatIDs    []int64       `envconfig:"SOURCE_CHAT_IDS"`
	PollTimeout      int           `envconfig:"POLL_TIMEOUT" default:"30"`
	RestartBackoff   time.Duration `envconfig:"RESTART_BACKOFF" default:"10s"`

	YmotToken      string `envconfig:"YMOT_TOKEN" required:"true"`
	YmotPath       string `envconfig:"YMOT_PATH" default:"ivr2:95/"`
	YmotReviewPath string `envconfig:"YMOT_REVIEW_PATH" default:"ivr2:95/"`
	YmotUploadURL  string `envconfig:"YMOT_UPLOAD_URL" default:"https://call2all.co.il/ym/api/UploadFile"`

	CalloutEnabled     bool          `envconfig:"CALLOUT_ENABLED" default:"false"`
	CalloutURL         string        `envconfig:"YMOT_CALLOUT_URL" default:"https://www.call2all.co.il/ym/api/RunTzintuk"`
	CalloutCallerID    string        `envconfig:"CALLOUT_CALLER_ID"`
	CalloutPhones      string        `envconfig:"CALLOUT_PHONES"`
	CalloutRingSeconds int           `envconfig:"CALLOUT_RING_SECONDS" default:"9"`
	CalloutHTTPTimeout time.Duration `envconfig:"CALLOUT_HTTP_TIMEOUT" default:"10s"`
	CalloutEvery       int           `envconfig:"CALLOUT_EVERY" default:"5"`
	CalloutInterval    time.Duration `envconfig:"CALLOUT_INTERVAL" default:"60m"`
	QuietFromHour      int           `envconfig:"CALLOUT_QUIET_FROM" default:"0"`
	QuietUntilHour     int           `envconfig:"CALLOUT_QUIET_UNTIL" default:"8"`

	GoogleCredentialsB64 string  `envconfig:"GOOGLE_APPLICATION_CREDENTIALS_B64" required:"true"`
	VoiceLanguage        string  `envconfig:"TTS_LANGUAGE" default:"he-IL"`
	VoiceName            string  `envconfig:"TTS_VOICE" default:"he-IL-Wavenet-B"`
	SpeakingRate         float64 `envconfig:"TTS_SPEAKING_RATE" default:"1.2"`

	ClassifierProvider   string        `envconfig:"CLASSIFIER_PROVIDER" default:"gemini"`
	ClassifierModel      string        `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.0-flash"`
	ClassifierAPIKey     string        `envconfig:"GEMINI_API_KEY"`
	ClassifierBaseURL    string        `envconfig:"CLASSIFIER_BASE_URL"`
	ClassifierPromptFile string        `envconfig:"CLASSIFIER_PROMPT_FILE" default:"gemini_prompt.txt"`
	ClassifierTimeout    time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"20s"`
	OnClassifierError    string        `envconfig:"ON_CLASSIFIER_ERROR" default:"admit"`

	PolicyFile    string `envconfig:"POLICY_FILE"`
	Timezone      string `envconfig:"TIMEZONE" default:"Asia/Jerusalem"`
	HeadlineTag   string `envconfig:"HEADLINE_TAG"`
	StripMarkdown bool   `envconfig:"STRIP_MARKDOWN" default:"false"`
	FFmpegPath    string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	WorkDir       string `envconfig:"WORK_DIR"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogFile  string `envconfig:"LOG_FILE" default:"log.txt"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	ArchiveBucket string   `envconfig:"ARCHIVE_BUCKET"`
	AuditTable    string   `envconfig:"AUDIT_TABLE"`
	AuditEndpoint string   `envconfig:"AUDIT_ENDPOINT"`
	AMQPURL       string   `envconfig:"AMQP_URL"`
	AMQPExchange  string   `envconfig:"AMQP_EXCHANGE" default:"ivr_pipeline"`
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic    string   `envconfig:"KAFKA_TOPIC" default:"ivr-pipeline-reports"`
}
