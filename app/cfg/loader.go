package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"golazo_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"golazo_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"golazo" description:"Database name"`

	// Application configuration
	PolicyFile      string `long:"policy-file" env:"POLICY_FILE" default:"./policy.yml" description:"Quality policy and keyword table file"`
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	ProviderTimeout int    `long:"provider-timeout" env:"PROVIDER_TIMEOUT" default:"8" description:"Per-provider timeout in seconds for enrichment cascades"`

	// Source platform credentials
	YouTubeAPIKey      string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API v3 key"`
	TwitchClientID     string `long:"twitch-client-id" env:"TWITCH_CLIENT_ID" description:"Twitch application client ID"`
	TwitchClientSecret string `long:"twitch-client-secret" env:"TWITCH_CLIENT_SECRET" description:"Twitch application client secret"`

	// Enrichment providers
	GeminiAPIKey   string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for classification/summary"`
	GeminiModel    string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-flash-lite-latest" description:"Gemini model name"`
	OpenAIEndpoint string `long:"openai-endpoint" env:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1/chat/completions" description:"OpenAI-compatible chat completions endpoint"`
	OpenAIAPIKey   string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI-compatible API key"`
	OpenAIModel    string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"OpenAI-compatible model name"`

	// Notification delivery
	MailEndpoint string `long:"mail-endpoint" env:"MAIL_ENDPOINT" description:"HTTP mail API endpoint for notification delivery"`
	MailAPIKey   string `long:"mail-api-key" env:"MAIL_API_KEY" description:"HTTP mail API key"`
	MailFrom     string `long:"mail-from" env:"MAIL_FROM" default:"noreply@golazo.tv" description:"Sender address for notification emails"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Golazo/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Madrid)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:             raw.DBHost,
		DBPort:             raw.DBPort,
		DBUser:             raw.DBUser,
		DBPassword:         raw.DBPassword,
		DBName:             raw.DBName,
		PolicyFile:         raw.PolicyFile,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		ProviderTimeout:    raw.ProviderTimeout,
		YouTubeAPIKey:      raw.YouTubeAPIKey,
		TwitchClientID:     raw.TwitchClientID,
		TwitchClientSecret: raw.TwitchClientSecret,
		GeminiAPIKey:       raw.GeminiAPIKey,
		GeminiModel:        raw.GeminiModel,
		OpenAIEndpoint:     raw.OpenAIEndpoint,
		OpenAIAPIKey:       raw.OpenAIAPIKey,
		OpenAIModel:        raw.OpenAIModel,
		MailEndpoint:       raw.MailEndpoint,
		MailAPIKey:         raw.MailAPIKey,
		MailFrom:           raw.MailFrom,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
