package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	PolicyFile      string
	Port            string
	APIAccessKey    string
	ProviderTimeout int

	// Source platform credentials
	YouTubeAPIKey      string
	TwitchClientID     string
	TwitchClientSecret string

	// Enrichment providers
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIEndpoint string
	OpenAIAPIKey   string
	OpenAIModel    string

	// Notification delivery
	MailEndpoint string
	MailAPIKey   string
	MailFrom     string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
