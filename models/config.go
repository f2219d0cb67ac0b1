package models

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	UpbitAccessKey string `envconfig:"UPBIT_ACCESS_KEY"`
	UpbitSecretKey string `envconfig:"UPBIT_SECRET_KEY"`
	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`

	// TargetCoin pins trading to one market (e.g. "KRW-BTC"). "AUTO"
	// enables ranking-based selection every CoinSelectionInterval.
	TargetCoin string `envconfig:"TARGET_COIN" default:"AUTO"`

	MinTradeAmount float64 `envconfig:"MIN_TRADE_AMOUNT" default:"5000"` // KRW
	MinConfidence  int     `envconfig:"MIN_CONFIDENCE" default:"6"`

	TradeInterval         int `envconfig:"TRADE_INTERVAL" default:"30"`            // seconds
	CoinSelectionInterval int `envconfig:"COIN_SELECTION_INTERVAL" default:"3600"` // seconds
	RequestTimeout        int `envconfig:"REQUEST_TIMEOUT" default:"10"`           // seconds
	AdvisorTimeout        int `envconfig:"ADVISOR_TIMEOUT" default:"30"`           // seconds

	DailyCandleCount  int `envconfig:"DAILY_CANDLE_COUNT" default:"30"`
	HourlyCandleCount int `envconfig:"HOURLY_CANDLE_COUNT" default:"24"`
	FearGreedLimit    int `envconfig:"FNG_DATA_LIMIT" default:"7"`

	SignalWorkers int `envconfig:"SIGNAL_WORKERS" default:"10"`

	NewsAnalysisEnabled bool   `envconfig:"NEWS_ANALYSIS_ENABLED" default:"false"`
	SerpAPIKey          string `envconfig:"SERPAPI_KEY"`

	DatabaseURL      string `envconfig:"DATABASE_URL"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DryRun   bool   `envconfig:"DRY_RUN" default:"false"`
}
