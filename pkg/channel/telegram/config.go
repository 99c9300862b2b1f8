package telegram

// Config holds Telegram bot configuration.
type Config struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	APIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
}
