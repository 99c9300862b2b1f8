package sms

// Config holds SMS gateway configuration. The gateway is any HTTP API that
// accepts a JSON {to, message, from} body with bearer authentication.
type Config struct {
	APIURL   string `env:"SMS_API_URL,required"`
	APIKey   string `env:"SMS_API_KEY,required"`
	SenderID string `env:"SMS_SENDER_ID" envDefault:"University"`
}
