package email

// Config holds email adapter configuration.
// Postmark tokens are optional so development environments can swap in the
// dev adapter; SenderEmail establishes the from identity for all outbound
// mail and SupportEmail the reply-to.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}
