package push

// Config holds push gateway configuration, FCM-compatible by default.
type Config struct {
	APIURL    string `env:"PUSH_API_URL" envDefault:"https://fcm.googleapis.com/fcm/send"`
	ServerKey string `env:"PUSH_SERVER_KEY,required"`
}
