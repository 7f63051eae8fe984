package smtp

// TLS modes accepted by Config.TLSMode.
const (
	TLSModeSTARTTLS = "starttls"
	TLSModeTLS      = "tls"
	TLSModePlain    = "plain"
)

// Config holds SMTP server configuration.
type Config struct {
	Host         string `env:"SMTP_HOST,required"`
	Port         int    `env:"SMTP_PORT" envDefault:"587"`
	Username     string `env:"SMTP_USERNAME,required"`
	Password     string `env:"SMTP_PASSWORD,required"`
	TLSMode      string `env:"SMTP_TLS_MODE" envDefault:"starttls"`
	SenderEmail  string `env:"SENDER_EMAIL,required"`
	SupportEmail string `env:"SUPPORT_EMAIL,required"`
}
