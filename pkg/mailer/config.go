package mailer

// Config holds settings shared by every transport.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Transport selects the delivery backend: "smtp" or "resend".
	Transport   string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	ContentFile string `env:"WARMUP_CONTENT_FILE"`
	// SenderName is shown next to the mailbox address in From headers.
	SenderName string `env:"MAIL_SENDER_NAME"`
}

// Transport names.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
)
