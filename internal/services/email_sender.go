package services

type EmailSender interface {
	Send(to string, subject string, body string) error
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) Send(to string, subject string, body string) error { return nil }
