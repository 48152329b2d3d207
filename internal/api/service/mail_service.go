package service

import (
	"fmt"

	"tccapi"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

// MailService delivers best-effort advisor notifications over SMTP. A failed
// or unconfigured send never affects the operation that triggered it.
type MailService struct {
	logger zerolog.Logger
}

func NewMailService() *MailService {
	return &MailService{
		logger: tccapi.Logger,
	}
}

// Enabled reports whether SMTP and an advisor address are configured.
func (slf *MailService) Enabled() bool {
	cfg := tccapi.GetConfig()
	return cfg.SmtpConfig.Host != "" && cfg.NotificationConfig.AdvisorEmail != ""
}

// NotifyAdvisor mails the advisor about a new message on a trabalho. Returns
// nil when notification is disabled by configuration.
func (slf *MailService) NotifyAdvisor(sender string, text string) error {
	if !slf.Enabled() {
		slf.logger.Debug().Msg("Advisor notification disabled, skipping")
		return nil
	}
	cfg := tccapi.GetConfig().SmtpConfig
	advisor := tccapi.GetConfig().NotificationConfig.AdvisorEmail

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return fmt.Errorf("failed to set from: %w", err)
	}
	if err := m.To(advisor); err != nil {
		return fmt.Errorf("failed to set to: %w", err)
	}
	m.Subject("Nova mensagem de TCC")
	m.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf("Mensagem de: %s\n\n%s", sender, text))

	tlsPolicy := gomail.TLSOpportunistic
	if cfg.UseTLS {
		tlsPolicy = gomail.TLSMandatory
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy),
	}
	if cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	slf.logger.Info().Str("advisor", advisor).Msg("Advisor notified of new message")
	return nil
}
