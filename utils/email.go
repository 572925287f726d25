package utils

import (
	"errors"

	"mfgledger/config"

	"gopkg.in/gomail.v2"
)

func SendEmail(cfg config.SMTPConfig, subject, body string) error {
	if !cfg.Enabled() {
		return errors.New("smtp is not configured")
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", cfg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)

	return d.DialAndSend(m)
}
