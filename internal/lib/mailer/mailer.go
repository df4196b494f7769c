package mailer

import (
	"fmt"

	"distro-go/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// send delivers one HTML mail through the configured SMTP server.
func send(to, subject, body string) error {
	cfg := config.Cfg.Mail

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %v", to, err)
	}
	return nil
}

// SendVerification mails a new user their account verification link.
func SendVerification(to, name, token string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome aboard. Verify your account with the token below:</p>
		<h2>%s</h2>
		<p>If you did not register, ignore this mail.</p>`, name, token)
	return send(to, "Verify your account", body)
}

// SendOTP mails a 6-digit one-time code, used for password resets and the
// standalone OTP endpoint.
func SendOTP(to, code string) error {
	body := fmt.Sprintf(`
		<p>Your one-time code is:</p>
		<h2>%s</h2>
		<p>It expires shortly. Do not share it with anyone.</p>`, code)
	return send(to, "Your one-time code", body)
}

// SendPasswordChanged confirms a completed password reset.
func SendPasswordChanged(to, name string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your password was changed. If this was not you, contact an administrator immediately.</p>`, name)
	return send(to, "Password changed", body)
}
