package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// SMTPConfig holds mail server connection settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers passcodes via email over implicit TLS.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier constructs the notifier.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// SendOtp mails the passcode to the identity's address.
func (n *SMTPNotifier) SendOtp(ctx context.Context, email, passcode string) error {
	msg := []byte(
		fmt.Sprintf("From: %s\r\n", n.cfg.From) +
			fmt.Sprintf("To: %s\r\n", email) +
			"Subject: Your one-time passcode\r\n" +
			"\r\n" +
			fmt.Sprintf("Your passcode is %s. It expires in 5 minutes.\r\n", passcode),
	)

	serverAddr := n.cfg.Host + ":" + n.cfg.Port

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: n.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit() //nolint:errcheck

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(n.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(email); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
