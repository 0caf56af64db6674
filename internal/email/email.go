package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"futurama-api/internal/config"

	"go.uber.org/zap"
)

// Message письмо одному получателю.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender отправляет письма.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender отправка через SMTP с STARTTLS и PLAIN auth.
type SMTPSender struct {
	cfg     *config.Email
	timeout time.Duration
	log     *zap.Logger
}

// NewSMTPSender создает SMTP отправителя.
func NewSMTPSender(cfg *config.Email, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, timeout: 30 * time.Second, log: log}
}

// Send доставляет письмо.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Host == "" {
		return errors.New("email host is not configured")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.cfg.User != "" && s.cfg.Password != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(s.cfg, msg))); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	if err := client.Quit(); err != nil {
		s.log.Debug("SMTP quit failed", zap.Error(err))
	}

	s.log.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func buildMessage(cfg *config.Email, msg Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return b.String()
}

// LogSender пишет письма в лог вместо отправки, когда SEND_EMAILS выключен.
type LogSender struct {
	log *zap.Logger
}

// NewLogSender создает отправителя-заглушку.
func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send логирует письмо.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email sending disabled, message skipped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// New выбирает отправителя по флагу.
func New(cfg *config.Config, log *zap.Logger) Sender {
	if cfg.Features.SendEmails {
		return NewSMTPSender(&cfg.Email, log)
	}
	return NewLogSender(log)
}
