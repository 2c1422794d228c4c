package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
)

const dialTimeout = 10 * time.Second

// ErrNoStartTLS сервер не поддерживает STARTTLS, отправлять пароль открытым текстом нельзя.
var ErrNoStartTLS = errors.New("smtp server does not support STARTTLS")

// Transport устанавливает аутентифицированные TLS-соединения с SMTP сервером.
type Transport struct {
	cfg config.SMTP
	log *slog.Logger
}

type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error        { return w.client.Mail(from) }
func (w *smtpClientWrapper) Rcpt(to string) error          { return w.client.Rcpt(to) }
func (w *smtpClientWrapper) Data() (io.WriteCloser, error) { return w.client.Data() }
func (w *smtpClientWrapper) Quit() error                   { return w.client.Quit() }
func (w *smtpClientWrapper) Close() error                  { return w.client.Close() }

// NewTransport создаёт Transport по настройкам SMTP.
func NewTransport(cfg config.SMTP, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// Connect подключается к серверу, включает STARTTLS и проходит PLAIN-аутентификацию.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: new client: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		t.closeClient(client)
		return nil, fmt.Errorf("%s: %w", op, ErrNoStartTLS)
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		t.closeClient(client)
		return nil, fmt.Errorf("%s: start tls: %w", op, err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.closeClient(client)
		return nil, fmt.Errorf("%s: auth: %w", op, err)
	}

	return &smtpClientWrapper{client: client}, nil
}

// GetSMTPUser возвращает адрес отправителя.
func (t *Transport) GetSMTPUser() string {
	return t.cfg.SMTPUser
}

func (t *Transport) closeClient(client *smtp.Client) {
	if err := client.Close(); err != nil {
		t.log.Error("failed to close smtp client", sl.Err(err))
	}
}
