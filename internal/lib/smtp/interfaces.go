// Package smtp предоставляет транспорт для отправки писем с уведомлениями.
package smtp

import "io"

// Client интерфейс SMTP клиента, реализуемый обёрткой над *smtp.Client.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
