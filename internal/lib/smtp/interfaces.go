// Package smtp отправляет письма через SMTP-релей с помощью go-mail.
package smtp

import (
	mail "github.com/go-mail/mail"
)

// Dialer открывает соединение с SMTP-сервером и отправляет сообщения.
// Реализуется *mail.Dialer; в тестах подменяется моком.
type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}
