// Package report отправляет внутренние ошибки в Sentry. Если клиент Sentry
// не инициализирован, вызовы ничего не делают.
package report

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// Error сообщает об ошибке в Sentry, используя hub запроса, если он есть.
func Error(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.CaptureException(err)
}
