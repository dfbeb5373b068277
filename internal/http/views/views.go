// Package views отрисовывает HTML-страницы регистрации и выдачи токена.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

// Имена шаблонов.
const (
	Register = "register.html"
	Token    = "token.html"
)

// RegisterPage данные страницы регистрации.
type RegisterPage struct {
	Email   string
	Error   string
	Success bool
}

// TokenPage данные страницы выдачи токена.
type TokenPage struct {
	Email  string
	Error  string
	Token  string
	Header string
}

// Render отрисовывает шаблон name и пишет его с кодом status.
// Шаблон сначала рендерится в буфер, чтобы ошибка не оставила половину страницы.
func Render(w http.ResponseWriter, status int, name string, data any) error {
	const op = "views.Render"
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
