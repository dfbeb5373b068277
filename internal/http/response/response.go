// Package response содержит типы JSON-ответов HTTP-обработчиков и
// преобразование ошибок валидации в человекочитаемый текст.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
)

// Message ответ вида {"message": "..."}; используется для ошибок JSON-эндпоинтов.
type Message struct {
	Message string `json:"message" example:"Unauthorized"`
}

// NotFoundResponse тело ответа для несуществующих маршрутов.
type NotFoundResponse struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message" example:"Not found"`
}

// SendResult результат отправки письма: либо id и status, либо error.
type SendResult struct {
	ID     string `json:"id,omitempty" example:"<0f8fad5b-d9cb-469f-a165-70867728950e@smtp.ethereal.email>"`
	Status string `json:"status,omitempty" example:"250 Accepted by smtp.ethereal.email:465"`
	Error  string `json:"error,omitempty" example:"535 Authentication failed"`
}

// Msg возвращает Message с текстом msg.
func Msg(msg string) Message {
	return Message{Message: msg}
}

// Unauthorized ответ проверки доступа.
func Unauthorized() Message {
	return Msg("Unauthorized")
}

// Internal ответ для внутренних ошибок; детали ошибки не раскрываются.
func Internal() Message {
	return Msg("Internal server error")
}

// NotFound возвращает тело ответа 404.
func NotFound() NotFoundResponse {
	return NotFoundResponse{StatusCode: http.StatusNotFound, Message: "Not found"}
}

// ValidationError собирает нарушения правил валидации в одну строку через запятую.
func ValidationError(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}
