// Package info отдает метаданные приложения.
package info

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response метаданные приложения.
type Response struct {
	AppName string `json:"appName" example:"Cyber Stack"`
	Version string `json:"version" example:"1.0.0"`
}

// Handler отдает имя и версию приложения.
type Handler struct {
	resp Response
}

// New создает Handler.
func New(appName, version string) *Handler {
	return &Handler{resp: Response{AppName: appName, Version: version}}
}

// ServeHTTP godoc
// @Summary      Метаданные приложения
// @Tags         info
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  info.Response
// @Failure      403  {object}  response.Message
// @Router       / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.resp)
}
