// Package notfound отвечает на запросы к несуществующим маршрутам.
package notfound

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mail-gateway/internal/http/response"
)

// ServeHTTP отвечает 404 {"statusCode":404,"message":"Not found"}.
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.NotFound())
}
