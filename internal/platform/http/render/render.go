// Package render writes page responses. A page is the name of the template
// the client should render plus its context, serialized as JSON.
package render

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"enterprise_backend/internal/shared/apperror"
	"enterprise_backend/internal/shared/validation"
)

// View is the context handed to a template.
type View struct {
	Template string                 `json:"template"`
	Title    string                 `json:"title,omitempty"`
	Flashes  []string               `json:"flashes"`
	Errors   validation.FieldErrors `json:"errors,omitempty"`
	Data     any                    `json:"data,omitempty"`
}

// Page writes v with the given status.
func Page(c *gin.Context, status int, v View) {
	if v.Flashes == nil {
		v.Flashes = []string{}
	}
	c.JSON(status, v)
}

// Redirect sends a 302 to location.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// FormError re-renders the form in v with the field messages carried by err.
// Errors outside the apperror taxonomy become a bare 500 page.
func FormError(c *gin.Context, v View, err error) {
	if _, ok := apperror.As(err); !ok || apperror.KindOf(err) == apperror.KindStorageError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		InternalError(c)
		return
	}
	v.Errors = validation.FromError(err)
	Page(c, apperror.HTTPStatus(err), v)
}

// NotFound renders the 404 page.
func NotFound(c *gin.Context, flashes []string) {
	Page(c, http.StatusNotFound, View{Template: "404.html", Title: "Not Found", Flashes: flashes})
}

// InternalError renders the 500 page without any detail.
func InternalError(c *gin.Context) {
	Page(c, http.StatusInternalServerError, View{Template: "500.html", Title: "Error"})
}
