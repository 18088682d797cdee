package handlers

import (
	"errors"
	"log"
	"net/http"

	"lireddit/internal/client"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if me := CurrentMe(c); me != nil {
		obj["Me"] = me
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// HTMX Redirect helper
func HtmxRedirect(c *gin.Context, path string) {
	c.Header("HX-Redirect", path)
	c.Status(http.StatusOK)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": "Error", "Error": message})
}

// apiError handles an error from the API client: authentication failures go
// to the login page, anything else is a bad gateway.
func apiError(c *gin.Context, err error) {
	if errors.Is(err, client.ErrNotAuthenticated) {
		RedirectToLogin(c)
		return
	}
	log.Printf("[web] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	RenderError(c, http.StatusBadGateway, "Something went wrong talking to the API.")
}
