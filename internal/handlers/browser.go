package handlers

import (
	"log"
	"net/http"
	"net/url"

	"lireddit/internal/client"
	"lireddit/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// BrowserIDKey is the web session field naming the browser's API client.
	BrowserIDKey = "browser_id"
	// ClientKey is the gin context key holding the browser's *client.Client.
	ClientKey = "api_client"
	// MeKey is the gin context key holding the logged in *client.User.
	MeKey = "me"
)

// BrowserClient gives every browser its own API client, and with it its own
// API session cookie and normalized cache. Clients idle out of clients.
func BrowserClient(clients *utils.TTLCache[*client.Client], newClient func() *client.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(BrowserIDKey).(string)
		if id == "" {
			id = uuid.NewString()
			session.Set(BrowserIDKey, id)
			if err := session.Save(); err != nil {
				log.Printf("[web] save session: %v", err)
			}
		}

		api, ok := clients.Get(id)
		if !ok {
			api = newClient()
			clients.Set(id, api)
		}
		c.Set(ClientKey, api)

		me, err := api.Me(c.Request.Context())
		if err != nil {
			log.Printf("[web] load me: %v", err)
		} else if me != nil {
			c.Set(MeKey, me)
		}
		c.Next()
	}
}

// APIClient returns the client BrowserClient attached.
func APIClient(c *gin.Context) *client.Client {
	return c.MustGet(ClientKey).(*client.Client)
}

// CurrentMe returns the logged in user or nil.
func CurrentMe(c *gin.Context) *client.User {
	if v, ok := c.Get(MeKey); ok {
		if me, ok := v.(*client.User); ok {
			return me
		}
	}
	return nil
}

// RequireLogin sends anonymous visitors to the login page, remembering
// where they were headed.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentMe(c) == nil {
			RedirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectToLogin redirects to /login?next=<current path>. Form posts come
// back to the home page. HTMX requests get an HX-Redirect header instead.
func RedirectToLogin(c *gin.Context) {
	next := "/"
	if c.Request.Method == http.MethodGet {
		next = c.Request.URL.RequestURI()
	}
	target := "/login?next=" + url.QueryEscape(next)
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", target)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}
