package handlers

import (
	"net/http"
	"time"

	"lireddit/internal/client"
	"lireddit/internal/config"
	"lireddit/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// WebCookieName is the web client's own session cookie. It only carries
// the browser id; the API session lives in that browser's client.
const WebCookieName = "lireddit_web"

// NewWebStore builds the cookie store for WebCookieName. Secure is only set
// in production, plain http in development would never get the cookie back.
func NewWebStore(cfg *config.Config) sessions.Store {
	store := cookie.NewStore([]byte(cfg.WebSessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

type Options struct {
	Store     sessions.Store
	Clients   *utils.TTLCache[*client.Client]
	NewClient func() *client.Client
	PageSize  int
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	r.Use(sessions.Sessions(WebCookieName, opts.Store))
	r.Use(BrowserClient(opts.Clients, opts.NewClient))

	authHandler := NewAuthHandler()
	storyHandler := NewStoryHandler(opts.PageSize)
	voteHandler := NewVoteHandler()

	r.GET("/", storyHandler.List)
	r.GET("/post/:id", storyHandler.Detail)

	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", authHandler.Logout)

	// 投票未登录时由 API 返回 not authenticated，再跳转到登录页
	r.POST("/vote/:id/:dir", voteHandler.Vote)

	authorized := r.Group("/")
	authorized.Use(RequireLogin())
	{
		authorized.GET("/create-post", storyHandler.ShowCreate)
		authorized.POST("/create-post", storyHandler.Create)
		authorized.GET("/post/:id/edit", storyHandler.ShowEdit)
		authorized.POST("/post/:id/edit", storyHandler.Update)
		authorized.POST("/post/:id/delete", storyHandler.Delete)
	}
}
