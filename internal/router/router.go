package router

import (
	"net/http"

	"lireddit/internal/graph"
	"lireddit/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

// Options 是 API 路由需要的依赖
type Options struct {
	Schema     graphql.Schema
	Store      sessions.Store
	Limiter    *middleware.RateLimiter // 只限制 mutation，nil 表示不限
	CORSOrigin string
}

func RegisterRoutes(r *gin.Engine, opts Options) {
	// 允许 web 客户端带 cookie 跨域访问
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Sessions(opts.Store))
	r.Use(middleware.LoadUser())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gql := graph.Handler(opts.Schema, opts.Limiter)
	r.POST("/graphql", gql)
	r.GET("/graphql", gql)
}
