package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"lireddit/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	sessionredis "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"
)

// CookieName is the name of the session cookie.
const CookieName = "qid"

const sessionMaxAge = 10 * 365 * 24 * time.Hour

// NewSessionStore builds the session store selected by cfg.SessionStore.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case "redis":
		pool := &redis.Pool{
			MaxIdle:     10,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", cfg.RedisAddr, redis.DialPassword(cfg.RedisPassword))
			},
		}
		s, err := sessionredis.NewStoreWithPool(pool, []byte(cfg.SessionSecret))
		if err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		store = s
		log.Printf("Using redis session store at %s", cfg.RedisAddr)
	case "cookie", "":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Production, // https only in production
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Sessions mounts the store under CookieName.
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(CookieName, store)
}
