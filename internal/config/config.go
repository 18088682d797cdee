package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用配置，API 服务与 web 客户端共用
type Config struct {
	Port          string
	Production    bool
	DatabaseURL   string
	DBLog         string
	SessionSecret string
	SessionStore  string // cookie 或 redis
	RedisAddr     string
	RedisPassword string
	CORSOrigin    string

	RateLimitRPS   float64
	RateLimitBurst int

	// web 客户端
	WebPort            string
	APIURL             string
	WebSessionSecret   string
	WebClientCacheSize int
	FeedPageSize       int
}

// Load 先加载 .env，再从环境变量读取配置
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "4000"),
		Production:    getEnv("GIN_MODE", "debug") == "release",
		DatabaseURL:   getEnv("DATABASE_URL", "sqlite://lireddit.db"),
		DBLog:         getEnv("DB_LOG", "silent"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		SessionStore:  getEnv("SESSION_STORE", "cookie"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		WebPort:            getEnv("WEB_PORT", "3000"),
		APIURL:             getEnv("API_URL", "http://localhost:4000/graphql"),
		WebSessionSecret:   getEnv("WEB_SESSION_SECRET", "web_secret_change_me"),
		WebClientCacheSize: getEnvInt("WEB_CLIENT_CACHE_SIZE", 500),
		FeedPageSize:       getEnvInt("FEED_PAGE_SIZE", 15),
	}

	if cfg.Production && cfg.SessionSecret == "secret_key_change_me" {
		log.Println("WARNING: SESSION_SECRET is not set, using the development default")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
