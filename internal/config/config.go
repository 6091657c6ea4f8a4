package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultPostCacheTTL = 60 * time.Second

// AppConfig 汇总运行前端服务所需的基础配置。
type AppConfig struct {
	ListenAddr          string
	Port                string
	APIBaseURL          string
	SessionSecret       string
	GinMode             string
	SiteName            string
	SiteBaseURL         string
	IdentityTokenSecret string
	IdentityTokenIssuer string
	SignInURL           string
	RedisURL            string
	PostCacheTTL        time.Duration
}

// LoadDotEnv 尝试加载 .env 文件；文件不存在时静默跳过，其余错误仅记录日志。
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("[config] failed to load %s: %v", path, err)
		}
	}
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("API_URL")), "/")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8000"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "fatherhoodis-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	siteName := strings.TrimSpace(os.Getenv("SITE_NAME"))
	if siteName == "" {
		siteName = "Fatherhood Is"
	}

	siteBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("SITE_BASE_URL")), "/")
	if siteBaseURL == "" {
		siteBaseURL = "https://fatherhood.is"
	}

	cacheTTL := defaultPostCacheTTL
	if raw := strings.TrimSpace(os.Getenv("POST_CACHE_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			log.Printf("[config] invalid POST_CACHE_TTL %q, using %s", raw, defaultPostCacheTTL)
		} else {
			cacheTTL = parsed
		}
	}

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		APIBaseURL:          apiBaseURL,
		SessionSecret:       sessionSecret,
		GinMode:             ginMode,
		SiteName:            siteName,
		SiteBaseURL:         siteBaseURL,
		IdentityTokenSecret: strings.TrimSpace(os.Getenv("IDENTITY_TOKEN_SECRET")),
		IdentityTokenIssuer: strings.TrimSpace(os.Getenv("IDENTITY_TOKEN_ISSUER")),
		SignInURL:           strings.TrimSpace(os.Getenv("IDENTITY_SIGNIN_URL")),
		RedisURL:            strings.TrimSpace(os.Getenv("REDIS_URL")),
		PostCacheTTL:        cacheTTL,
	}
}
