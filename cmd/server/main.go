package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/auth"
	"github.com/fatherhoodis/internal/cache"
	"github.com/fatherhoodis/internal/config"
	"github.com/fatherhoodis/internal/handler"
	"github.com/fatherhoodis/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	client := apiclient.NewClient(cfg.APIBaseURL)

	// 配置了 REDIS_URL 时启用作品详情缓存
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		postCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Printf("[cache] redis unavailable, continuing without post cache: %v", err)
		} else {
			defer postCache.Close()
			client.SetPostCache(postCache, cfg.PostCacheTTL)
		}
	}

	tokens := auth.NewTokenVerifier(cfg.IdentityTokenSecret, cfg.IdentityTokenIssuer)
	if tokens == nil {
		log.Printf("[auth] IDENTITY_TOKEN_SECRET not set, sign-in is disabled")
	}

	api := handler.NewAPI(client, auth.SessionProvider{}, handler.Options{
		SiteName:    cfg.SiteName,
		SiteBaseURL: cfg.SiteBaseURL,
		SignInURL:   cfg.SignInURL,
		Tokens:      tokens,
	})

	r := router.SetupRouter(cfg.SessionSecret, api)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Wrap(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[server] listening on %s, api %s", cfg.ListenAddr, client.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}
