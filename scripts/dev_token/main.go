package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/fatherhoodis/internal/auth"
	"github.com/fatherhoodis/internal/config"
)

// 为本地开发签发身份令牌，并输出可直接打开的登录回调地址
func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	userID := flag.String("id", "dev-user", "user id (token subject)")
	username := flag.String("username", "dev", "username")
	displayName := flag.String("name", "Dev Dad", "display name")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	next := flag.String("next", "/", "path to open after sign-in")
	flag.Parse()

	if cfg.IdentityTokenSecret == "" {
		log.Fatal("IDENTITY_TOKEN_SECRET 未设置，无法签发令牌")
	}

	token, err := auth.IssueToken(cfg.IdentityTokenSecret, cfg.IdentityTokenIssuer, auth.Identity{
		ID:          *userID,
		Username:    *username,
		DisplayName: *displayName,
	}, *ttl)
	if err != nil {
		log.Fatal("签发令牌失败:", err)
	}

	query := url.Values{}
	query.Set("token", token)
	query.Set("next", *next)

	fmt.Println("令牌签发成功")
	fmt.Printf("用户: %s (%s)\n", *displayName, *userID)
	fmt.Printf("登录地址: http://localhost:%s/auth/callback?%s\n", cfg.Port, query.Encode())
}
