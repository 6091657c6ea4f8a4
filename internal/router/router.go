package router

import (
	"log"
	"net/http"
	"strings"

	"github.com/fatherhoodis/internal/handler"
	"github.com/fatherhoodis/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
)

const sessionName = "fatherhoodis_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string, api *handler.API) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := strings.TrimSpace(sessionSecret)
	if secret == "" {
		secret = "fatherhoodis-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载内嵌模板
	templates, err := web.Templates(api.TemplateFuncs())
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}
	r.SetHTMLTemplate(templates)

	// 静态文件服务
	r.StaticFS("/static", http.FS(web.Static()))

	r.GET("/ping", api.Ping)

	r.GET("/", api.ShowHome)
	r.GET("/posts/page", api.LoadPage)
	r.GET("/post/:id", api.ShowPostDetail)
	r.GET("/about", api.ShowAbout)

	create := r.Group("/create")
	{
		create.GET("", api.ShowCreate)
		create.POST("/generate", api.GeneratePreview)
		create.POST("/regenerate", api.RegeneratePreview)
		create.POST("/save", api.SavePreview)
		create.POST("/discard", api.DiscardPreview)
	}

	r.POST("/posts/:id/comments", api.CreateComment)
	r.POST("/comments/:id/delete", api.DeleteComment)

	r.GET("/auth/callback", api.AuthCallback)
	r.POST("/auth/logout", api.Logout)

	r.NoRoute(api.NotFound)

	return r
}

// Wrap adds the outer HTTP middleware: forwarded headers from the reverse
// proxy and gzip compression.
func Wrap(h http.Handler) http.Handler {
	return handlers.ProxyHeaders(handlers.CompressHandler(h))
}
