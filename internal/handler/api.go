package handler

import (
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/auth"
	"github.com/fatherhoodis/internal/service"
	"github.com/gin-gonic/gin"
)

// Backend is the slice of the content API the handlers depend on.
// *apiclient.Client satisfies it.
type Backend interface {
	GetPosts(ctx context.Context, page, limit int, sort string) (apiclient.PostList, error)
	GetPost(ctx context.Context, id string) (apiclient.Post, error)
	GenerateImage(ctx context.Context, req apiclient.GenerateRequest) (apiclient.GeneratedImage, error)
	SavePost(ctx context.Context, req apiclient.SavePostRequest) (apiclient.Post, error)
	GetComments(ctx context.Context, postID string, page, limit int) (apiclient.CommentList, error)
	CreateComment(ctx context.Context, req apiclient.CreateCommentRequest) (apiclient.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
}

// Options 是站点级别的可选配置。
type Options struct {
	SiteName    string
	SiteBaseURL string
	SignInURL   string
	Tokens      *auth.TokenVerifier
	Now         func() time.Time
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	backend  Backend
	identity auth.Provider
	tokens   *auth.TokenVerifier
	composer *service.Composer

	siteName    string
	siteBaseURL string
	signInURL   string
	now         func() time.Time
}

type siteViewModel struct {
	Name      string
	BaseURL   string
	SignInURL string
}

// NewAPI constructs a handler set around the backend client and the
// identity provider.
func NewAPI(backend Backend, identity auth.Provider, opts Options) *API {
	if identity == nil {
		identity = auth.SessionProvider{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := strings.TrimSpace(opts.SiteName)
	if name == "" {
		name = "Fatherhood Is"
	}

	return &API{
		backend:     backend,
		identity:    identity,
		tokens:      opts.Tokens,
		composer:    service.NewComposer(backend, backend),
		siteName:    name,
		siteBaseURL: strings.TrimRight(strings.TrimSpace(opts.SiteBaseURL), "/"),
		signInURL:   strings.TrimSpace(opts.SignInURL),
		now:         now,
	}
}

// currentUser returns the signed-in identity, or nil for anonymous visitors.
func (a *API) currentUser(c *gin.Context) *auth.Identity {
	identity, ok := a.identity.Identity(c)
	if !ok {
		return nil
	}
	return &identity
}

func (a *API) site() siteViewModel {
	return siteViewModel{Name: a.siteName, BaseURL: a.siteBaseURL, SignInURL: a.signInURL}
}

// TemplateFuncs 返回模板使用的辅助函数，时间相关函数使用 API 的时钟。
func (a *API) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(x, y int) int {
			return x + y
		},
		"sub": func(x, y int) int {
			return x - y
		},
		"relativeTime": func(t apiclient.Timestamp) string {
			return service.FormatRelative(a.now(), t.Time)
		},
		"shortDate": func(t apiclient.Timestamp) string {
			return service.FormatDate(t.Time)
		},
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = a.site()
	}
	if _, exists := payload["user"]; !exists {
		payload["user"] = a.currentUser(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = a.now().Year()
	}

	c.HTML(status, template, payload)
}
