package handler

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/fatherhoodis/internal/service"
	"github.com/fatherhoodis/web"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ShowHome renders the listing page for ?page=N.
func (a *API) ShowHome(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	listing := service.NewListing(a.backend)
	if err := listing.Load(c.Request.Context(), page); err != nil {
		a.renderHTML(c, http.StatusBadGateway, "home.html", gin.H{
			"title": "Stories",
			"error": "We couldn't load the stories right now. Please try again shortly.",
		})
		return
	}
	if page > listing.TotalPages && listing.TotalPages > 0 {
		c.Redirect(http.StatusSeeOther, "/?page="+strconv.Itoa(listing.TotalPages))
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":   "Stories",
		"listing": listing,
	})
}

// LoadPage swaps the post grid in place when a page button is clicked.
// A failed fetch answers 204 so htmx leaves the current page on screen.
func (a *API) LoadPage(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	listing := service.NewListing(a.backend)
	if err := listing.Load(c.Request.Context(), page); err != nil {
		c.Status(http.StatusNoContent)
		return
	}
	// 越过末页时改为加载最后一页
	if page > listing.TotalPages && listing.TotalPages > 0 {
		if err := listing.Load(c.Request.Context(), listing.TotalPages); err != nil {
			c.Status(http.StatusNoContent)
			return
		}
	}

	c.Header("HX-Push-Url", "/?page="+strconv.Itoa(listing.Page))
	a.renderHTML(c, http.StatusOK, "post_grid", gin.H{
		"listing": listing,
	})
}

// ShowAbout renders the static about page from embedded markdown.
func (a *API) ShowAbout(c *gin.Context) {
	content, err := renderMarkdown(web.AboutMarkdown)
	if err != nil {
		log.Printf("[about] failed to render markdown: %v", err)
		a.renderError(c, http.StatusInternalServerError, "Something went wrong", "The page could not be rendered.")
		return
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":   "About",
		"content": content,
	})
}

// NotFound is the fallback for unknown routes.
func (a *API) NotFound(c *gin.Context) {
	a.renderNotFound(c)
}

// Ping is the health check.
func (a *API) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Post Not Found",
	})
}

func (a *API) renderError(c *gin.Context, status int, heading, message string) {
	a.renderHTML(c, status, "error.html", gin.H{
		"title":   heading,
		"heading": heading,
		"message": message,
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
