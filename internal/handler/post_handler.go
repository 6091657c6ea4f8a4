package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/auth"
	"github.com/fatherhoodis/internal/service"
	"github.com/gin-gonic/gin"
)

// shareMeta 用于渲染 Open Graph / Twitter 卡片。
type shareMeta struct {
	Title       string
	Description string
	URL         string
	Image       string
}

// commentView is one rendered comment with the viewer-specific delete flag.
type commentView struct {
	apiclient.Comment
	CanDelete bool
}

// commentFormView carries the comment form state between renders.
type commentFormView struct {
	PostID    string
	Draft     string
	Error     string
	SignedIn  bool
	SignInURL string
	MaxRunes  int
	Length    int
	OOB       bool
}

// commentCountView 渲染评论数标题，OOB 时随 htmx 片段一起更新。
type commentCountView struct {
	Count int
	OOB   bool
}

// threadCount returns nil when the thread was never fetched, since the
// count would then be unknown.
func threadCount(thread *service.CommentThread) *commentCountView {
	if !thread.Loaded {
		return nil
	}
	return &commentCountView{Count: len(thread.Comments), OOB: true}
}

func buildCommentViews(who *auth.Identity, comments []apiclient.Comment) []commentView {
	views := make([]commentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentView{Comment: comment, CanDelete: service.CanDelete(who, comment)})
	}
	return views
}

func (a *API) newCommentForm(who *auth.Identity, postID, draft, message string) commentFormView {
	return commentFormView{
		PostID:    postID,
		Draft:     draft,
		Error:     message,
		SignedIn:  who != nil,
		SignInURL: a.signInURL,
		MaxRunes:  service.CommentMaxRunes,
		Length:    utf8.RuneCountInString(draft),
	}
}

func (a *API) buildShareMeta(post apiclient.Post) shareMeta {
	description := "Fatherhood is... " + post.Text
	if author := strings.TrimSpace(post.AuthorName); author != "" {
		description += " by " + author
	}
	return shareMeta{
		Title:       "Fatherhood is... " + post.Text,
		Description: description,
		URL:         a.siteBaseURL + "/post/" + post.ID,
		Image:       post.ImageURL,
	}
}

// ShowPostDetail renders one post with its comment thread.
func (a *API) ShowPostDetail(c *gin.Context) {
	postID, ok := validID(c.Param("id"))
	if !ok {
		a.renderNotFound(c)
		return
	}
	a.renderPostDetail(c, http.StatusOK, postID, "", "")
}

// renderPostDetail loads the post and its comments. draft and formError
// repopulate the comment form after a failed non-htmx submission.
func (a *API) renderPostDetail(c *gin.Context, status int, postID, draft, formError string) {
	ctx := c.Request.Context()

	post, err := a.backend.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderError(c, http.StatusBadGateway, "Something went wrong", apiclient.Message(err, "Failed to fetch post"))
		return
	}

	who := a.currentUser(c)
	thread := service.NewCommentThread(a.backend, post.ID)
	// 评论加载失败不影响作品展示
	_ = thread.Load(ctx)

	a.renderHTML(c, status, "post_detail.html", gin.H{
		"title":          "Fatherhood is... " + post.Text,
		"post":           post,
		"share":          a.buildShareMeta(post),
		"comments":       buildCommentViews(who, thread.Comments),
		"commentsLoaded": thread.Loaded,
		"commentCount":   commentCountView{Count: len(thread.Comments)},
		"commentForm":    a.newCommentForm(who, post.ID, draft, formError),
		"user":           who,
	})
}
