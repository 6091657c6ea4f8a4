package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	signInToCommentMessage = "Please sign in to leave a comment"
	signInToDeleteMessage  = "Please sign in to delete comments"
)

// commentErrorStatus 将评论流程中的错误映射为状态码与提示文案。
func commentErrorStatus(err error, fallback string) (int, string) {
	var validationErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSignInRequired):
		return http.StatusUnauthorized, signInToCommentMessage
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, validationErr.Message
	case errors.Is(err, service.ErrNotAuthor):
		return http.StatusForbidden, "You can only delete your own comments"
	case errors.Is(err, apiclient.ErrRateLimited):
		return http.StatusTooManyRequests, apiclient.Message(err, fallback)
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound, apiclient.Message(err, fallback)
	default:
		return http.StatusBadGateway, apiclient.Message(err, fallback)
	}
}

// CreateComment posts a comment for the signed-in user. htmx requests get
// the new item appended to the list plus a reset form; on failure the form
// is re-rendered with the draft and the error.
func (a *API) CreateComment(c *gin.Context) {
	postID, ok := validID(c.Param("id"))
	if !ok {
		a.renderNotFound(c)
		return
	}

	who := a.currentUser(c)
	draft := c.PostForm("content")

	thread := service.NewCommentThread(a.backend, postID)
	comment, err := thread.Submit(c.Request.Context(), who, draft)
	if err != nil {
		status, message := commentErrorStatus(err, "Failed to create comment")
		if !isHTMX(c) {
			a.renderPostDetail(c, status, postID, draft, message)
			return
		}
		// htmx 默认不替换 4xx/5xx 响应，这里以 200 返回并改写目标
		c.Header("HX-Retarget", "#comment-form")
		c.Header("HX-Reswap", "outerHTML")
		c.HTML(http.StatusOK, "comment_form", a.newCommentForm(who, postID, draft, message))
		return
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/post/"+postID+"#comments")
		return
	}

	// 重新拉取列表以刷新评论数；失败时不更新标题
	if err := thread.Reconcile(c.Request.Context()); err != nil {
		log.Printf("[comments] count refresh after creating %s: %v", comment.ID, err)
	}

	form := a.newCommentForm(who, postID, "", "")
	form.OOB = true
	c.HTML(http.StatusOK, "comment_created", gin.H{
		"comment": commentView{Comment: comment, CanDelete: true},
		"form":    form,
		"count":   threadCount(thread),
	})
}

// DeleteComment soft-deletes a comment owned by the signed-in user. The
// htmx control confirms in the browser and sends confirm=yes; plain form
// posts without it get a confirmation page first.
func (a *API) DeleteComment(c *gin.Context) {
	commentID, ok := validID(c.Param("id"))
	if !ok {
		a.renderNotFound(c)
		return
	}
	postID, ok := validID(c.PostForm("post_id"))
	if !ok {
		a.renderError(c, http.StatusBadRequest, "Something went wrong", "The comment could not be identified.")
		return
	}

	who := a.currentUser(c)
	confirmed := c.PostForm("confirm") == "yes"

	if !confirmed && who != nil && !isHTMX(c) {
		a.renderHTML(c, http.StatusOK, "delete_confirm.html", gin.H{
			"title":     "Delete comment",
			"commentID": commentID,
			"postID":    postID,
		})
		return
	}

	thread := service.NewCommentThread(a.backend, postID)
	err := thread.Delete(c.Request.Context(), who, commentID, confirmed)
	if err == nil {
		if isHTMX(c) {
			// 主体为空，outerHTML 交换移除该条评论；标题与空状态走 OOB
			c.HTML(http.StatusOK, "comment_deleted", gin.H{
				"count": threadCount(thread),
				"empty": thread.Loaded && len(thread.Comments) == 0,
			})
			return
		}
		c.Redirect(http.StatusSeeOther, "/post/"+postID+"#comments")
		return
	}

	status, message := commentErrorStatus(err, "Failed to delete comment")
	switch {
	case errors.Is(err, service.ErrSignInRequired):
		message = signInToDeleteMessage
	case errors.Is(err, service.ErrConfirmationRequired):
		status, message = http.StatusBadRequest, "Please confirm that you want to delete this comment"
	}

	if !isHTMX(c) {
		a.renderError(c, status, "Could not delete comment", message)
		return
	}

	triggerAlert(c, message)
	if !thread.Loaded {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("HX-Retarget", "#comment-list")
	c.Header("HX-Reswap", "innerHTML")
	c.HTML(http.StatusOK, "comment_list", buildCommentViews(who, thread.Comments))
}
