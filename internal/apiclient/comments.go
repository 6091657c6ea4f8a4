package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// GetComments fetches a page of non-deleted comments for a post, never cached.
func (c *Client) GetComments(ctx context.Context, postID string, page, limit int) (CommentList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var envelope commentListEnvelope
	err := c.do(ctx, call{
		op:       "list comments",
		method:   http.MethodGet,
		path:     "/api/comments/post/" + url.PathEscape(strings.TrimSpace(postID)),
		query:    query,
		noCache:  true,
		fallback: "Failed to fetch comments",
	}, &envelope)
	if err != nil {
		return CommentList{}, err
	}

	comments := envelope.Comments
	if comments == nil {
		comments = envelope.Items
	}
	if comments == nil {
		comments = []Comment{}
	}
	return CommentList{Comments: comments, Pagination: envelope.Pagination}, nil
}

// CreateComment posts a new comment on behalf of req.UserID.
func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (Comment, error) {
	var comment Comment
	err := c.do(ctx, call{
		op:       "create comment",
		method:   http.MethodPost,
		path:     "/api/comments",
		body:     req,
		fallback: "Failed to create comment",
	}, &comment)
	if err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// DeleteComment soft-deletes a comment. The backend checks that userID is the author.
func (c *Client) DeleteComment(ctx context.Context, commentID, userID string) error {
	query := url.Values{}
	query.Set("user_id", userID)

	return c.do(ctx, call{
		op:       "delete comment",
		method:   http.MethodDelete,
		path:     "/api/comments/" + url.PathEscape(strings.TrimSpace(commentID)),
		query:    query,
		fallback: "Failed to delete comment",
	}, nil)
}
