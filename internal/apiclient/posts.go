package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// NormalizeSort maps unknown sort modes to newest.
func NormalizeSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

// GetPosts fetches one page of published posts. The request always bypasses
// intermediate caches so the listing reflects the latest state.
func (c *Client) GetPosts(ctx context.Context, page, limit int, sort string) (PostList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", NormalizeSort(sort))

	var envelope postListEnvelope
	err := c.do(ctx, call{
		op:       "list posts",
		method:   http.MethodGet,
		path:     "/api/posts",
		query:    query,
		noCache:  true,
		fallback: "Failed to fetch posts",
	}, &envelope)
	if err != nil {
		return PostList{}, err
	}

	posts := envelope.Posts
	if posts == nil {
		posts = envelope.Items
	}
	if posts == nil {
		posts = []Post{}
	}
	return PostList{Posts: posts, Pagination: envelope.Pagination}, nil
}

// GetPost fetches a single post; a 404 yields an error matching ErrNotFound.
func (c *Client) GetPost(ctx context.Context, id string) (Post, error) {
	id = strings.TrimSpace(id)
	if c.cache != nil {
		if cached, ok := c.cache.GetPost(ctx, id); ok {
			return cached, nil
		}
	}

	var post Post
	err := c.do(ctx, call{
		op:       "get post",
		method:   http.MethodGet,
		path:     "/api/posts/" + url.PathEscape(id),
		fallback: "Failed to fetch post",
	}, &post)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				apiErr.Message = "Post not found"
			}
		}
		return Post{}, err
	}

	if c.cache != nil {
		c.cache.SetPost(ctx, post, c.cacheTTL)
	}
	return post, nil
}

// GenerateImage asks the backend for a preview illustration. Nothing is persisted.
func (c *Client) GenerateImage(ctx context.Context, req GenerateRequest) (GeneratedImage, error) {
	var generated GeneratedImage
	err := c.do(ctx, call{
		op:       "generate image",
		method:   http.MethodPost,
		path:     "/api/posts/generate",
		body:     req,
		fallback: "Failed to generate image",
	}, &generated)
	if err != nil {
		return GeneratedImage{}, err
	}
	return generated, nil
}

// SavePost persists a previously generated preview as a post.
func (c *Client) SavePost(ctx context.Context, req SavePostRequest) (Post, error) {
	var post Post
	err := c.do(ctx, call{
		op:       "save post",
		method:   http.MethodPost,
		path:     "/api/posts",
		body:     req,
		fallback: "Failed to save post",
	}, &post)
	if err != nil {
		return Post{}, err
	}
	return post, nil
}
