package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Sort modes accepted by the listing endpoint.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// Post 是后端返回的已发布作品。
type Post struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	ImageURL      string    `json:"image_url"`
	AuthorName    string    `json:"author_name,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     Timestamp `json:"created_at"`
}

// Comment 是挂在作品下的一条评论，用户名字段由后端冗余返回。
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// AuthorLabel returns the name shown next to the comment.
func (c Comment) AuthorLabel() string {
	if name := strings.TrimSpace(c.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(c.Username); name != "" {
		return name
	}
	return "Anonymous"
}

// Initial is the avatar letter.
func (c Comment) Initial() string {
	label := []rune(c.AuthorLabel())
	return strings.ToUpper(string(label[0]))
}

// Pagination mirrors the backend pagination block.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PostList is one page of posts.
type PostList struct {
	Posts      []Post
	Pagination Pagination
}

// CommentList is one page of comments.
type CommentList struct {
	Comments   []Comment
	Pagination Pagination
}

// GenerateRequest 请求后端生成预览图，不会落库。
type GenerateRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name,omitempty"`
}

// GeneratedImage 是生成步骤返回的临时预览。
type GeneratedImage struct {
	ImageURL   string `json:"image_url"`
	Text       string `json:"text"`
	AuthorName string `json:"author_name,omitempty"`
}

// SavePostRequest 把已生成的预览持久化为作品。
type SavePostRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name,omitempty"`
	ImageURL   string `json:"image_url"`
}

// CreateCommentRequest is the body for POST /api/comments.
type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

type postListEnvelope struct {
	Posts      []Post     `json:"posts"`
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type commentListEnvelope struct {
	Comments   []Comment  `json:"comments"`
	Items      []Comment  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp 兼容带时区与不带时区两种后端时间格式，缺省时区按 UTC 处理。
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
