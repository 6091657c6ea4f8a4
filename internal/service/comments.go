package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/fatherhoodis/internal/apiclient"
	"github.com/fatherhoodis/internal/auth"
)

// CommentPageSize is the number of comments requested for a post.
const CommentPageSize = 20

var (
	ErrSignInRequired       = errors.New("please sign in to comment")
	ErrConfirmationRequired = errors.New("deletion was not confirmed")
	ErrNotAuthor            = errors.New("only the author can delete this comment")
)

// CommentStore is the subset of the API client used by the comment flow.
type CommentStore interface {
	GetComments(ctx context.Context, postID string, page, limit int) (apiclient.CommentList, error)
	CreateComment(ctx context.Context, req apiclient.CreateCommentRequest) (apiclient.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
}

// CommentThread holds the comments rendered for one post.
type CommentThread struct {
	PostID   string
	Comments []apiclient.Comment
	// Loaded is set once a fetch has succeeded.
	Loaded bool

	store CommentStore
}

func NewCommentThread(store CommentStore, postID string) *CommentThread {
	return &CommentThread{PostID: postID, store: store}
}

// Load fetches the comment list. Failures are logged and the current list
// is kept.
func (t *CommentThread) Load(ctx context.Context) error {
	list, err := t.store.GetComments(ctx, t.PostID, 1, CommentPageSize)
	if err != nil {
		log.Printf("[comments] failed to load comments for post %s: %v", t.PostID, err)
		return err
	}
	comments := make([]apiclient.Comment, 0, len(list.Comments))
	for _, comment := range list.Comments {
		if comment.IsDeleted {
			continue
		}
		comments = append(comments, comment)
	}
	t.Comments = comments
	t.Loaded = true
	return nil
}

// Reconcile replaces the local list with the backend's view.
func (t *CommentThread) Reconcile(ctx context.Context) error {
	return t.Load(ctx)
}

// Submit creates a comment as who and appends it to the thread. The caller
// keeps the draft when an error is returned.
func (t *CommentThread) Submit(ctx context.Context, who *auth.Identity, draft string) (apiclient.Comment, error) {
	if who == nil || strings.TrimSpace(who.ID) == "" {
		return apiclient.Comment{}, ErrSignInRequired
	}

	content := strings.TrimSpace(draft)
	if err := ValidateComment(content); err != nil {
		return apiclient.Comment{}, err
	}

	comment, err := t.store.CreateComment(ctx, apiclient.CreateCommentRequest{
		PostID:  t.PostID,
		UserID:  who.ID,
		Content: content,
	})
	if err != nil {
		return apiclient.Comment{}, err
	}

	if strings.TrimSpace(comment.Username) == "" && strings.TrimSpace(comment.DisplayName) == "" {
		comment.Username = who.Username
		comment.DisplayName = who.DisplayName
	}
	t.Comments = append(t.Comments, comment)
	return comment, nil
}

// Delete soft-deletes commentID. It requires a signed-in author and an
// explicit confirmation. An unloaded thread is fetched first so the author
// check sees the comment. On success exactly that comment is removed; on a
// backend failure the thread is reconciled against a fresh fetch so the
// list reflects what the backend actually holds.
func (t *CommentThread) Delete(ctx context.Context, who *auth.Identity, commentID string, confirmed bool) error {
	if who == nil || strings.TrimSpace(who.ID) == "" {
		return ErrSignInRequired
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	if !t.Loaded {
		// 作者校验依赖当前列表；拉取失败时交由后端按 user_id 校验
		if err := t.Load(ctx); err != nil {
			log.Printf("[comments] delete of %s without a loaded thread: %v", commentID, err)
		}
	}
	if idx := t.indexOf(commentID); idx >= 0 && !CanDelete(who, t.Comments[idx]) {
		return ErrNotAuthor
	}

	if err := t.store.DeleteComment(ctx, commentID, who.ID); err != nil {
		if reconcileErr := t.Reconcile(ctx); reconcileErr != nil {
			log.Printf("[comments] reconcile after failed delete of %s: %v", commentID, reconcileErr)
		}
		return err
	}

	t.Remove(commentID)
	return nil
}

// Remove drops commentID from the local list and reports whether it was present.
func (t *CommentThread) Remove(commentID string) bool {
	idx := t.indexOf(commentID)
	if idx < 0 {
		return false
	}
	t.Comments = append(t.Comments[:idx], t.Comments[idx+1:]...)
	return true
}

func (t *CommentThread) indexOf(commentID string) int {
	for i, comment := range t.Comments {
		if comment.ID == commentID {
			return i
		}
	}
	return -1
}

// CanDelete reports whether who may see the delete control for comment.
func CanDelete(who *auth.Identity, comment apiclient.Comment) bool {
	if who == nil || strings.TrimSpace(who.ID) == "" {
		return false
	}
	return who.ID == comment.UserID
}
