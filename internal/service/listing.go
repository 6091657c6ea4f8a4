package service

import (
	"context"
	"log"

	"github.com/fatherhoodis/internal/apiclient"
)

const (
	// ListingPageSize is the fixed number of posts per listing page.
	ListingPageSize = 20
	// MaxPageButtons bounds the numbered pagination buttons.
	MaxPageButtons = 5
)

// PostLister fetches pages of posts.
type PostLister interface {
	GetPosts(ctx context.Context, page, limit int, sort string) (apiclient.PostList, error)
}

// Listing 保存当前展示的一页作品。
type Listing struct {
	Posts      []apiclient.Post
	Page       int
	TotalPages int
	Total      int
	Loading    bool

	lister PostLister
}

// NewListing creates an empty listing positioned on page 1.
func NewListing(lister PostLister) *Listing {
	return &Listing{Page: 1, lister: lister}
}

// Load fetches page at the fixed page size, newest first. On success the
// posts and page number are replaced together; on failure the error is
// logged and the previously loaded page stays as it was.
func (l *Listing) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	l.Loading = true
	defer func() { l.Loading = false }()

	list, err := l.lister.GetPosts(ctx, page, ListingPageSize, apiclient.SortNewest)
	if err != nil {
		log.Printf("[listing] failed to load page %d: %v", page, err)
		return err
	}

	current := list.Pagination.Page
	if current < 1 {
		current = page
	}

	l.Posts = list.Posts
	l.Page = current
	l.TotalPages = list.Pagination.Pages
	l.Total = list.Pagination.Total
	return nil
}

// Empty reports whether the empty-state view should be shown.
func (l *Listing) Empty() bool {
	return len(l.Posts) == 0 && !l.Loading
}

func (l *Listing) HasPrev() bool {
	return l.Page > 1
}

func (l *Listing) HasNext() bool {
	return l.Page < l.TotalPages
}

// Window returns the page buttons for the current position.
func (l *Listing) Window() []int {
	return PageWindow(l.Page, l.TotalPages)
}

// PageWindow returns at most MaxPageButtons page numbers. With five or fewer
// pages every page is listed; otherwise the window is centered on current
// and clamped to the first and last page.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= MaxPageButtons {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	start := current - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	if start > total-MaxPageButtons+1 {
		start = total - MaxPageButtons + 1
	}

	pages := make([]int, 0, MaxPageButtons)
	for i := start; i < start+MaxPageButtons; i++ {
		pages = append(pages, i)
	}
	return pages
}
