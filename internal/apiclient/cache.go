package apiclient

import (
	"context"
	"time"
)

// PostCache stores single post lookups for a short revalidation window.
// Implementations must treat failures as misses.
type PostCache interface {
	GetPost(ctx context.Context, id string) (Post, bool)
	SetPost(ctx context.Context, post Post, ttl time.Duration)
}
