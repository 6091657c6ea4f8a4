package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatherhoodis/internal/apiclient"
)

type fakeGenerator struct {
	calls    int
	err      error
	lastReq  apiclient.GenerateRequest
	imageURL func(call int) string
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, req apiclient.GenerateRequest) (apiclient.GeneratedImage, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return apiclient.GeneratedImage{}, f.err
	}
	url := "https://img.test/preview.png"
	if f.imageURL != nil {
		url = f.imageURL(f.calls)
	}
	return apiclient.GeneratedImage{ImageURL: url, Text: req.Text, AuthorName: req.AuthorName}, nil
}

type fakeSaver struct {
	calls   int
	err     error
	lastReq apiclient.SavePostRequest
}

func (f *fakeSaver) SavePost(ctx context.Context, req apiclient.SavePostRequest) (apiclient.Post, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return apiclient.Post{}, f.err
	}
	return apiclient.Post{ID: "saved-1", Text: req.Text, ImageURL: req.ImageURL, AuthorName: req.AuthorName}, nil
}

func TestCanGenerateBounds(t *testing.T) {
	tests := []struct {
		length  int
		enabled bool
	}{
		{0, false}, {2, false}, {3, true}, {140, true}, {280, true}, {281, false},
	}
	for _, tt := range tests {
		text := strings.Repeat("a", tt.length)
		if got := CanGenerate(text); got != tt.enabled {
			t.Fatalf("length %d: expected %v, got %v", tt.length, tt.enabled, got)
		}
		draft := &Draft{State: ComposeIdle, Text: text}
		if got := draft.CanGenerate(); got != tt.enabled {
			t.Fatalf("draft length %d: expected %v, got %v", tt.length, tt.enabled, got)
		}
	}

	if !CanGenerate(strings.Repeat("爸", 280)) {
		t.Fatalf("length should be counted in characters, not bytes")
	}
	if (&Draft{State: ComposeGenerating, Text: "valid text"}).CanGenerate() {
		t.Fatalf("generate must be disabled while a request is in flight")
	}
}

func TestGenerateValidationNeverCallsBackend(t *testing.T) {
	gen := &fakeGenerator{}
	composer := NewComposer(gen, &fakeSaver{})

	draft := NewDraft()
	err := composer.Generate(context.Background(), draft, "hi", "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}
	if draft.State != ComposeIdle || draft.Error == "" {
		t.Fatalf("expected idle draft with error, got %+v", draft)
	}

	err = composer.Generate(context.Background(), draft, "reading bedtime stories", strings.Repeat("n", 101))
	if !errors.As(err, &validationErr) || validationErr.Field != "author_name" {
		t.Fatalf("expected author validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}
}

func TestGenerateRegenerateSaveFlow(t *testing.T) {
	gen := &fakeGenerator{imageURL: func(call int) string {
		return "https://img.test/" + string(rune('0'+call)) + ".png"
	}}
	saver := &fakeSaver{}
	composer := NewComposer(gen, saver)
	ctx := context.Background()

	draft := NewDraft()
	if err := composer.Generate(ctx, draft, "  teaching my daughter to ride a bike  ", " John "); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if draft.State != ComposePreviewing || !draft.HasPreview() {
		t.Fatalf("expected previewing, got %+v", draft)
	}
	if gen.lastReq.Text != "teaching my daughter to ride a bike" || gen.lastReq.AuthorName != "John" {
		t.Fatalf("expected trimmed request, got %+v", gen.lastReq)
	}

	if err := composer.Regenerate(ctx, draft); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if err := composer.Regenerate(ctx, draft); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if draft.Preview.ImageURL != "https://img.test/3.png" {
		t.Fatalf("expected preview to be replaced in place, got %s", draft.Preview.ImageURL)
	}
	if saver.calls != 0 {
		t.Fatalf("generating and regenerating must never persist, got %d saves", saver.calls)
	}

	post, err := composer.Save(ctx, draft)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saver.calls != 1 {
		t.Fatalf("expected exactly one save, got %d", saver.calls)
	}
	if saver.lastReq.ImageURL != "https://img.test/3.png" || saver.lastReq.AuthorName != "John" {
		t.Fatalf("save should use the current preview, got %+v", saver.lastReq)
	}
	if post.ID != "saved-1" || draft.State != ComposeRedirected || draft.Preview != nil {
		t.Fatalf("unexpected state after save: %+v %+v", post, draft)
	}

	if _, err := composer.Save(ctx, draft); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("saving twice must be rejected, got %v", err)
	}
	if saver.calls != 1 {
		t.Fatalf("expected no additional save, got %d", saver.calls)
	}
}

func TestGenerateFailureReturnsToIdle(t *testing.T) {
	gen := &fakeGenerator{err: &apiclient.Error{Kind: apiclient.KindRateLimited, Message: "Too many requests, retry in 30s"}}
	composer := NewComposer(gen, &fakeSaver{})

	draft := NewDraft()
	err := composer.Generate(context.Background(), draft, "building a treehouse together", "")
	if !errors.Is(err, apiclient.ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if draft.State != ComposeIdle || draft.Preview != nil {
		t.Fatalf("expected idle draft without preview, got %+v", draft)
	}
	if draft.Error != "Too many requests, retry in 30s" {
		t.Fatalf("expected verbatim rate limit message, got %q", draft.Error)
	}
	if draft.Text != "building a treehouse together" {
		t.Fatalf("typed text should be kept, got %q", draft.Text)
	}
}

func TestRegenerateFailureDiscardsPreview(t *testing.T) {
	gen := &fakeGenerator{}
	composer := NewComposer(gen, &fakeSaver{})
	ctx := context.Background()

	draft := NewDraft()
	if err := composer.Generate(ctx, draft, "playing catch in the backyard", ""); err != nil {
		t.Fatalf("generate: %v", err)
	}

	gen.err = errors.New("boom")
	if err := composer.Regenerate(ctx, draft); err == nil {
		t.Fatalf("expected regenerate error")
	}
	if draft.State != ComposeIdle || draft.Preview != nil {
		t.Fatalf("expected preview discarded, got %+v", draft)
	}
	if draft.Error != "Failed to regenerate image" {
		t.Fatalf("unexpected error text %q", draft.Error)
	}
}

func TestSaveFailureKeepsPreview(t *testing.T) {
	saver := &fakeSaver{err: &apiclient.Error{Kind: apiclient.KindRemote, Message: "Failed to save post to database"}}
	composer := NewComposer(&fakeGenerator{}, saver)
	ctx := context.Background()

	draft := NewDraft()
	if err := composer.Generate(ctx, draft, "sharing my favorite childhood memories", ""); err != nil {
		t.Fatalf("generate: %v", err)
	}
	preview := *draft.Preview

	if _, err := composer.Save(ctx, draft); err == nil {
		t.Fatalf("expected save error")
	}
	if draft.State != ComposePreviewing || draft.Preview == nil || *draft.Preview != preview {
		t.Fatalf("expected preview preserved, got %+v", draft)
	}
	if draft.Error != "Failed to save post to database" {
		t.Fatalf("unexpected error text %q", draft.Error)
	}

	saver.err = nil
	if _, err := composer.Save(ctx, draft); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if saver.calls != 2 {
		t.Fatalf("expected two save attempts, got %d", saver.calls)
	}
}

func TestInvalidTransitions(t *testing.T) {
	composer := NewComposer(&fakeGenerator{}, &fakeSaver{})
	ctx := context.Background()

	idle := NewDraft()
	if err := composer.Regenerate(ctx, idle); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("regenerate from idle: %v", err)
	}
	if _, err := composer.Save(ctx, idle); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("save from idle: %v", err)
	}

	previewing := &Draft{State: ComposePreviewing, Text: "abc", Preview: &apiclient.GeneratedImage{ImageURL: "x"}}
	if err := composer.Generate(ctx, previewing, "abcd", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("generate while previewing: %v", err)
	}

	previewing.Discard()
	if previewing.State != ComposeIdle || previewing.Preview != nil || previewing.Text != "abc" {
		t.Fatalf("discard should reset to idle and keep text, got %+v", previewing)
	}
}
