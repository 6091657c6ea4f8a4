package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fatherhoodis/internal/apiclient"
)

// ComposeState 是创建流程的有限状态。
type ComposeState string

const (
	ComposeIdle       ComposeState = "idle"
	ComposeGenerating ComposeState = "generating"
	ComposePreviewing ComposeState = "previewing"
	ComposeSaving     ComposeState = "saving"
	ComposeRedirected ComposeState = "redirected"
)

// ErrInvalidTransition 表示当前状态下不允许该操作。
var ErrInvalidTransition = errors.New("action is not available in the current state")

// ImageGenerator produces unpersisted previews.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req apiclient.GenerateRequest) (apiclient.GeneratedImage, error)
}

// PostSaver persists previews as posts.
type PostSaver interface {
	SavePost(ctx context.Context, req apiclient.SavePostRequest) (apiclient.Post, error)
}

// Draft is the creation form state kept between requests. Preview is only
// set while the state is previewing or saving.
type Draft struct {
	State      ComposeState              `json:"state"`
	Text       string                    `json:"text"`
	AuthorName string                    `json:"author_name,omitempty"`
	Preview    *apiclient.GeneratedImage `json:"preview,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// NewDraft returns an idle draft.
func NewDraft() *Draft {
	return &Draft{State: ComposeIdle}
}

// Busy reports whether a request is in flight and the triggers must be disabled.
func (d *Draft) Busy() bool {
	return d.State == ComposeGenerating || d.State == ComposeSaving
}

// CanGenerate reports whether the generate button is enabled.
func (d *Draft) CanGenerate() bool {
	return d.State == ComposeIdle && CanGenerate(d.Text)
}

// HasPreview reports whether a preview is on screen.
func (d *Draft) HasPreview() bool {
	return d.Preview != nil && (d.State == ComposePreviewing || d.State == ComposeSaving)
}

// Discard drops the preview and returns to idle, keeping the typed text.
func (d *Draft) Discard() {
	d.State = ComposeIdle
	d.Preview = nil
	d.Error = ""
}

// Composer drives the two-phase generate/save flow.
type Composer struct {
	generator ImageGenerator
	saver     PostSaver
}

func NewComposer(generator ImageGenerator, saver PostSaver) *Composer {
	return &Composer{generator: generator, saver: saver}
}

// Generate validates the input and requests a preview. Validation failures
// leave the draft idle and never reach the backend.
func (c *Composer) Generate(ctx context.Context, d *Draft, text, authorName string) error {
	if d.State != ComposeIdle {
		return ErrInvalidTransition
	}

	d.Text = strings.TrimSpace(text)
	d.AuthorName = strings.TrimSpace(authorName)
	d.Error = ""

	if err := ValidatePostText(d.Text); err != nil {
		d.Error = err.Error()
		return err
	}
	if err := ValidateAuthorName(d.AuthorName); err != nil {
		d.Error = err.Error()
		return err
	}

	return c.generate(ctx, d, "Failed to generate image")
}

// Regenerate discards the current preview and requests a new one for the
// same text. It never persists anything.
func (c *Composer) Regenerate(ctx context.Context, d *Draft) error {
	if d.State != ComposePreviewing {
		return ErrInvalidTransition
	}
	d.Error = ""
	return c.generate(ctx, d, "Failed to regenerate image")
}

func (c *Composer) generate(ctx context.Context, d *Draft, fallback string) error {
	d.State = ComposeGenerating
	d.Preview = nil

	preview, err := c.generator.GenerateImage(ctx, apiclient.GenerateRequest{
		Text:       d.Text,
		AuthorName: d.AuthorName,
	})
	if err != nil {
		d.State = ComposeIdle
		d.Error = apiclient.Message(err, fallback)
		return err
	}

	d.Preview = &preview
	d.State = ComposePreviewing
	return nil
}

// Save persists the preview. On failure the draft goes back to previewing
// with the error set, so the user can retry without regenerating.
func (c *Composer) Save(ctx context.Context, d *Draft) (apiclient.Post, error) {
	if d.State != ComposePreviewing || d.Preview == nil {
		return apiclient.Post{}, ErrInvalidTransition
	}

	d.State = ComposeSaving
	d.Error = ""

	text := d.Preview.Text
	if strings.TrimSpace(text) == "" {
		text = d.Text
	}

	post, err := c.saver.SavePost(ctx, apiclient.SavePostRequest{
		Text:       text,
		AuthorName: d.Preview.AuthorName,
		ImageURL:   d.Preview.ImageURL,
	})
	if err != nil {
		d.State = ComposePreviewing
		d.Error = apiclient.Message(err, "Failed to save post")
		return apiclient.Post{}, err
	}

	d.State = ComposeRedirected
	d.Preview = nil
	return post, nil
}
