package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"unicode/utf8"

	"github.com/fatherhoodis/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const composeDraftKey = "compose_draft"

// examplePrompts 是创建页 "Need inspiration?" 区域的示例文案。
var examplePrompts = []string{
	"teaching my daughter to ride a bike",
	"reading bedtime stories every night",
	"playing catch in the backyard",
	"being there for the first steps",
	"sharing my favorite childhood memories",
	"building a treehouse together",
}

// composeView is the data behind the compose panel.
type composeView struct {
	Draft       *service.Draft
	TextLength  int
	TextMax     int
	TextMin     int
	AuthorMax   int
	CanGenerate bool
}

func newComposeView(d *service.Draft) composeView {
	return composeView{
		Draft:       d,
		TextLength:  utf8.RuneCountInString(d.Text),
		TextMax:     service.PostTextMaxRunes,
		TextMin:     service.PostTextMinRunes,
		AuthorMax:   service.AuthorNameMaxRunes,
		CanGenerate: d.CanGenerate(),
	}
}

// loadDraft 从会话读取创建草稿，读取失败时返回新的空闲草稿。
func loadDraft(c *gin.Context) *service.Draft {
	raw, _ := sessions.Default(c).Get(composeDraftKey).(string)
	if raw == "" {
		return service.NewDraft()
	}
	var draft service.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		log.Printf("[compose] discarding unreadable draft: %v", err)
		return service.NewDraft()
	}
	// in-flight states never outlive the request that set them
	switch draft.State {
	case service.ComposeGenerating, service.ComposeRedirected, "":
		draft.State = service.ComposeIdle
		draft.Preview = nil
	case service.ComposeSaving:
		draft.State = service.ComposePreviewing
	}
	if draft.State == service.ComposePreviewing && draft.Preview == nil {
		draft.State = service.ComposeIdle
	}
	return &draft
}

func saveDraft(c *gin.Context, d *service.Draft) {
	session := sessions.Default(c)
	if d == nil || d.State == service.ComposeRedirected {
		session.Delete(composeDraftKey)
	} else {
		payload, err := json.Marshal(d)
		if err != nil {
			log.Printf("[compose] failed to encode draft: %v", err)
			return
		}
		session.Set(composeDraftKey, string(payload))
	}
	if err := session.Save(); err != nil {
		log.Printf("[compose] failed to save session: %v", err)
	}
}

// ShowCreate renders the creation page with the current draft.
func (a *API) ShowCreate(c *gin.Context) {
	draft := loadDraft(c)
	message := draft.Error
	if message != "" {
		// 错误提示只展示一次
		draft.Error = ""
		saveDraft(c, draft)
		draft.Error = message
	}

	a.renderHTML(c, http.StatusOK, "create.html", gin.H{
		"title":    "Share Your Story",
		"compose":  newComposeView(draft),
		"examples": examplePrompts,
	})
}

// GeneratePreview asks the backend for a preview image. Nothing is persisted.
func (a *API) GeneratePreview(c *gin.Context) {
	draft := loadDraft(c)
	err := a.composer.Generate(c.Request.Context(), draft, c.PostForm("text"), c.PostForm("author_name"))
	a.finishCompose(c, draft, err)
}

// RegeneratePreview replaces the current preview with a new image.
func (a *API) RegeneratePreview(c *gin.Context) {
	draft := loadDraft(c)
	err := a.composer.Regenerate(c.Request.Context(), draft)
	a.finishCompose(c, draft, err)
}

// SavePreview persists the current preview and navigates to the listing.
func (a *API) SavePreview(c *gin.Context) {
	draft := loadDraft(c)
	post, err := a.composer.Save(c.Request.Context(), draft)
	if err != nil {
		a.finishCompose(c, draft, err)
		return
	}

	log.Printf("[compose] saved post %s", post.ID)
	saveDraft(c, draft)
	redirect(c, "/")
}

// DiscardPreview drops the preview and keeps the typed text.
func (a *API) DiscardPreview(c *gin.Context) {
	draft := loadDraft(c)
	draft.Discard()
	a.finishCompose(c, draft, nil)
}

// finishCompose stores the draft and answers with the compose panel for
// htmx, or a redirect back to the creation page otherwise.
func (a *API) finishCompose(c *gin.Context, draft *service.Draft, err error) {
	if errors.Is(err, service.ErrInvalidTransition) {
		draft.Error = "This action is no longer available. Please try again."
	}
	if !isHTMX(c) {
		saveDraft(c, draft)
		c.Redirect(http.StatusSeeOther, "/create")
		return
	}

	// 错误随本次片段展示一次，会话中不再保留
	shown := *draft
	draft.Error = ""
	saveDraft(c, draft)
	c.HTML(http.StatusOK, "compose_panel", newComposeView(&shown))
}
