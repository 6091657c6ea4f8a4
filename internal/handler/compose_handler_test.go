package handler_test

import (
	"net/http"
	"net/url"
	"testing"
)

func generateForm(text, author string) url.Values {
	form := url.Values{}
	form.Set("text", text)
	form.Set("author_name", author)
	return form
}

func TestCreatePageShowsExamples(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/create", false)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(),
		"Need inspiration?",
		`data-example="building a treehouse together"`,
		"Generate Illustration",
		"0/280",
	)
}

func TestGenerateRegenerateSaveFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/create/generate", generateForm("teaching my daughter to ride a bike", "John"), true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), `id="compose"`, "https://img.test/preview-1.png", "Regenerate", "by John")
	assertNotContains(t, rec.Body.String(), "<!DOCTYPE html>")

	rec = env.post("/create/regenerate", nil, true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "https://img.test/preview-2.png")
	assertNotContains(t, rec.Body.String(), "preview-1.png")

	if len(env.backend.saved) != 0 {
		t.Fatalf("generating must not persist anything, got %d saves", len(env.backend.saved))
	}

	rec = env.post("/create/save", nil, true)
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Fatalf("expected HX-Redirect to listing, got %q", got)
	}
	if len(env.backend.saved) != 1 {
		t.Fatalf("expected exactly one save, got %d", len(env.backend.saved))
	}
	saved := env.backend.saved[0]
	if saved.ImageURL != "https://img.test/preview-2.png" || saved.Text != "teaching my daughter to ride a bike" || saved.AuthorName != "John" {
		t.Fatalf("unexpected save request %+v", saved)
	}

	rec = env.get("/create", false)
	assertStatus(t, rec, http.StatusOK)
	assertNotContains(t, rec.Body.String(), "preview-2.png")

	rec = env.get("/", false)
	assertContains(t, rec.Body.String(), "Fatherhood is... teaching my daughter to ride a bike")
}

func TestGenerateValidationSkipsBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/create/generate", generateForm("hi", ""), true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "Minimum 3 characters")
	if env.backend.generateCalls != 0 {
		t.Fatalf("invalid text must not reach the backend")
	}
}

func TestGenerateRateLimitedShowsBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.backend.generateStatus = http.StatusTooManyRequests
	env.backend.generateDetail = "Too many requests, retry in 30s"

	rec := env.post("/create/generate", generateForm("reading bedtime stories every night", ""), true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(),
		"Too many requests, retry in 30s",
		"reading bedtime stories every night</textarea>",
		"Generate Illustration",
	)
	assertNotContains(t, rec.Body.String(), "Regenerate")
}

func TestGenerateWithoutHTMXRedirectsToCreatePage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/create/generate", generateForm("playing catch in the backyard", ""), false)
	assertStatus(t, rec, http.StatusSeeOther)
	if got := rec.Header().Get("Location"); got != "/create" {
		t.Fatalf("expected redirect to /create, got %q", got)
	}

	rec = env.get("/create", false)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "https://img.test/preview-1.png", "Save &amp; Share")
}

func TestSaveWithoutPreviewIsRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post("/create/save", nil, true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "no longer available")
	if len(env.backend.saved) != 0 {
		t.Fatalf("save without preview must not reach the backend")
	}
	if rec.Header().Get("HX-Redirect") != "" {
		t.Fatalf("failed save must not navigate away")
	}
}

func TestDiscardKeepsTypedText(t *testing.T) {
	env := newTestEnv(t)

	env.post("/create/generate", generateForm("building a treehouse together", ""), true)
	rec := env.post("/create/discard", nil, true)
	assertStatus(t, rec, http.StatusOK)
	assertContains(t, rec.Body.String(), "building a treehouse together</textarea>")
	assertNotContains(t, rec.Body.String(), "preview-1.png")
}
