package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// isHTMX reports whether the request was issued by htmx and expects a fragment.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// validID 校验后端资源 ID 是否为 UUID，非法 ID 直接视为不存在，不发起请求。
func validID(raw string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// safeRedirectTarget only accepts same-site relative paths.
func safeRedirectTarget(raw, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return fallback
	}
	return target
}

// redirect navigates the browser to location. htmx requests get an
// HX-Redirect header because they cannot follow a 303 into a full page.
func redirect(c *gin.Context, location string) {
	if isHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// triggerAlert asks the page to show message through the "app:alert" event.
func triggerAlert(c *gin.Context, message string) {
	payload, err := json.Marshal(map[string]any{
		"app:alert": map[string]string{"message": message},
	})
	if err != nil {
		log.Printf("[handler] failed to encode alert: %v", err)
		return
	}
	c.Header("HX-Trigger", string(payload))
}
