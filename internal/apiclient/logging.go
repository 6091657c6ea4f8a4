package apiclient

import (
	"log"
	"strings"
	"unicode/utf8"
)

const maxLogSnippetRunes = 512

// logExchange 输出请求体的关键信息，方便排查后端返回的问题。
func logExchange(op, phase, content string) {
	log.Printf("[API %s] %s: %s", op, phase, snippet(content))
}

func logStatus(op, requestID string, status int, body string) {
	log.Printf("[API %s] request %s returned %d: %s", op, requestID, status, snippet(body))
}

func logRequestFailure(op, requestID string, err error) {
	log.Printf("[API %s] request %s failed: %v", op, requestID, err)
}

func snippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	if utf8.RuneCountInString(trimmed) > maxLogSnippetRunes {
		return string([]rune(trimmed)[:maxLogSnippetRunes]) + "…(truncated)"
	}
	return trimmed
}
