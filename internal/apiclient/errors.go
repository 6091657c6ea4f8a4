package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind 区分远端错误的类别，供调用方决定展示方式。
type Kind int

const (
	// KindRemote 表示除 404/429 以外的非 2xx 响应或网络错误。
	KindRemote Kind = iota
	// KindNotFound 表示单资源查询返回 404。
	KindNotFound
	// KindRateLimited 表示后端返回 429。
	KindRateLimited
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimited = errors.New("rate limited")
)

const defaultRateLimitMessage = "Too many requests. Please try again later."

// Error carries the human readable message surfaced to the user.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	}
	return false
}

// Message returns the user facing text of err, or fallback for non-client errors.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

type errorEnvelope struct {
	Error  json.RawMessage `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// errorDetail 尝试从 {error} 或 {detail} 中提取可展示的错误文本。
// detail 可能是字符串、带 message 的对象，或 FastAPI 的校验错误数组。
func errorDetail(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var object struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &object); err == nil {
		if msg := strings.TrimSpace(object.Message); msg != "" {
			return msg
		}
		return strings.TrimSpace(object.Error)
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func newStatusError(op string, status int, body []byte, fallback string) *Error {
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)

	apiErr := &Error{Op: op, Status: status, Kind: KindRemote}

	switch status {
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case http.StatusTooManyRequests:
		apiErr.Kind = KindRateLimited
	}

	errorText := errorDetail(envelope.Error)
	detailText := errorDetail(envelope.Detail)

	switch {
	case apiErr.Kind == KindRateLimited:
		apiErr.Message = firstNonEmpty(detailText, errorText, defaultRateLimitMessage)
	default:
		apiErr.Message = firstNonEmpty(errorText, detailText, fallback)
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
