package service

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	PostTextMinRunes   = 3
	PostTextMaxRunes   = 280
	AuthorNameMaxRunes = 100
	CommentMaxRunes    = 1000
)

// ValidationError 是客户端校验失败，不会触发任何网络请求。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CanGenerate reports whether the generate action is enabled for text.
func CanGenerate(text string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n >= PostTextMinRunes && n <= PostTextMaxRunes
}

// ValidatePostText checks the story text length.
func ValidatePostText(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch {
	case n == 0:
		return &ValidationError{Field: "text", Message: "Text is required"}
	case n < PostTextMinRunes:
		return &ValidationError{Field: "text", Message: fmt.Sprintf("Minimum %d characters", PostTextMinRunes)}
	case n > PostTextMaxRunes:
		return &ValidationError{Field: "text", Message: fmt.Sprintf("Maximum %d characters", PostTextMaxRunes)}
	}
	return nil
}

// ValidateAuthorName checks the optional author name.
func ValidateAuthorName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > AuthorNameMaxRunes {
		return &ValidationError{Field: "author_name", Message: fmt.Sprintf("Name is too long (maximum %d characters)", AuthorNameMaxRunes)}
	}
	return nil
}

// ValidateComment checks an already trimmed comment body.
func ValidateComment(content string) error {
	n := utf8.RuneCountInString(content)
	switch {
	case n == 0:
		return &ValidationError{Field: "content", Message: "Comment cannot be empty"}
	case n > CommentMaxRunes:
		return &ValidationError{Field: "content", Message: fmt.Sprintf("Comment is too long (maximum %d characters)", CommentMaxRunes)}
	}
	return nil
}
