package auth

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey      = "user_id"
	sessionUsernameKey    = "username"
	sessionDisplayNameKey = "display_name"
)

// ErrInvalidIdentity 表示身份信息缺少用户 ID。
var ErrInvalidIdentity = errors.New("identity requires a user id")

// Identity 是外部身份提供方认证后的当前用户。
type Identity struct {
	ID          string
	Username    string
	DisplayName string
}

// Name returns the label shown in the header.
func (i Identity) Name() string {
	if name := strings.TrimSpace(i.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(i.Username); name != "" {
		return name
	}
	return "User"
}

// Provider exposes the identity attached to a request. Handlers receive a
// Provider explicitly instead of reading global state.
type Provider interface {
	Identity(c *gin.Context) (Identity, bool)
}

// SessionProvider 从 gin-contrib/sessions 会话中读取身份。
type SessionProvider struct{}

func (SessionProvider) Identity(c *gin.Context) (Identity, bool) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionUserIDKey).(string)
	if strings.TrimSpace(id) == "" {
		return Identity{}, false
	}
	username, _ := session.Get(sessionUsernameKey).(string)
	displayName, _ := session.Get(sessionDisplayNameKey).(string)
	return Identity{ID: id, Username: username, DisplayName: displayName}, true
}

// SignIn 将身份写入会话。
func SignIn(c *gin.Context, identity Identity) error {
	if strings.TrimSpace(identity.ID) == "" {
		return ErrInvalidIdentity
	}
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, identity.ID)
	session.Set(sessionUsernameKey, identity.Username)
	session.Set(sessionDisplayNameKey, identity.DisplayName)
	return session.Save()
}

// SignOut 清除会话中的身份，保留其他会话数据。
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionUserIDKey)
	session.Delete(sessionUsernameKey)
	session.Delete(sessionDisplayNameKey)
	return session.Save()
}

// Static is a fixed Provider, useful for tests and single-user setups.
type Static struct {
	User *Identity
}

func (s Static) Identity(*gin.Context) (Identity, bool) {
	if s.User == nil {
		return Identity{}, false
	}
	return *s.User, true
}
