package middleware

import (
	"PastPort/internal/pkg/authz"
	"PastPort/internal/pkg/response"
	"PastPort/internal/service"
	"errors"

	"github.com/gin-gonic/gin"
)

// OwnershipMiddleware 属主校验。路由注册时显式声明资源类型与路径参数名，
// 由 authz 注册表完成属主查询，不从 URL 形态推断。
func OwnershipMiddleware(registry *authz.Registry, kind authz.ResourceKind, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint64("user_id")
		resourceID := c.Param(paramName)

		err := registry.CheckOwner(c.Request.Context(), kind, resourceID, userID)
		if err == nil {
			c.Next()
			return
		}

		if errors.Is(err, authz.ErrNotOwner) {
			response.Fail(c, response.Forbidden, service.UnauthorizedError.Error())
		} else {
			response.Error(c, err)
		}
		c.Abort()
	}
}
