package middleware

import (
	"github.com/gin-gonic/gin"
)

// abortWithError 以统一错误体终止请求：{"code": 状态码, "msg": 消息, "errors": [详情...]}
func abortWithError(c *gin.Context, status int, msg string, details ...string) {
	if details == nil {
		details = []string{}
	}
	c.AbortWithStatusJSON(status, gin.H{
		"code":   status,
		"msg":    msg,
		"errors": details,
	})
}
