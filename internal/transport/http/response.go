package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一错误响应结构
type Response struct {
	Code   int      `json:"code"`   // HTTP 状态码
	Msg    string   `json:"msg"`    // 错误信息
	Errors []string `json:"errors"` // 错误详情
}

// OK 成功响应（200），直接输出数据载荷
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 无内容响应（204）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest 请求参数错误（400）
func BadRequest(c *gin.Context, msg string, details ...string) {
	Error(c, http.StatusBadRequest, msg, details...)
}

// NotFound 资源不存在错误（404）
func NotFound(c *gin.Context, msg string, details ...string) {
	Error(c, http.StatusNotFound, msg, details...)
}

// Conflict 资源冲突错误（409）
func Conflict(c *gin.Context, msg string, details ...string) {
	Error(c, http.StatusConflict, msg, details...)
}

// InternalError 服务器内部错误（500）
func InternalError(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg)
}

// Error 通用错误响应
func Error(c *gin.Context, httpCode int, msg string, details ...string) {
	if details == nil {
		details = []string{}
	}
	c.JSON(httpCode, Response{
		Code:   httpCode,
		Msg:    msg,
		Errors: details,
	})
}
