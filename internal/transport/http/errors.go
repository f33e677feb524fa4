package httptransport

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"mailapi/backend/internal/domain"
)

// 通用错误消息
const (
	MsgMailboxNotFound = "Mailbox not found"
	MsgEmailNotFound   = "Email not found"
	MsgInvalidEmail    = "Invalid email"
	MsgMailboxRequired = "Mailbox not specified"
	MsgMoveToSent      = "Cannot move to the sent mailbox"
	MsgInvalidRequest  = "Invalid request"
	MsgRouteNotFound   = "Not found"
	MsgInternalError   = "Internal server error"
	MsgReadBodyFailed  = "Failed to read request body"
)

// 错误消息映射表（业务错误 -> 消息）
var errorMessages = map[error]string{
	domain.ErrMailboxNotFound: MsgMailboxNotFound,
	domain.ErrMessageNotFound: MsgEmailNotFound,
	domain.ErrInvalidEmail:    MsgInvalidEmail,
	domain.ErrMailboxRequired: MsgMailboxRequired,
	domain.ErrMoveToSent:      MsgMoveToSent,
}

// GetErrorMessage 获取错误对应的消息
func GetErrorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}

// respondError 按错误类别输出响应：InvalidInput 400，NotFound 404，Conflict 409，其余 500
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsInvalidInput(err):
		BadRequest(c, GetErrorMessage(err), detail(err))
	case domain.IsNotFound(err):
		NotFound(c, GetErrorMessage(err))
	case domain.IsConflict(err):
		Conflict(c, GetErrorMessage(err))
	default:
		_ = c.Error(err)
		InternalError(c, MsgInternalError)
	}
}

// detail 去掉错误链中的类别前缀，保留具体原因
func detail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
