package httptransport

import (
	"io"

	"github.com/gin-gonic/gin"

	"mailapi/backend/internal/domain"
	"mailapi/backend/internal/service"
)

// MailHandler 处理 /v0/mail 下的请求
type MailHandler struct {
	mail *service.MailService
}

// NewMailHandler 创建邮件处理器
func NewMailHandler(mail *service.MailService) *MailHandler {
	return &MailHandler{mail: mail}
}

// listMail godoc
// @Summary 列出邮箱及其邮件（不含正文）
// @Tags Mail
// @Produce json
// @Param mailbox query string false "邮箱名"
// @Success 200 {array} domain.Mailbox
// @Failure 404 {object} Response
// @Router /v0/mail [get]
func (h *MailHandler) listMail(c *gin.Context) {
	mailboxes, err := h.mail.List(c.Query("mailbox"))
	if err != nil {
		respondError(c, err)
		return
	}
	OK(c, mailboxes)
}

// getMail godoc
// @Summary 获取单封邮件
// @Tags Mail
// @Produce json
// @Param id path string true "邮件ID"
// @Success 200 {object} domain.Message
// @Failure 404 {object} Response
// @Router /v0/mail/{id} [get]
func (h *MailHandler) getMail(c *gin.Context) {
	msg, err := h.mail.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	OK(c, msg)
}

// composeMail godoc
// @Summary 撰写新邮件
// @Tags Mail
// @Accept json
// @Produce json
// @Success 201 {object} domain.Message
// @Failure 400 {object} Response
// @Router /v0/mail [post]
func (h *MailHandler) composeMail(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, MsgReadBodyFailed, err.Error())
		return
	}

	input, err := domain.DecodeComposeInput(body)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.mail.Compose(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, msg)
}

// moveMail godoc
// @Summary 移动邮件到指定邮箱
// @Tags Mail
// @Param id path string true "邮件ID"
// @Param mailbox query string true "目标邮箱"
// @Success 204
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /v0/mail/{id} [put]
func (h *MailHandler) moveMail(c *gin.Context) {
	if err := h.mail.Move(c.Request.Context(), c.Param("id"), c.Query("mailbox")); err != nil {
		respondError(c, err)
		return
	}
	NoContent(c)
}
