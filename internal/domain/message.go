package domain

import "time"

// 撰写邮件时使用的默认发件人
const (
	DefaultSenderName  = "Default Sender"
	DefaultSenderEmail = "default.sender@example.com"
)

// Message 表示一封完整的邮件（含正文）。
type Message struct {
	ID        string    `json:"id"`
	ToName    string    `json:"to-name"`
	ToEmail   string    `json:"to-email"`
	FromName  string    `json:"from-name"`
	FromEmail string    `json:"from-email"`
	Subject   string    `json:"subject"`
	Received  time.Time `json:"received"`
	Content   string    `json:"content"`
}

// MessageSummary 是列表视图中的邮件，不包含正文。
type MessageSummary struct {
	ID        string    `json:"id"`
	ToName    string    `json:"to-name"`
	ToEmail   string    `json:"to-email"`
	FromName  string    `json:"from-name"`
	FromEmail string    `json:"from-email"`
	Subject   string    `json:"subject"`
	Received  time.Time `json:"received"`
}

// Summary 去掉正文，返回列表视图。
func (m Message) Summary() MessageSummary {
	return MessageSummary{
		ID:        m.ID,
		ToName:    m.ToName,
		ToEmail:   m.ToEmail,
		FromName:  m.FromName,
		FromEmail: m.FromEmail,
		Subject:   m.Subject,
		Received:  m.Received,
	}
}
