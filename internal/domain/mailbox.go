package domain

import "time"

// 预置邮箱名称
const (
	MailboxInbox = "inbox"
	MailboxSent  = "sent"
	MailboxTrash = "trash"
)

// Mailbox 是列表接口返回的邮箱视图。
type Mailbox struct {
	Name string           `json:"name"`
	Mail []MessageSummary `json:"mail"`
}

// SeedMessageID 是初始收件箱中那封邮件的 ID
const SeedMessageID = "591b428e-1b99-4a56-b653-dab17210b3b7"

// SeedMailboxes 返回进程首次启动时的邮箱集合：inbox（一封邮件）、sent、trash。
func SeedMailboxes() *Mailboxes {
	boxes := NewMailboxes(MailboxInbox, MailboxSent, MailboxTrash)
	boxes.Append(MailboxInbox, Message{
		ID:        SeedMessageID,
		ToName:    "CSE186 Student",
		ToEmail:   "cse186-student@ucsc.edu",
		FromName:  "Cherye O'Loughane",
		FromEmail: "coloughane0@nymag.com",
		Subject:   "Broderskab (Brotherhood)",
		Received:  time.Date(2020, time.July, 7, 0, 18, 37, 0, time.UTC),
		Content:   "Duis aliquam convallis nunc.",
	})
	return boxes
}
