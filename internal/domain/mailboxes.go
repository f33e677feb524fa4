package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Mailboxes 是邮箱名到有序邮件列表的映射。
//
// 邮箱按创建顺序迭代，按 ID 查找邮件时也按此顺序扫描。
// Mailboxes 本身不是并发安全的，由存储层加锁保护。
type Mailboxes struct {
	order []string
	boxes map[string][]Message
}

// NewMailboxes 按给定顺序创建空邮箱集合。
func NewMailboxes(names ...string) *Mailboxes {
	m := &Mailboxes{boxes: make(map[string][]Message, len(names))}
	for _, name := range names {
		m.ensure(name)
	}
	return m
}

// Names 返回全部邮箱名（迭代顺序）。
func (m *Mailboxes) Names() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Has 判断邮箱是否存在。
func (m *Mailboxes) Has(name string) bool {
	_, ok := m.boxes[name]
	return ok
}

// Messages 返回邮箱内邮件的副本。
func (m *Mailboxes) Messages(name string) ([]Message, bool) {
	msgs, ok := m.boxes[name]
	if !ok {
		return nil, false
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// Find 按 ID 查找邮件所在的邮箱及下标。
func (m *Mailboxes) Find(id string) (mailbox string, index int, ok bool) {
	for _, name := range m.order {
		for i, msg := range m.boxes[name] {
			if msg.ID == id {
				return name, i, true
			}
		}
	}
	return "", -1, false
}

// Append 把邮件追加到邮箱末尾，邮箱不存在时自动创建。
func (m *Mailboxes) Append(name string, msg Message) {
	m.ensure(name)
	m.boxes[name] = append(m.boxes[name], msg)
}

// Remove 删除邮箱中指定下标的邮件并返回它。
func (m *Mailboxes) Remove(name string, index int) Message {
	msgs := m.boxes[name]
	msg := msgs[index]
	rest := make([]Message, 0, len(msgs)-1)
	rest = append(rest, msgs[:index]...)
	rest = append(rest, msgs[index+1:]...)
	m.boxes[name] = rest
	return msg
}

// View 返回单个邮箱的列表视图（不含正文）。
func (m *Mailboxes) View(name string) (Mailbox, bool) {
	msgs, ok := m.boxes[name]
	if !ok {
		return Mailbox{}, false
	}
	view := Mailbox{Name: name, Mail: make([]MessageSummary, 0, len(msgs))}
	for _, msg := range msgs {
		view.Mail = append(view.Mail, msg.Summary())
	}
	return view, true
}

// Views 返回全部邮箱的列表视图。
func (m *Mailboxes) Views() []Mailbox {
	views := make([]Mailbox, 0, len(m.order))
	for _, name := range m.order {
		view, _ := m.View(name)
		views = append(views, view)
	}
	return views
}

// Count 返回邮箱数与邮件总数。
func (m *Mailboxes) Count() (mailboxes, messages int) {
	for _, msgs := range m.boxes {
		messages += len(msgs)
	}
	return len(m.order), messages
}

// Clone 深拷贝邮箱集合，用于先计算新状态再整体替换。
func (m *Mailboxes) Clone() *Mailboxes {
	c := &Mailboxes{
		order: make([]string, len(m.order)),
		boxes: make(map[string][]Message, len(m.boxes)),
	}
	copy(c.order, m.order)
	for name, msgs := range m.boxes {
		dup := make([]Message, len(msgs))
		copy(dup, msgs)
		c.boxes[name] = dup
	}
	return c
}

func (m *Mailboxes) ensure(name string) {
	if m.boxes == nil {
		m.boxes = make(map[string][]Message)
	}
	if _, ok := m.boxes[name]; ok {
		return
	}
	m.order = append(m.order, name)
	m.boxes[name] = []Message{}
}

// MarshalJSON 输出 {"<邮箱名>": [邮件...]}，键顺序即迭代顺序。
func (m *Mailboxes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		msgs, err := json.Marshal(m.boxes[name])
		if err != nil {
			return nil, err
		}
		buf.Write(msgs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 读取 MarshalJSON 的格式，保留键顺序并检查邮件 ID 全局唯一。
func (m *Mailboxes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mailboxes: expected object, got %v", tok)
	}

	next := NewMailboxes()
	seen := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("mailboxes: unexpected key %v", tok)
		}
		if next.Has(name) {
			return fmt.Errorf("mailboxes: duplicate mailbox %q", name)
		}

		var msgs []Message
		if err := dec.Decode(&msgs); err != nil {
			return fmt.Errorf("mailboxes: mailbox %q: %w", name, err)
		}

		next.ensure(name)
		for _, msg := range msgs {
			if prev, dup := seen[msg.ID]; dup {
				return fmt.Errorf("%w: %s in %q and %q", ErrDuplicateID, msg.ID, prev, name)
			}
			seen[msg.ID] = name
			next.Append(name, msg)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = *next
	return nil
}
