package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(id string) Message {
	return Message{
		ID:        id,
		ToName:    "Test User",
		ToEmail:   "test.user@example.com",
		FromName:  DefaultSenderName,
		FromEmail: DefaultSenderEmail,
		Subject:   "Subject " + id,
		Received:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Content:   "Content " + id,
	}
}

func TestSeedMailboxes(t *testing.T) {
	boxes := SeedMailboxes()

	assert.Equal(t, []string{MailboxInbox, MailboxSent, MailboxTrash}, boxes.Names())

	name, idx, ok := boxes.Find(SeedMessageID)
	require.True(t, ok)
	assert.Equal(t, MailboxInbox, name)
	assert.Equal(t, 0, idx)

	mailboxes, messages := boxes.Count()
	assert.Equal(t, 3, mailboxes)
	assert.Equal(t, 1, messages)
}

func TestMailboxes_AppendRemove(t *testing.T) {
	boxes := NewMailboxes(MailboxInbox)
	boxes.Append(MailboxInbox, testMessage("a"))
	boxes.Append(MailboxInbox, testMessage("b"))
	boxes.Append("archive", testMessage("c"))

	assert.Equal(t, []string{MailboxInbox, "archive"}, boxes.Names())

	removed := boxes.Remove(MailboxInbox, 0)
	assert.Equal(t, "a", removed.ID)

	msgs, ok := boxes.Messages(MailboxInbox)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "b", msgs[0].ID)

	_, _, ok = boxes.Find("a")
	assert.False(t, ok)
}

func TestMailboxes_CloneIsIndependent(t *testing.T) {
	boxes := NewMailboxes(MailboxInbox)
	boxes.Append(MailboxInbox, testMessage("a"))

	clone := boxes.Clone()
	clone.Remove(MailboxInbox, 0)
	clone.Append("new", testMessage("a"))

	assert.False(t, boxes.Has("new"))
	name, _, ok := boxes.Find("a")
	require.True(t, ok)
	assert.Equal(t, MailboxInbox, name)
}

func TestMailboxes_ViewOmitsContent(t *testing.T) {
	boxes := SeedMailboxes()

	view, ok := boxes.View(MailboxInbox)
	require.True(t, ok)
	require.Len(t, view.Mail, 1)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"content"`)

	_, ok = boxes.View("unknown")
	assert.False(t, ok)

	empty, ok := boxes.View(MailboxSent)
	require.True(t, ok)
	assert.NotNil(t, empty.Mail)
	assert.Empty(t, empty.Mail)
}

func TestMailboxes_JSONKeepsOrder(t *testing.T) {
	boxes := NewMailboxes("zeta", MailboxInbox, "alpha")
	boxes.Append("alpha", testMessage("a"))

	data, err := json.Marshal(boxes)
	require.NoError(t, err)

	var loaded Mailboxes
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, []string{"zeta", MailboxInbox, "alpha"}, loaded.Names())

	msgs, ok := loaded.Messages("alpha")
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, testMessage("a"), msgs[0])

	zeta, ok := loaded.Messages("zeta")
	require.True(t, ok)
	assert.Empty(t, zeta)
}

func TestMailboxes_UnmarshalRejectsDuplicates(t *testing.T) {
	msg, err := json.Marshal(testMessage("a"))
	require.NoError(t, err)

	var boxes Mailboxes
	err = json.Unmarshal([]byte(`{"inbox":[`+string(msg)+`],"trash":[`+string(msg)+`]}`), &boxes)
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = json.Unmarshal([]byte(`{"inbox":[],"inbox":[]}`), &boxes)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`[]`), &boxes)
	assert.Error(t, err)
}
