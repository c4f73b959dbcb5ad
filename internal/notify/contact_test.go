package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/pkg/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	msg *mailer.Message
	err error
}

func (f *fakeSender) Send(_ context.Context, msg *mailer.Message) (*mailer.Result, error) {
	f.msg = msg
	if f.err != nil {
		return nil, f.err
	}
	return &mailer.Result{Provider: "fake", MessageID: "m-1"}, nil
}

func TestNotifyContact(t *testing.T) {
	sender := &fakeSender{}
	n := NewContactNotifier(sender, "owner@example.com", "https://site.example")

	id := uuid.New()
	err := n.NotifyContact(context.Background(), &contact.Submission{
		ID:        id,
		Name:      "Ada",
		Email:     "ada@example.com",
		Subject:   "Project <idea>",
		Message:   "Let's build <b>something</b>.",
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	msg := sender.msg
	require.NotNil(t, msg)
	assert.Equal(t, []string{"owner@example.com"}, msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "New contact message: Project <idea>", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;b&gt;something&lt;/b&gt;")
	assert.NotContains(t, msg.HTML, "<b>something</b>")
	assert.Contains(t, msg.HTML, "https://site.example/admin/contacts/"+id.String())
	assert.Contains(t, msg.Text, "Let's build <b>something</b>.")
}

func TestNotifyContact_EscapesOnce(t *testing.T) {
	sender := &fakeSender{}
	n := NewContactNotifier(sender, "owner@example.com", "https://site.example")

	require.NoError(t, n.NotifyContact(context.Background(), &contact.Submission{
		ID:      uuid.New(),
		Name:    "Pat O'Brien",
		Email:   "pat@example.com",
		Message: "Tom & Jerry's project",
	}))

	assert.Contains(t, sender.msg.HTML, "Tom &amp; Jerry")
	assert.NotContains(t, sender.msg.HTML, "&amp;amp;")
	assert.Contains(t, sender.msg.Text, "Tom & Jerry's project")
}

func TestNotifyContact_Defaults(t *testing.T) {
	sender := &fakeSender{}
	n := NewContactNotifier(sender, "owner@example.com", "https://site.example")

	require.NoError(t, n.NotifyContact(context.Background(), &contact.Submission{ID: uuid.New(), Name: "Ada", Email: "not-an-email", Message: "hello there"}))

	assert.Equal(t, subjectPrefix, sender.msg.Subject)
	assert.Empty(t, sender.msg.ReplyTo)
}

func TestNotifyContact_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("all providers failed")}
	n := NewContactNotifier(sender, "owner@example.com", "https://site.example")

	err := n.NotifyContact(context.Background(), &contact.Submission{ID: uuid.New(), Name: "Ada", Message: "hello there"})
	assert.Error(t, err)
}
