package notify

import (
	"context"
	"fmt"
	"time"

	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/pkg/mailer"
)

const subjectPrefix = "New contact message"

// Sender delivers a rendered message. Implemented by mailer.Mailer.
type Sender interface {
	Send(ctx context.Context, msg *mailer.Message) (*mailer.Result, error)
}

type contactData struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Received  string
	ReviewURL string
}

var contactTemplate = mailer.MustTemplate[contactData]("contact-notification", `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2>{{.Subject}}</h2>
		<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; wrote on {{.Received}}:</p>
		<blockquote style="white-space: pre-wrap; border-left: 3px solid #ccc; margin: 0; padding-left: 12px;">{{.Message}}</blockquote>
		<p><a href="{{.ReviewURL}}">Open in the admin area</a></p>
	</div>
</body>
</html>`, `{{.Subject}}

{{.Name}} <{{.Email}}> wrote on {{.Received}}:

{{.Message}}

Open in the admin area: {{.ReviewURL}}
`)

// ContactNotifier mails the owner a copy of each contact message with a
// reply-to of the visitor.
type ContactNotifier struct {
	sender  Sender
	to      string
	baseURL string
}

func NewContactNotifier(sender Sender, to, baseURL string) *ContactNotifier {
	return &ContactNotifier{sender: sender, to: to, baseURL: baseURL}
}

func (n *ContactNotifier) NotifyContact(ctx context.Context, s *contact.Submission) error {
	subject := subjectPrefix
	if s.Subject != "" {
		subject = subjectPrefix + ": " + s.Subject
	}

	html, text, err := contactTemplate.Render(contactData{
		Name:      s.Name,
		Email:     s.Email,
		Subject:   subject,
		Message:   s.Message,
		Received:  s.CreatedAt.UTC().Format(time.RFC1123),
		ReviewURL: n.baseURL + "/admin/contacts/" + s.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to render contact notification: %w", err)
	}

	msg := &mailer.Message{
		To:      []string{n.to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	}
	if mailer.ValidateEmail(s.Email) == nil {
		msg.ReplyTo = s.Email
	}

	_, err = n.sender.Send(ctx, msg)
	return err
}
