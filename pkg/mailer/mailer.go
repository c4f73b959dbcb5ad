// Package mailer sends transactional email through HTTP APIs, falling back
// from one provider to the next.
package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Provider delivers one message.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) (*Result, error)
}

type Message struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

type Result struct {
	Provider  string
	MessageID string
}

// Mailer tries each provider in order until one accepts the message.
type Mailer struct {
	providers   []Provider
	defaultFrom string
}

func New(defaultFrom string, providers ...Provider) (*Mailer, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	for _, p := range providers {
		if p == nil {
			return nil, ErrProviderNil
		}
	}
	if defaultFrom != "" {
		if err := ValidateEmail(defaultFrom); err != nil {
			return nil, ErrInvalidFromEmail
		}
	}
	return &Mailer{
		providers:   append([]Provider(nil), providers...),
		defaultFrom: defaultFrom,
	}, nil
}

// Send validates msg and hands it to the providers in order. The returned
// error joins every provider failure when none succeeded.
func (m *Mailer) Send(ctx context.Context, msg *Message) (*Result, error) {
	if msg == nil {
		return nil, ErrMessageRequired
	}

	data := *msg
	data.To = append([]string(nil), msg.To...)
	if data.From == "" {
		data.From = m.defaultFrom
	}
	if err := Validate(&data); err != nil {
		return nil, err
	}

	var failures []string
	for _, p := range m.providers {
		result, err := p.Send(ctx, &data)
		if err == nil {
			return result, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAllProvidersFailed, strings.Join(failures, messageSeparator))
}

// ProviderNames lists the configured providers in failover order.
func (m *Mailer) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}

func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	return err
}

func Validate(msg *Message) error {
	if len(msg.To) == 0 {
		return ErrAtLeastOneRecipient
	}
	for _, to := range msg.To {
		if err := ValidateEmail(to); err != nil {
			return errInvalidToEmail(to)
		}
	}
	if err := ValidateEmail(msg.From); err != nil {
		return ErrInvalidFromEmail
	}
	if msg.ReplyTo != "" {
		if err := ValidateEmail(msg.ReplyTo); err != nil {
			return ErrInvalidReplyTo
		}
	}
	if msg.Subject == "" {
		return ErrSubjectRequired
	}
	if msg.HTML == "" {
		return ErrBodyRequired
	}
	return nil
}
