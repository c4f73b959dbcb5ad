package mailer

import (
	"errors"
	"fmt"
)

var (
	ErrNoProviders         = errors.New("no email providers configured")
	ErrProviderNil         = errors.New("provider cannot be nil")
	ErrAllProvidersFailed  = errors.New("all providers failed")
	ErrAPIKeyRequired      = errors.New("api key is required")
	ErrMessageRequired     = errors.New("message is required")
	ErrAtLeastOneRecipient = errors.New("at least one recipient required")
	ErrInvalidFromEmail    = errors.New("invalid 'from' email")
	ErrInvalidReplyTo      = errors.New("invalid 'reply_to' email")
	ErrSubjectRequired     = errors.New("subject is required")
	ErrBodyRequired        = errors.New("html content is required")
)

func errInvalidToEmail(email string) error {
	return fmt.Errorf("invalid 'to' email: %s", email)
}

func errAPIStatus(provider string, statusCode int, body []byte) error {
	return fmt.Errorf("%s API error: %d - %s", provider, statusCode, body)
}
