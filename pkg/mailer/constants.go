package mailer

import "time"

const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
)

const (
	ResendAPIURL   = "https://api.resend.com"
	SendGridAPIURL = "https://api.sendgrid.com"

	pathResendEmails     = "/emails"
	pathSendGridMailSend = "/v3/mail/send"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerMessageID     = "X-Message-Id"
	authBearerPrefix    = "Bearer "
	mimeApplicationJSON = "application/json"
	mimeTextHTML        = "text/html"
	mimeTextPlain       = "text/plain"
)

const (
	jsonFrom             = "from"
	jsonTo               = "to"
	jsonSubject          = "subject"
	jsonHTML             = "html"
	jsonText             = "text"
	jsonReplyTo          = "reply_to"
	jsonEmail            = "email"
	jsonPersonalizations = "personalizations"
	jsonContent          = "content"
	jsonType             = "type"
	jsonValue            = "value"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 1 << 10
	messageSeparator   = "; "
)
