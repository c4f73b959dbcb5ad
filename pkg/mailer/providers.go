package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// httpProvider holds what the Resend and SendGrid clients share.
type httpProvider struct {
	name   string
	apiKey string
	apiURL string
	client *http.Client
}

func newHTTPProvider(name, apiKey, apiURL, defaultURL string) httpProvider {
	if apiURL == "" {
		apiURL = defaultURL
	}
	return httpProvider{
		name:   name,
		apiKey: apiKey,
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

// post sends payload as JSON and returns the response headers and body of a
// 2xx reply.
func (p *httpProvider) post(ctx context.Context, path string, payload any) (http.Header, []byte, error) {
	if p.apiKey == "" {
		return nil, nil, ErrAPIKeyRequired
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerAuthorization, authBearerPrefix+p.apiKey)
	req.Header.Set(headerContentType, mimeApplicationJSON)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, errAPIStatus(p.name, resp.StatusCode, respBody)
	}
	return resp.Header, respBody, nil
}

type ResendConfig struct {
	APIKey string
	APIURL string
}

type ResendProvider struct {
	httpProvider
}

func NewResendProvider(cfg ResendConfig) *ResendProvider {
	return &ResendProvider{httpProvider: newHTTPProvider(ProviderResend, cfg.APIKey, cfg.APIURL, ResendAPIURL)}
}

func (p *ResendProvider) Send(ctx context.Context, msg *Message) (*Result, error) {
	payload := map[string]any{
		jsonFrom:    msg.From,
		jsonTo:      msg.To,
		jsonSubject: msg.Subject,
		jsonHTML:    msg.HTML,
	}
	if msg.Text != "" {
		payload[jsonText] = msg.Text
	}
	if msg.ReplyTo != "" {
		payload[jsonReplyTo] = msg.ReplyTo
	}

	_, body, err := p.post(ctx, pathResendEmails, payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &Result{Provider: p.name, MessageID: result.ID}, nil
}

type SendGridConfig struct {
	APIKey string
	APIURL string
}

type SendGridProvider struct {
	httpProvider
}

func NewSendGridProvider(cfg SendGridConfig) *SendGridProvider {
	return &SendGridProvider{httpProvider: newHTTPProvider(ProviderSendGrid, cfg.APIKey, cfg.APIURL, SendGridAPIURL)}
}

func (p *SendGridProvider) Send(ctx context.Context, msg *Message) (*Result, error) {
	to := make([]map[string]string, len(msg.To))
	for i, email := range msg.To {
		to[i] = map[string]string{jsonEmail: email}
	}

	content := []map[string]string{}
	if msg.Text != "" {
		content = append(content, map[string]string{jsonType: mimeTextPlain, jsonValue: msg.Text})
	}
	content = append(content, map[string]string{jsonType: mimeTextHTML, jsonValue: msg.HTML})

	payload := map[string]any{
		jsonPersonalizations: []map[string]any{{jsonTo: to}},
		jsonFrom:             map[string]string{jsonEmail: msg.From},
		jsonSubject:          msg.Subject,
		jsonContent:          content,
	}
	if msg.ReplyTo != "" {
		payload[jsonReplyTo] = map[string]string{jsonEmail: msg.ReplyTo}
	}

	header, _, err := p.post(ctx, pathSendGridMailSend, payload)
	if err != nil {
		return nil, err
	}
	return &Result{Provider: p.name, MessageID: header.Get(headerMessageID)}, nil
}
