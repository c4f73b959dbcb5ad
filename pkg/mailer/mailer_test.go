package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() *Message {
	return &Message{
		To:      []string{"owner@example.com"},
		Subject: "New contact message",
		HTML:    "<p>hello</p>",
		Text:    "hello",
		ReplyTo: "ada@example.com",
	}
}

type stubProvider struct {
	name  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Send(context.Context, *Message) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Provider: s.name, MessageID: s.name + "-1"}, nil
}

// ============================================================================
// Mailer Tests
// ============================================================================

func TestNew(t *testing.T) {
	_, err := New("site@example.com")
	assert.ErrorIs(t, err, ErrNoProviders)

	_, err = New("site@example.com", nil)
	assert.ErrorIs(t, err, ErrProviderNil)

	_, err = New("not an address", &stubProvider{name: "a"})
	assert.ErrorIs(t, err, ErrInvalidFromEmail)

	m, err := New("site@example.com", &stubProvider{name: "a"}, &stubProvider{name: "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.ProviderNames())
}

func TestMailer_Failover(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("503")}
	second := &stubProvider{name: "second"}
	m, err := New("site@example.com", first, second)
	require.NoError(t, err)

	result, err := m.Send(context.Background(), validMessage())
	require.NoError(t, err)

	assert.Equal(t, "second", result.Provider)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestMailer_AllProvidersFail(t *testing.T) {
	m, err := New("site@example.com",
		&stubProvider{name: "first", err: errors.New("timeout")},
		&stubProvider{name: "second", err: errors.New("401")},
	)
	require.NoError(t, err)

	_, err = m.Send(context.Background(), validMessage())
	require.ErrorIs(t, err, ErrAllProvidersFailed)
	assert.Contains(t, err.Error(), "first: timeout")
	assert.Contains(t, err.Error(), "second: 401")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Message)
		want   error
	}{
		{"valid", func(*Message) {}, nil},
		{"no recipients", func(m *Message) { m.To = nil }, ErrAtLeastOneRecipient},
		{"bad from", func(m *Message) { m.From = "nope" }, ErrInvalidFromEmail},
		{"bad reply to", func(m *Message) { m.ReplyTo = "nope" }, ErrInvalidReplyTo},
		{"no subject", func(m *Message) { m.Subject = "" }, ErrSubjectRequired},
		{"no body", func(m *Message) { m.HTML = "" }, ErrBodyRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			msg.From = "site@example.com"
			tt.mutate(msg)

			err := Validate(msg)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	msg := validMessage()
	msg.From = "site@example.com"
	msg.To = []string{"broken"}
	assert.Error(t, Validate(msg))
}

func TestMailer_SendFillsDefaultFrom(t *testing.T) {
	var got *Message
	p := &recordingProvider{fn: func(m *Message) { got = m }}
	m, err := New("site@example.com", p)
	require.NoError(t, err)

	msg := validMessage()
	_, err = m.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "site@example.com", got.From)
	assert.Empty(t, msg.From)
}

type recordingProvider struct {
	fn func(*Message)
}

func (r *recordingProvider) Name() string { return "recording" }

func (r *recordingProvider) Send(_ context.Context, m *Message) (*Result, error) {
	r.fn(m)
	return &Result{Provider: "recording"}, nil
}

// ============================================================================
// Provider Tests
// ============================================================================

func TestResendProvider(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathResendEmails, r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get(headerAuthorization))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"id":"re-msg-1"}`))
	}))
	defer srv.Close()

	p := NewResendProvider(ResendConfig{APIKey: "re_test", APIURL: srv.URL})
	msg := validMessage()
	msg.From = "site@example.com"

	result, err := p.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, ProviderResend, result.Provider)
	assert.Equal(t, "re-msg-1", result.MessageID)
	assert.Equal(t, "site@example.com", payload[jsonFrom])
	assert.Equal(t, "ada@example.com", payload[jsonReplyTo])
	assert.Equal(t, "hello", payload[jsonText])
}

func TestSendGridProvider(t *testing.T) {
	var payload struct {
		Personalizations []struct {
			To []map[string]string `json:"to"`
		} `json:"personalizations"`
		From    map[string]string   `json:"from"`
		ReplyTo map[string]string   `json:"reply_to"`
		Content []map[string]string `json:"content"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathSendGridMailSend, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set(headerMessageID, "sg-msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := NewSendGridProvider(SendGridConfig{APIKey: "SG.test", APIURL: srv.URL})
	msg := validMessage()
	msg.From = "site@example.com"

	result, err := p.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "sg-msg-1", result.MessageID)
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "owner@example.com", payload.Personalizations[0].To[0][jsonEmail])
	assert.Equal(t, "site@example.com", payload.From[jsonEmail])
	assert.Equal(t, "ada@example.com", payload.ReplyTo[jsonEmail])
	require.Len(t, payload.Content, 2)
	assert.Equal(t, mimeTextPlain, payload.Content[0][jsonType])
	assert.Equal(t, mimeTextHTML, payload.Content[1][jsonType])
}

func TestProvider_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	_, err := NewResendProvider(ResendConfig{APIURL: srv.URL}).Send(context.Background(), validMessage())
	assert.ErrorIs(t, err, ErrAPIKeyRequired)

	_, err = NewResendProvider(ResendConfig{APIKey: "re_test", APIURL: srv.URL}).Send(context.Background(), validMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = NewSendGridProvider(SendGridConfig{APIKey: "SG.test", APIURL: srv.URL}).Send(context.Background(), validMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

// ============================================================================
// Template Tests
// ============================================================================

func TestTemplate(t *testing.T) {
	type data struct{ Name string }
	tmpl, err := NewTemplate[data]("greeting", `<p>Hi {{.Name}}</p>`, `Hi {{.Name}}`)
	require.NoError(t, err)

	html, text, err := tmpl.Render(data{Name: "<Ada>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi &lt;Ada&gt;</p>", html)
	assert.Equal(t, "Hi <Ada>", text)

	_, err = NewTemplate[data]("broken", `{{.Name`, "")
	assert.Error(t, err)

	htmlOnly, err := NewTemplate[data]("html-only", `<p>{{.Name}}</p>`, "")
	require.NoError(t, err)
	_, text, err = htmlOnly.Render(data{Name: "Ada"})
	require.NoError(t, err)
	assert.Empty(t, text)
}
