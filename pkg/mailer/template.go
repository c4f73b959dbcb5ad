package mailer

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template renders an HTML body and an optional plain-text alternative from
// the same typed data. The HTML side escapes every field.
type Template[T any] struct {
	Name string
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewTemplate[T any](name, htmlTmpl, textTmpl string) (*Template[T], error) {
	h, err := htmltemplate.New(name + "_html").Parse(htmlTmpl)
	if err != nil {
		return nil, err
	}

	t := &Template[T]{Name: name, html: h}
	if textTmpl != "" {
		t.text, err = texttemplate.New(name + "_text").Parse(textTmpl)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustTemplate is NewTemplate for package-level templates.
func MustTemplate[T any](name, htmlTmpl, textTmpl string) *Template[T] {
	t, err := NewTemplate[T](name, htmlTmpl, textTmpl)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template[T]) Render(data T) (html, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := t.html.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}

	if t.text == nil {
		return htmlBuf.String(), "", nil
	}

	var textBuf bytes.Buffer
	if err := t.text.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}
