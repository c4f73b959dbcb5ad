package validator

import (
	"fmt"
	"html"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	minEmailLength      = 3
	maxEmailLength      = 255
	maxTitleLen         = 200
	maxSlugLen          = 120
	maxExcerptLen       = 500
	maxContentLen       = 200_000
	maxTags             = 12
	maxTagLen           = 40
	maxFileNameLen      = 255
	maxContentTypeLen   = 255
	maxAltTextLen       = 300
	maxContactNameLen   = 120
	maxContactSubject   = 200
	maxContactMessage   = 5000
	minContactMessage   = 10
	maxSettingKeyLen    = 64
	maxSettingValueLen  = 2000
	maxPagePathLen      = 512
	asciiControlStart   = 32
	asciiDelete         = 127
	asciiNewline        = '\n'
	asciiCarriageReturn = '\r'
	asciiTab            = '\t'

	errEmailEmptyFmt           = "email cannot be empty"
	errEmailLengthFmt          = "email must be between %d and %d characters"
	errEmailInvalidFmt         = "invalid email format"
	errTitleEmptyFmt           = "title cannot be empty"
	errTitleMaxLengthFmt       = "title must not exceed %d characters"
	errSlugEmptyFmt            = "slug cannot be empty"
	errSlugMaxLengthFmt        = "slug must not exceed %d characters"
	errSlugInvalidFmt          = "slug may only contain lowercase letters, digits and single hyphens"
	errExcerptMaxLengthFmt     = "excerpt must not exceed %d characters"
	errContentMaxLengthFmt     = "content must not exceed %d characters"
	errTooManyTagsFmt          = "at most %d tags are allowed"
	errTagInvalidFmt           = "tag %q must be 1 to %d characters without control characters"
	errFileNameEmptyFmt        = "file name cannot be empty"
	errFileNameMaxLengthFmt    = "file name must not exceed %d characters"
	errFileNamePathSepFmt      = "file name cannot contain path separators"
	errFileNameControlCharsFmt = "file name cannot contain control characters"
	errContentTypeMaxLengthFmt = "content type must not exceed %d characters"
	errContentTypeInvalidFmt   = "invalid content type"
	errContentTypeNotAllowed   = "content type %q is not allowed"
	errContentTypeMismatchFmt  = "file content is %q, not the declared %q"
	errFileSizeNotPositiveFmt  = "file size must be positive"
	errFileSizeMaxFmt          = "file size exceeds maximum of %d bytes"
	errAltTextMaxLengthFmt     = "alt text must not exceed %d characters"
	errNameEmptyFmt            = "name cannot be empty"
	errNameMaxLengthFmt        = "name must not exceed %d characters"
	errSubjectMaxLengthFmt     = "subject must not exceed %d characters"
	errMessageLengthFmt        = "message must be between %d and %d characters"
	errControlCharsFmt         = "%s cannot contain control characters"
	errSettingKeyInvalidFmt    = "setting key %q must match [a-z][a-z0-9_]{0,63}"
	errSettingValueMaxFmt      = "setting value for %q must not exceed %d characters"
	errPagePathInvalidFmt      = "page path must start with / and not exceed %d characters"
	errURLInvalidFmt           = "%s must be an http(s) URL"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	settingKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)

	allowedMediaTypes = map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/gif":       true,
		"image/webp":      true,
		"video/mp4":       true,
		"application/pdf": true,
	}

	strictPolicy = bluemonday.StrictPolicy()
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// NormalizeEmail lower-cases and trims an address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func PostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf(errTitleEmptyFmt)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf(errTitleMaxLengthFmt, maxTitleLen)
	}
	return nil
}

func Slug(slug string) error {
	if slug == "" {
		return fmt.Errorf(errSlugEmptyFmt)
	}
	if len(slug) > maxSlugLen {
		return fmt.Errorf(errSlugMaxLengthFmt, maxSlugLen)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf(errSlugInvalidFmt)
	}
	return nil
}

// Slugify derives a URL slug from free text. It may return "" for input
// without any ASCII letters or digits.
func Slugify(text string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

func Excerpt(excerpt string) error {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return fmt.Errorf(errExcerptMaxLengthFmt, maxExcerptLen)
	}
	return nil
}

func Content(content string) error {
	if len(content) > maxContentLen {
		return fmt.Errorf(errContentMaxLengthFmt, maxContentLen)
	}
	return nil
}

func Tags(tags []string) error {
	if len(tags) > maxTags {
		return fmt.Errorf(errTooManyTagsFmt, maxTags)
	}
	for _, tag := range tags {
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLen || hasControlChars(tag, false) {
			return fmt.Errorf(errTagInvalidFmt, tag, maxTagLen)
		}
	}
	return nil
}

func FileName(name string) error {
	if name == "" {
		return fmt.Errorf(errFileNameEmptyFmt)
	}

	if len(name) > maxFileNameLen {
		return fmt.Errorf(errFileNameMaxLengthFmt, maxFileNameLen)
	}

	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf(errFileNamePathSepFmt)
	}

	if hasControlChars(name, false) {
		return fmt.Errorf(errFileNameControlCharsFmt)
	}

	return nil
}

// MediaContentType parses and checks a content type against the media allow list.
// It returns the bare media type without parameters.
func MediaContentType(contentType string) (string, error) {
	if len(contentType) > maxContentTypeLen {
		return "", fmt.Errorf(errContentTypeMaxLengthFmt, maxContentTypeLen)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf(errContentTypeInvalidFmt)
	}

	if !allowedMediaTypes[mediaType] {
		return "", fmt.Errorf(errContentTypeNotAllowed, mediaType)
	}

	return mediaType, nil
}

// DetectedMediaType sniffs the leading bytes of an upload (up to 512) and
// returns the detected type when it is allowed and agrees with the declared
// one. An empty declared type accepts whatever allowed type is detected.
func DetectedMediaType(declared string, head []byte) (string, error) {
	detected, _, err := mime.ParseMediaType(http.DetectContentType(head))
	if err != nil {
		return "", fmt.Errorf(errContentTypeInvalidFmt)
	}
	if !allowedMediaTypes[detected] {
		return "", fmt.Errorf(errContentTypeNotAllowed, detected)
	}

	if declared == "" {
		return detected, nil
	}
	want, err := MediaContentType(declared)
	if err != nil {
		return "", err
	}
	if want != detected {
		return "", fmt.Errorf(errContentTypeMismatchFmt, detected, want)
	}
	return detected, nil
}

func FileSize(size, max int64) error {
	if size <= 0 {
		return fmt.Errorf(errFileSizeNotPositiveFmt)
	}

	if size > max {
		return fmt.Errorf(errFileSizeMaxFmt, max)
	}

	return nil
}

func AltText(alt string) error {
	if utf8.RuneCountInString(alt) > maxAltTextLen {
		return fmt.Errorf(errAltTextMaxLengthFmt, maxAltTextLen)
	}
	return nil
}

func ContactName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf(errNameEmptyFmt)
	}
	if utf8.RuneCountInString(name) > maxContactNameLen {
		return fmt.Errorf(errNameMaxLengthFmt, maxContactNameLen)
	}
	if hasControlChars(name, false) {
		return fmt.Errorf(errControlCharsFmt, "name")
	}
	return nil
}

func ContactSubject(subject string) error {
	if utf8.RuneCountInString(subject) > maxContactSubject {
		return fmt.Errorf(errSubjectMaxLengthFmt, maxContactSubject)
	}
	if hasControlChars(subject, false) {
		return fmt.Errorf(errControlCharsFmt, "subject")
	}
	return nil
}

func ContactMessage(message string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(message))
	if n < minContactMessage || n > maxContactMessage {
		return fmt.Errorf(errMessageLengthFmt, minContactMessage, maxContactMessage)
	}
	if hasControlChars(message, true) {
		return fmt.Errorf(errControlCharsFmt, "message")
	}
	return nil
}

func SettingKey(key string) error {
	if len(key) > maxSettingKeyLen || !settingKeyRegex.MatchString(key) {
		return fmt.Errorf(errSettingKeyInvalidFmt, key)
	}
	return nil
}

func SettingValue(key, value string) error {
	if utf8.RuneCountInString(value) > maxSettingValueLen {
		return fmt.Errorf(errSettingValueMaxFmt, key, maxSettingValueLen)
	}
	return nil
}

func PagePath(path string) error {
	if !strings.HasPrefix(path, "/") || len(path) > maxPagePathLen || hasControlChars(path, false) {
		return fmt.Errorf(errPagePathInvalidFmt, maxPagePathLen)
	}
	return nil
}

// HTTPURL accepts an empty value or an absolute http(s) URL.
func HTTPURL(field, value string) error {
	if value == "" {
		return nil
	}
	if !strings.HasPrefix(value, "https://") && !strings.HasPrefix(value, "http://") {
		return fmt.Errorf(errURLInvalidFmt, field)
	}
	if hasControlChars(value, false) || strings.ContainsAny(value, " \"'<>") {
		return fmt.Errorf(errURLInvalidFmt, field)
	}
	return nil
}

// StripHTML removes every tag from user-supplied text and trims it. The
// result is plain text: entities the sanitizer emits are decoded again so
// output templates escape exactly once.
func StripHTML(text string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(text)))
}

func hasControlChars(s string, allowNewlines bool) bool {
	for _, char := range s {
		if allowNewlines && (char == asciiNewline || char == asciiCarriageReturn || char == asciiTab) {
			continue
		}
		if char < asciiControlStart || char == asciiDelete {
			return true
		}
	}
	return false
}
