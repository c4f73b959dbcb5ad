package analytics

import (
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const (
	DefaultDays = 30
	MaxDays     = 365
	TopLimit    = 10

	maxKeyBytes = 64
)

const (
	AgentBot     = "bot"
	AgentMobile  = "mobile"
	AgentDesktop = "desktop"
	AgentUnknown = "unknown"
)

type PageView struct {
	ID             uuid.UUID
	Path           string
	ReferrerHost   string
	VisitorHash    string
	UserAgentClass string
	CreatedAt      time.Time
}

type RecordPageViewInput struct {
	Path           string
	ReferrerHost   string
	VisitorHash    string
	UserAgentClass string
}

type Count struct {
	Key   string
	Views int64
}

type DailyCount struct {
	Day      time.Time
	Views    int64
	Visitors int64
}

type Summary struct {
	Days           int
	TotalViews     int64
	UniqueVisitors int64
	TopPages       []Count
	TopReferrers   []Count
	Daily          []DailyCount
}

// ClampDays bounds the summary window to 1..365, defaulting to 30.
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

// Hasher derives visitor identifiers that rotate daily so raw addresses are
// never stored.
type Hasher struct {
	key []byte
}

func NewHasher(secret string) *Hasher {
	key := []byte(secret)
	if len(key) > maxKeyBytes {
		key = key[:maxKeyBytes]
	}
	return &Hasher{key: key}
}

func (h *Hasher) VisitorHash(ip, userAgent string, day time.Time) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// key length is bounded in NewHasher
		panic(err)
	}
	mac.Write([]byte(day.UTC().Format(time.DateOnly)))
	mac.Write([]byte{0})
	mac.Write([]byte(ip))
	mac.Write([]byte{0})
	mac.Write([]byte(userAgent))
	return hex.EncodeToString(mac.Sum(nil)[:16])
}

// ClassifyUserAgent buckets a User-Agent header.
func ClassifyUserAgent(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case lower == "":
		return AgentUnknown
	case strings.Contains(lower, "bot") || strings.Contains(lower, "spider") || strings.Contains(lower, "crawl"):
		return AgentBot
	case strings.Contains(lower, "mobi") || strings.Contains(lower, "android") || strings.Contains(lower, "iphone"):
		return AgentMobile
	default:
		return AgentDesktop
	}
}

// ReferrerHost keeps only the host of an absolute referrer URL.
func ReferrerHost(referrer string) string {
	u, err := url.Parse(strings.TrimSpace(referrer))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
