// Package linkmeta derives inspiration metadata from a URL without network access.
package linkmeta

import (
	"fmt"
	"net/url"
	"posta/internal/entity"
	"strings"
)

const (
	// DefaultDescription is stored on every resolved link.
	DefaultDescription = "External link"

	TypeVideo   = "video"
	TypeSocial  = "social"
	TypeWebpage = "webpage"

	youtubeThumbnail = "https://img.youtube.com/vi/%s/maxresdefault.jpg"
)

type platformRule struct {
	hosts    []string
	linkType string
	platform string
}

// rules are evaluated in order; the first host match wins.
var rules = []platformRule{
	{hosts: []string{"youtube.com", "youtu.be"}, linkType: TypeVideo, platform: "YouTube"},
	{hosts: []string{"instagram.com"}, linkType: TypeSocial, platform: "Instagram"},
	{hosts: []string{"twitter.com", "x.com"}, linkType: TypeSocial, platform: "Twitter/X"},
	{hosts: []string{"tiktok.com"}, linkType: TypeVideo, platform: "TikTok"},
}

// Fallback is returned for URLs that cannot be parsed.
func Fallback() entity.InspirationMetadata {
	return entity.InspirationMetadata{
		Domain:      "unknown",
		Description: DefaultDescription,
		LinkType:    TypeWebpage,
	}
}

// Resolve 根据 URL 推断链接类型、平台和缩略图。解析失败时返回 Fallback。
func Resolve(raw string) entity.InspirationMetadata {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		return Fallback()
	}

	host := strings.ToLower(parsed.Hostname())
	meta := entity.InspirationMetadata{
		Domain:      host,
		Description: DefaultDescription,
		LinkType:    TypeWebpage,
	}

	for _, rule := range rules {
		if !matchesAny(host, rule.hosts) {
			continue
		}
		meta.LinkType = rule.linkType
		meta.Platform = rule.platform
		if rule.platform == "YouTube" {
			if id := youtubeVideoID(host, parsed); id != "" {
				meta.VideoID = id
				meta.Thumbnail = fmt.Sprintf(youtubeThumbnail, id)
			}
		}
		break
	}
	return meta
}

// matchesAny reports whether host is one of the domains or a subdomain of one.
func matchesAny(host string, domains []string) bool {
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func youtubeVideoID(host string, u *url.URL) string {
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })

	if matchesAny(host, []string{"youtu.be"}) {
		if len(segments) > 0 {
			return segments[0]
		}
		return ""
	}

	if v := strings.TrimSpace(u.Query().Get("v")); v != "" {
		return v
	}
	if len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed") {
		return segments[1]
	}
	return ""
}
