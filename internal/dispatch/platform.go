package dispatch

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform is the coarse device family that decides the hand-off strategy.
type Platform string

const (
	PlatformDesktop Platform = "desktop"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

var mobileAgent = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)

// DetectPlatform classifies a User-Agent header.
func DetectPlatform(userAgent string) Platform {
	if !mobileAgent.MatchString(userAgent) {
		return PlatformDesktop
	}
	if strings.Contains(strings.ToLower(userAgent), "android") {
		return PlatformAndroid
	}
	return PlatformIOS
}

// Mobile reports whether p is a touch platform.
func (p Platform) Mobile() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

// DeepLink returns the maps app URL for p, or "" on desktop.
func DeepLink(p Platform, link string) string {
	switch p {
	case PlatformAndroid:
		return "comgooglemaps://?q=" + encodeComponent(link)
	case PlatformIOS:
		return "maps://?q=" + encodeComponent(link)
	}
	return ""
}

// encodeComponent escapes like a browser's encodeURIComponent, with %20 for spaces.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
