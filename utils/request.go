package utils

import (
	"net"
	"strings"

	"github.com/kataras/iris/v12"
)

// RequestInfo captures client details recorded with every login attempt.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	Browser   string
	OS        string
	Device    string
}

// ExtractRequestInfo reads the client address and parses the user agent.
func ExtractRequestInfo(ctx iris.Context) RequestInfo {
	ua := ctx.GetHeader("User-Agent")
	if ua == "" {
		ua = "Unknown"
	}
	browser, os, device := parseUserAgent(ua)
	return RequestInfo{
		IPAddress: ClientIP(ctx),
		UserAgent: ua,
		Browser:   browser,
		OS:        os,
		Device:    device,
	}
}

func ClientIP(ctx iris.Context) string {
	if fwd := ctx.GetHeader("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := ctx.GetHeader("X-Real-Ip"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(ctx.RemoteAddr())
	if err != nil {
		return ctx.RemoteAddr()
	}
	return ip
}

// parseUserAgent does coarse-grained detection; enough for the audit trail,
// not a full UA parser.
func parseUserAgent(ua string) (browser, os, device string) {
	switch {
	case strings.Contains(ua, "Edg"):
		browser = "Edge"
	case strings.Contains(ua, "Chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "Firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "Safari"):
		browser = "Safari"
	case strings.Contains(ua, "Opera"):
		browser = "Opera"
	}

	// iPhone agents also say "like Mac OS X", Android agents say "Linux";
	// the mobile checks must come first.
	switch {
	case strings.Contains(ua, "Windows"):
		os = "Windows"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iOS"):
		os = "iOS"
	case strings.Contains(ua, "Android"):
		os = "Android"
	case strings.Contains(ua, "Mac OS"):
		os = "macOS"
	case strings.Contains(ua, "Linux"):
		os = "Linux"
	}

	switch {
	case strings.Contains(ua, "Mobile"):
		device = "Mobile"
	case strings.Contains(ua, "Tablet"):
		device = "Tablet"
	default:
		device = "Desktop"
	}
	return browser, os, device
}
