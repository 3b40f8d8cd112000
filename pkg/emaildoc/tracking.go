package emaildoc

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// clickPathSegment marks an href that already routes through the click
// redirect endpoint. It doubles as the idempotence guard: a second pass
// over already-rewritten HTML leaves wrapped links alone.
const clickPathSegment = "/track/click/"

const openPathSegment = "/track/open/"

// Matches <a ...href="url"...> or <a ...href='url'...>, preserving the
// original quote style. HTML is treated as text for this transform; the
// markup is system-generated so attribute ordering is predictable.
var hrefPattern = regexp.MustCompile(`(<a[^>]*\s+href=["'])([^"']+)(["'][^>]*>)`)

var bodyClosePattern = regexp.MustCompile(`(?i)(</body>)`)

// WrapLinksWithTracking rewrites every anchor href into a tracked
// redirect: {trackingBaseURL}?url={percent-encoded original href}. The
// original href, including its own query string, survives intact inside
// the encoded parameter. Links are left untouched when the href is an
// in-page anchor, a mailto:/tel: link, already wrapped, or the literal
// unresolved {{unsubscribeUrl}} placeholder (unsubscribes are tracked
// through a dedicated mechanism). Only <a> hrefs are rewritten.
func WrapLinksWithTracking(htmlString, trackingBaseURL string) string {
	if trackingBaseURL == "" {
		return htmlString
	}
	return hrefPattern.ReplaceAllStringFunc(htmlString, func(match string) string {
		parts := hrefPattern.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		href := parts[2]
		if isNonTrackableHref(href) {
			return match
		}
		separator := "?"
		if strings.Contains(trackingBaseURL, "?") {
			separator = "&"
		}
		return parts[1] + trackingBaseURL + separator + "url=" + url.QueryEscape(href) + parts[3]
	})
}

func isNonTrackableHref(href string) bool {
	if href == "" {
		return true
	}
	if strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return true
	}
	if strings.Contains(href, clickPathSegment) {
		return true
	}
	if href == TagUnsubscribeURL {
		return true
	}
	return false
}

// ClickTrackingURL builds the per-recipient click redirect base:
// {endpoint}/track/click/{campaignID}/{email}.
func ClickTrackingURL(endpoint, campaignID, email string) string {
	return fmt.Sprintf("%s%s%s/%s",
		strings.TrimSuffix(endpoint, "/"), clickPathSegment,
		url.QueryEscape(campaignID), url.QueryEscape(email))
}

// OpenTrackingURL builds the per-recipient open beacon URL:
// {endpoint}/track/open/{campaignID}/{email}.
func OpenTrackingURL(endpoint, campaignID, email string) string {
	return fmt.Sprintf("%s%s%s/%s",
		strings.TrimSuffix(endpoint, "/"), openPathSegment,
		url.QueryEscape(campaignID), url.QueryEscape(email))
}

// OpenTrackingPixel returns the hidden 1x1 image referencing the open
// beacon URL.
func OpenTrackingPixel(openURL string) string {
	return fmt.Sprintf(`<img src="%s" alt="" width="1" height="1">`, openURL)
}

// AppendOpenTrackingPixel inserts the open-tracking beacon before the
// closing </body> tag, or appends it when the HTML has no body tag.
func AppendOpenTrackingPixel(htmlString, openURL string) string {
	pixel := OpenTrackingPixel(openURL)
	if bodyClosePattern.MatchString(htmlString) {
		return bodyClosePattern.ReplaceAllString(htmlString, pixel+"$1")
	}
	return htmlString + pixel
}
