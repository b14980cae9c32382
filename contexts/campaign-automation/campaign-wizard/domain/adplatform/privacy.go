package adplatform

import (
	"net/url"
	"strings"
)

// ResolvePrivacyPolicyURL picks the privacy-policy URL for a lead form.
// Precedence: the business website with a /privacy suffix when a valid
// absolute http(s) URL is on file, otherwise the hosted default keyed by
// task id. Pure, no network.
func ResolvePrivacyPolicyURL(website string, hostedBase string, taskID string) string {
	site := strings.TrimSpace(website)
	if IsValidWebsiteURL(site) {
		return strings.TrimRight(site, "/") + "/privacy"
	}
	return strings.TrimRight(hostedBase, "/") + "/privacy/" + taskID
}

func IsValidWebsiteURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
