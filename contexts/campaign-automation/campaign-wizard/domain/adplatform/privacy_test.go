package adplatform

import "testing"

func TestResolvePrivacyPolicyURLPrefersWebsite(t *testing.T) {
	got := ResolvePrivacyPolicyURL("https://acme.example.com/", "https://hosted.example.com", "task-1")
	if got != "https://acme.example.com/privacy" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestResolvePrivacyPolicyURLFallsBackToHosted(t *testing.T) {
	cases := []string{"", "not a url", "ftp://acme.example.com", "acme.example.com"}
	for _, website := range cases {
		got := ResolvePrivacyPolicyURL(website, "https://hosted.example.com/", "task-9")
		if got != "https://hosted.example.com/privacy/task-9" {
			t.Fatalf("website %q: unexpected url %q", website, got)
		}
	}
}

func TestIsValidWebsiteURL(t *testing.T) {
	valid := []string{"https://acme.example.com", "http://acme.example.com/shop"}
	for _, raw := range valid {
		if !IsValidWebsiteURL(raw) {
			t.Errorf("expected %q to be valid", raw)
		}
	}
	invalid := []string{"", "acme.example.com", "ftp://acme.example.com", "https://"}
	for _, raw := range invalid {
		if IsValidWebsiteURL(raw) {
			t.Errorf("expected %q to be invalid", raw)
		}
	}
}
