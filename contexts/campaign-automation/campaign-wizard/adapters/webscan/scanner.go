package webscan

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
)

const maxProductHints = 5

// Scanner captures a business profile from a public website's markup.
// It reads only the landing page; deep analysis belongs to the external
// strategy collaborator.
type Scanner struct {
	client *http.Client
}

// NewScanner wires an HTTP client; a nil client gets a 15s timeout default.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scanner{client: client}
}

func (s *Scanner) Scan(ctx context.Context, siteURL string) (entities.BusinessProfile, error) {
	doc, err := s.fetchDocument(ctx, siteURL)
	if err != nil {
		return entities.BusinessProfile{}, err
	}

	profile := entities.BusinessProfile{
		BrandName:   extractBrandName(doc),
		Description: extractDescription(doc),
		Products:    extractProductHints(doc),
		Website:     siteURL,
		Source:      "scan",
	}
	if profile.IsEmpty() {
		return entities.BusinessProfile{}, fmt.Errorf("no usable business information at %s", siteURL)
	}
	return profile, nil
}

func (s *Scanner) fetchDocument(ctx context.Context, siteURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "adpilot-scanner/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", siteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", siteURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", siteURL, err)
	}
	return doc, nil
}

func extractBrandName(doc *goquery.Document) string {
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Titles often carry a tagline after a separator; keep the brand part.
	for _, separator := range []string{" | ", " - ", " :: "} {
		if index := strings.Index(title, separator); index > 0 {
			return title[:index]
		}
	}
	return title
}

func extractDescription(doc *goquery.Document) string {
	for _, selector := range []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	} {
		if content, ok := doc.Find(selector).Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractProductHints(doc *goquery.Document) []string {
	hints := make([]string, 0, maxProductHints)
	seen := make(map[string]bool)
	doc.Find("h2, h3").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		text := strings.TrimSpace(selection.Text())
		if text == "" || len(text) > 60 || seen[strings.ToLower(text)] {
			return true
		}
		seen[strings.ToLower(text)] = true
		hints = append(hints, text)
		return len(hints) < maxProductHints
	})
	return hints
}
