package emaildoc

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the distinct anchor hrefs of an HTML string in
// document order, for the editor's link review panel. In-page anchors
// are skipped.
func ExtractLinks(htmlString string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlString))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links, nil
}
