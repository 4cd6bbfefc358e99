package walmart

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// The store id shows up in several places depending on which page variant
// Walmart serves; try them in order of reliability.
var storeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"storeId"\s*:\s*"?(\d+)"?`),
	regexp.MustCompile(`data-store-number="?(\d+)"?`),
	regexp.MustCompile(`storeNumber":\s*"?(\d+)"?`),
}

var slugDigitsRegex = regexp.MustCompile(`(\d+)`)

// ExtractStoreMetadata pulls the store id, province and slug from a store URL
// and the rendered page source. The id falls back to digits in the URL slug
// when the page does not expose it.
func ExtractStoreMetadata(storeURL, pageSource string) (storeID, province, storeSlug string) {
	parsed, err := url.Parse(storeURL)
	if err == nil {
		var parts []string
		for _, part := range strings.Split(parsed.Path, "/") {
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) >= 3 {
			province = parts[2]
		}
		if len(parts) >= 4 {
			storeSlug = parts[3]
		}
	}

	for _, pattern := range storeIDPatterns {
		if match := pattern.FindStringSubmatch(pageSource); match != nil {
			storeID = match[1]
			break
		}
	}

	if storeID == "" && storeSlug != "" {
		if match := slugDigitsRegex.FindStringSubmatch(storeSlug); match != nil {
			storeID = match[1]
		}
	}

	return storeID, province, storeSlug
}

// Address and phone live in different containers depending on the page
// variant, so each has a fallback selector chain.
var addressSelectors = []string{
	`[data-automation-id="store-address"]`,
	"address",
	".store-address",
}

var phoneSelectors = []string{
	`a[href^="tel:"]`,
	`[data-automation-id="store-phone"]`,
	".store-phone",
}

// ExtractContactInfo scans the store page HTML for the address and phone.
func ExtractContactInfo(pageHTML string) (address, phone string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return "", ""
	}

	for _, selector := range addressSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			address = strings.Join(strings.Fields(text), " ")
			break
		}
	}
	for _, selector := range phoneSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			phone = text
			break
		}
	}
	return address, phone
}

// ExtractHours finds the opening-hours block in the page and flattens its
// text. The block is located by any element whose id/class/data attribute
// mentions "hours".
func ExtractHours(pageHTML string) string {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	var target *html.Node
	var findHoursNode func(*html.Node)
	findHoursNode = func(n *html.Node) {
		if target != nil {
			return
		}
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id", "class", "data-automation-id":
					if strings.Contains(strings.ToLower(attr.Val), "hours") {
						target = n
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findHoursNode(c)
		}
	}
	findHoursNode(doc)

	if target == nil {
		return ""
	}

	var lines []string
	var collectText func(*html.Node)
	collectText = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(c)
		}
	}
	collectText(target)

	return strings.Join(lines, " | ")
}
