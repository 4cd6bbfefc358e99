package walmartcom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractNextData pulls the embedded __NEXT_DATA__ JSON blob out of a
// walmart.com page. Everything the site renders is available there.
func ExtractNextData(pageHTML string) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("could not parse page HTML: %w", err)
	}

	raw := doc.Find("script#__NEXT_DATA__").First().Text()
	if raw == "" {
		return nil, fmt.Errorf("__NEXT_DATA__ script not found")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("could not decode __NEXT_DATA__ JSON: %w", err)
	}
	return data, nil
}

// firstPresent returns the first usable value: non-nil and not an empty
// string, list, object or zero number. The site often fills one key with ""
// or [] while a sibling key carries the real value.
func firstPresent(values ...any) any {
	for _, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t == "" {
				continue
			}
		case []any:
			if len(t) == 0 {
				continue
			}
		case map[string]any:
			if len(t) == 0 {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		}
		return v
	}
	return nil
}
