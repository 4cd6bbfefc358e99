package walmart

import (
	"fmt"
	"strings"
	"time"

	"WalmartScraper/internal/models"
	"WalmartScraper/utils"
)

// hasValue reports whether a decoded JSON value is usable. The API routinely
// sends "" or [] in one key while a sibling key carries the real value, so
// empty strings, lists, objects and zero numbers all count as absent.
func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case float64:
		return t != 0
	}
	return true
}

// firstPresent returns the value of the first key holding a usable value.
func firstPresent(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && hasValue(v) {
			return v
		}
	}
	return nil
}

// DetectPromoType decides whether a raw API item is a rollback, clearance or
// deal by scanning its badges and a handful of promo-ish fields. When nothing
// matches, the search-query hint is returned.
func DetectPromoType(raw map[string]any, promoHint string) string {
	var sources []string

	badges := firstPresent(raw, "badges", "tags", "categoryTags")
	switch b := badges.(type) {
	case map[string]any:
		for _, v := range b {
			sources = append(sources, fmt.Sprint(v))
		}
	case []any:
		for _, v := range b {
			sources = append(sources, fmt.Sprint(v))
		}
	}

	for _, key := range []string{"offerType", "priceType", "promoTag", "badgeText", "sellerBadges", "availabilityStatus"} {
		switch v := raw[key].(type) {
		case nil:
		case []any:
			for _, entry := range v {
				sources = append(sources, fmt.Sprint(entry))
			}
		default:
			sources = append(sources, fmt.Sprint(v))
		}
	}

	promoText := strings.ToLower(strings.Join(sources, " "))
	switch {
	case strings.Contains(promoText, "rollback"):
		return "rollback"
	case strings.Contains(promoText, "clearance"):
		return "clearance"
	case strings.Contains(promoText, "deal"), strings.Contains(promoText, "special"), strings.Contains(promoText, "promo"):
		return "deal"
	}
	return promoHint
}

// NormalizeProduct maps a raw API item onto a Product. The upstream schema is
// undocumented, so every field is guessed across the key names observed so
// far. Items without a promo type or without both a name and URL are dropped.
func NormalizeProduct(raw map[string]any, storeID, storeSlug, province, promoType, baseURL string) (models.Product, bool) {
	if promoType == "" {
		return models.Product{}, false
	}

	productID := utils.AsString(firstPresent(raw, "usItemId", "id", "productId", "sku", "itemId"))
	sku := utils.AsString(raw["sku"])
	if sku == "" {
		sku = productID
	}

	productURL := utils.AsString(firstPresent(raw, "productPageUrl", "canonicalUrl", "canonicalUrlKey"))
	if strings.HasPrefix(productURL, "/") {
		productURL = utils.EnsureAbsoluteURL(baseURL, productURL)
	}

	name := utils.AsString(firstPresent(raw, "name", "title", "description", "productName"))
	if name == "" && productURL == "" {
		return models.Product{}, false
	}

	currentPrice, originalPrice := extractPrices(raw)

	var discountPercent float64
	if currentPrice > 0 && originalPrice > 0 {
		discountPercent = utils.RoundTo((1-currentPrice/originalPrice)*100, 2)
	}

	resolvedStoreID := storeID
	if resolvedStoreID == "" {
		resolvedStoreID = storeSlug
	}

	rawQuantity := firstPresent(raw, "quantity", "availableQuantity")
	quantity, ok := utils.AsFloat(rawQuantity)
	if !ok {
		quantity = utils.ParsePrice(utils.AsString(rawQuantity))
	}

	return models.Product{
		StoreID:         resolvedStoreID,
		StoreSlug:       storeSlug,
		Province:        province,
		ProductID:       productID,
		SKU:             sku,
		Name:            name,
		ProductURL:      productURL,
		CurrentPrice:    currentPrice,
		OriginalPrice:   originalPrice,
		DiscountPercent: discountPercent,
		PromoType:       promoType,
		StoreQuantity:   int(quantity),
		ScrapedAt:       time.Now(),
	}, true
}

// extractPrices walks the many places the API has put prices: a priceInfo
// envelope, nested offer objects, bare numbers, and "$1,234.56" strings.
func extractPrices(raw map[string]any) (currentPrice, originalPrice float64) {
	priceInfo, _ := firstPresent(raw, "priceInfo", "priceinfo").(map[string]any)

	var candidates []any
	if priceInfo != nil {
		candidates = append(candidates,
			priceInfo["currentPrice"], priceInfo["price"], priceInfo["pricePerUnit"], priceInfo["primaryOffer"])
	}
	candidates = append(candidates,
		raw["price"], raw["currentPrice"], raw["sellingPrice"], raw["primaryOffer"], raw["offer"], raw["priceDisplay"])

	for _, candidate := range candidates {
		switch v := candidate.(type) {
		case nil:
		case map[string]any:
			if currentPrice == 0 {
				currentPrice, _ = utils.AsFloat(firstPresent(v, "price", "currentPrice", "amount"))
			}
			if originalPrice == 0 {
				originalPrice, _ = utils.AsFloat(firstPresent(v, "wasPrice", "originalPrice", "compareAtPrice", "listPrice"))
			}
		case string:
			if currentPrice == 0 {
				currentPrice = utils.ParsePrice(v)
			}
		default:
			if currentPrice == 0 {
				if f, ok := utils.AsFloat(v); ok {
					currentPrice = f
				}
			}
		}
	}

	if originalPrice == 0 && priceInfo != nil {
		originalPrice, _ = utils.AsFloat(firstPresent(priceInfo, "wasPrice", "originalPrice", "compareAtPrice", "listPrice"))
	}

	return currentPrice, originalPrice
}
