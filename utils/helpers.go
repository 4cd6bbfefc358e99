package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// UniqueStrings returns a new slice with duplicate entries removed,
// preserving the original order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool)
	uniqueSlice := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			uniqueSlice = append(uniqueSlice, entry)
		}
	}
	return uniqueSlice
}

// EnsureAbsoluteURL prefixes relative product URLs with the site base URL.
func EnsureAbsoluteURL(baseURL, rawURL string) string {
	if rawURL == "" || strings.HasPrefix(rawURL, "http") {
		return rawURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(rawURL, "/")
}

// ProvinceSlug turns a province name into the lowercase hyphenated form used
// in walmart.ca store URLs ("British Columbia" -> "british-columbia").
func ProvinceSlug(province string) string {
	return strings.ToLower(strings.ReplaceAll(province, " ", "-"))
}

// DigMap walks a decoded JSON object along the given keys and returns the
// value at the end of the path, or nil if any step is missing.
func DigMap(data map[string]any, keys ...string) any {
	var current any = data
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// AsFloat converts the numeric types encoding/json can produce to float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// AsString renders a decoded JSON value as a string. Numbers keep their
// shortest representation so IDs like 6000201800000 survive the round trip.
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
