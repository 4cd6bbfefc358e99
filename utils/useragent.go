package utils

import (
	"math/rand"
	"time"
)

// DesktopUserAgents are realistic modern desktop user agents, rotated for
// direct API calls against walmart.ca.
var DesktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

// MobileUserAgents are rotated for walmart.com, which serves the mobile site
// a lighter anti-bot wall.
var MobileUserAgents = []string{
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.2 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 13; SM-G996B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
}

// RandomUserAgent returns a random desktop user agent.
func RandomUserAgent() string {
	return DesktopUserAgents[rand.Intn(len(DesktopUserAgents))]
}

// RandomMobileUserAgent returns a random mobile user agent.
func RandomMobileUserAgent() string {
	return MobileUserAgents[rand.Intn(len(MobileUserAgents))]
}

// HumanDelay sleeps for a random duration between minSec and maxSec seconds
// to mimic a human reading the page.
func HumanDelay(minSec, maxSec float64) {
	delay := minSec + rand.Float64()*(maxSec-minSec)
	time.Sleep(time.Duration(delay * float64(time.Second)))
}
