package walmart

import (
	"log"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// NewBrowser launches a Chrome instance hardened for CI/Docker environments
// and connects rod to it. An empty proxy launches without one.
func NewBrowser(headless bool, proxy string) *rod.Browser {
	l := launcher.New().
		Headless(headless).
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("disable-extensions").
		Set("disable-setuid-sandbox").
		Set("window-size", "1920,1080")

	if proxy != "" {
		l = l.Proxy(proxy)
		log.Printf("Launching browser through proxy %s", truncateProxy(proxy))
	}

	u := l.MustLaunch()
	return rod.New().ControlURL(u).MustConnect()
}

// truncateProxy keeps credentials out of the logs.
func truncateProxy(proxy string) string {
	if len(proxy) > 30 {
		return proxy[:30] + "..."
	}
	return proxy
}
