package utils

import "sync"

// ProxyRotator hands out proxies from a fixed list in round-robin order.
// It is safe for concurrent use.
type ProxyRotator struct {
	mu      sync.Mutex
	proxies []string
	next    int
}

// NewProxyRotator builds a rotator over the given proxy URLs
// (http://ip:port or http://user:pass@ip:port).
func NewProxyRotator(proxies []string) *ProxyRotator {
	return &ProxyRotator{proxies: UniqueStrings(proxies)}
}

// Next returns the next proxy in the rotation, or "" when no proxies are
// configured.
func (r *ProxyRotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.proxies) == 0 {
		return ""
	}
	proxy := r.proxies[r.next%len(r.proxies)]
	r.next++
	return proxy
}

// Len reports how many proxies are in the rotation.
func (r *ProxyRotator) Len() int {
	return len(r.proxies)
}
