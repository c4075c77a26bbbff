package httpx

import (
	"fmt"
	"net/http"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Product is the name sent in the User-Agent of every outbound request.
const Product = "doiproxy"

// UserAgent builds a User-Agent that identifies the service and, when
// contact is set, how to reach its operator (CrossRef "polite pool" form).
func UserAgent(version, contact string) string {
	if version == "" {
		version = "dev"
	}
	if contact == "" {
		return fmt.Sprintf("%s/%s", Product, version)
	}
	return fmt.Sprintf("%s/%s (mailto:%s)", Product, version, contact)
}

// SetUA sets the User-Agent header on the request.
func SetUA(req *http.Request, ua string) {
	if req != nil && ua != "" {
		req.Header.Set("User-Agent", ua)
	}
}
