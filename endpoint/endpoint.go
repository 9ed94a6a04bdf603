package endpoint

import (
	"net/url"
	"strings"
)

/* Endpoint represents a downstream receiver of relayed webhooks
 * Uses value semantics as it represents data, not behavior
 */
type Endpoint struct {
	ID     string
	URL    string
	Name   string
	Active bool
}

// Validate checks the client supplied fields of an endpoint
func (e Endpoint) Validate() error {
	if err := ValidateURL(e.URL); err != nil {
		return err
	}
	if strings.TrimSpace(e.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name cannot be empty"}
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL with a host
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Message: "Invalid URL format", Details: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "Invalid URL format", Details: "scheme must be http or https"}
	}
	if u.Host == "" || u.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "Invalid URL format", Details: "URL has no host"}
	}
	return nil
}
