package routes

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNotFound is returned when no static route exists for a service key
var ErrNotFound = errors.New("route not found")

/* Route maps a service key to exactly one destination
 * Static routes bypass the endpoint registry entirely
 */
type Route struct {
	Service   string
	Name      string
	TargetURL string
}

// Validate checks if the route configuration is valid
func (r *Route) Validate() error {
	if r.Service == "" {
		return fmt.Errorf("service cannot be empty")
	}
	if r.TargetURL == "" {
		return fmt.Errorf("target_url cannot be empty for route %s", r.Service)
	}
	u, err := url.Parse(r.TargetURL)
	if err != nil {
		return fmt.Errorf("invalid target_url for route %s: %w", r.Service, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target_url must use http or https for route %s", r.Service)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("target_url has no host for route %s", r.Service)
	}
	return nil
}

// DisplayName returns the configured name or a generated one
func (r *Route) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Static %s endpoint", r.Service)
}

const stagingBaseURL = "https://staging.webhook.api.mavapay.co/webhook/"

// Defaults returns the built-in route table
func Defaults() []Route {
	return []Route{
		{Service: "fincra", TargetURL: stagingBaseURL + "fincra"},
		{Service: "splice", TargetURL: stagingBaseURL + "splice"},
		{Service: "useorange", TargetURL: stagingBaseURL + "useorange"},
		{Service: "galoy", TargetURL: stagingBaseURL + "galoy"},
	}
}
