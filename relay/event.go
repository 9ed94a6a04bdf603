package relay

import (
	"bytes"
	"net/http"

	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/routes"
)

/* Event is a single inbound webhook captured at ingress
 * Uses value semantics; Clone before handing it to another goroutine
 */
type Event struct {
	Body    []byte
	Headers http.Header
}

// NewEvent captures body and headers. Both are copied.
func NewEvent(body []byte, headers http.Header) Event {
	return Event{
		Body:    bytes.Clone(body),
		Headers: headers.Clone(),
	}
}

// Clone returns a deep copy of the event
func (e Event) Clone() Event {
	return NewEvent(e.Body, e.Headers)
}

// Target is the snapshot of a delivery destination
type Target struct {
	Name string
	URL  string
}

// TargetsFromEndpoints converts a registry snapshot into targets
func TargetsFromEndpoints(endpoints []endpoint.Endpoint) []Target {
	targets := make([]Target, 0, len(endpoints))
	for _, e := range endpoints {
		targets = append(targets, Target{Name: e.Name, URL: e.URL})
	}
	return targets
}

// TargetFromRoute converts a static route into a target
func TargetFromRoute(route routes.Route) Target {
	return Target{Name: route.DisplayName(), URL: route.TargetURL}
}
