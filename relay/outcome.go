package relay

import "time"

/* Status is the result of a single delivery attempt
 * Any 2xx response is a Success, everything else is a Failure
 */
type Status int

const (
	Success Status = iota + 1
	Failure
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// BatchStatus reports what happened to an inbound event as a whole
type BatchStatus int

const (
	NoActiveTargets BatchStatus = iota + 1
	Dispatched
)

// String returns the string representation of the batch status
func (b BatchStatus) String() string {
	switch b {
	case NoActiveTargets:
		return "no_active_endpoints"
	case Dispatched:
		return "accepted"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of delivering to one target
type Outcome struct {
	Target     Target
	Status     Status
	StatusCode int    // 0 when the request never got a response
	Detail     string // response body text or transport error
	Duration   time.Duration
}

// DispatchOutcome aggregates the outcomes of one batch, in target order
type DispatchOutcome struct {
	Status   BatchStatus
	Outcomes []Outcome
}

// Failed returns the outcomes that are not a Success
func (d DispatchOutcome) Failed() []Outcome {
	var failed []Outcome
	for _, o := range d.Outcomes {
		if o.Status != Success {
			failed = append(failed, o)
		}
	}
	return failed
}
