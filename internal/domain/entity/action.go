package entity

import "strings"

// Status is the dialogue outcome category.
type Status string

const (
	StatusBook          Status = "book"
	StatusChange        Status = "change"
	StatusCancel        Status = "cancel"
	StatusNoFlight      Status = "no_flight"
	StatusNoReservation Status = "no_reservation"
	StatusAbort         Status = "abort"
)

// WithReason suffixes a no_flight status with the unmet attribute that
// stopped the negotiation. Standardization collapses the suffix back.
func (s Status) WithReason(reason ConditionKey) Status {
	return Status(string(s) + "_" + string(reason))
}

// Canonical collapses any no_flight_<reason> variant to plain no_flight.
func (s Status) Canonical() Status {
	if strings.HasPrefix(string(s), string(StatusNoFlight)) {
		return StatusNoFlight
	}
	return s
}

// Bookable reports whether the status carries a flight commitment.
func (s Status) Bookable() bool {
	c := s.Canonical()
	return c == StatusBook || c == StatusChange
}

// Action is the structured outcome of a dialogue. The expected action may
// list every tied-cheapest flight; a user or predicted action holds at most
// one.
type Action struct {
	Status  Status `json:"status" bson:"status"`
	Flights []int  `json:"flight" bson:"flight"`
	Name    string `json:"name" bson:"name"`
}

// NewAction builds a standardized action from selected flights.
func NewAction(flights []Flight, name string, status Status) Action {
	numbers := make([]int, 0, len(flights))
	for _, f := range flights {
		numbers = append(numbers, f.FlightNumber)
	}
	return Action{Status: status, Flights: numbers, Name: name}.Standardize()
}

// Standardize canonicalizes an action: the status loses any no_flight
// suffix, the name keeps only alphabetic and space characters, and the
// flight list survives only for book/change statuses with valid flight
// numbers. Idempotent on already-clean input.
func (a Action) Standardize() Action {
	var name strings.Builder
	for _, r := range strings.TrimSpace(a.Name) {
		if r == ' ' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			name.WriteRune(r)
		}
	}
	status := a.Status.Canonical()
	flights := []int{}
	if status == StatusBook || status == StatusChange {
		for _, f := range a.Flights {
			if f >= BaseFlightNumber {
				flights = append(flights, f)
			}
		}
	}
	return Action{Status: status, Flights: flights, Name: name.String()}
}
