package entity

import "strings"

// Goal is the customer's overall objective for the call.
type Goal string

const (
	GoalBook   Goal = "book"
	GoalChange Goal = "change"
	GoalCancel Goal = "cancel"
)

// Goals lists the goals in prior order (book, change, cancel).
var Goals = []Goal{GoalBook, GoalChange, GoalCancel}

// Intent is the customer's private target constraints for a flight search.
// A standardized intent drops the "don't care" sentinels: time/class/airline
// fields become empty, MaxConnections becomes nil, and the raw epoch dates
// are zeroed. Missing fields always mean unconstrained, never absent.
type Intent struct {
	DepartureAirport  string `json:"departure_airport" bson:"departure_airport"`
	ReturnAirport     string `json:"return_airport" bson:"return_airport"`
	DepartureMonth    string `json:"departure_month" bson:"departure_month"`
	DepartureDay      string `json:"departure_day" bson:"departure_day"`
	ReturnMonth       string `json:"return_month" bson:"return_month"`
	ReturnDay         string `json:"return_day" bson:"return_day"`
	Name              string `json:"name" bson:"name"`
	DepartureTime     string `json:"departure_time,omitempty" bson:"departure_time,omitempty"`
	ReturnTime        string `json:"return_time,omitempty" bson:"return_time,omitempty"`
	Class             string `json:"class,omitempty" bson:"class,omitempty"`
	MaxPrice          int    `json:"max_price" bson:"max_price"`
	MaxConnections    *int   `json:"max_connections,omitempty" bson:"max_connections,omitempty"`
	AirlinePreference string `json:"airline_preference,omitempty" bson:"airline_preference,omitempty"`
	Goal              Goal   `json:"goal" bson:"goal"`

	// Raw epoch dates used to anchor knowledge base generation. Dropped by
	// standardization before persistence.
	DepartureDate int64 `json:"departure_date,omitempty" bson:"departure_date,omitempty"`
	ReturnDate    int64 `json:"return_date,omitempty" bson:"return_date,omitempty"`
}

// Standardize returns a copy with sentinel values dropped and the sampled
// First_Last name joined with a space.
func (it Intent) Standardize() Intent {
	out := it
	if out.DepartureTime == TimeAll {
		out.DepartureTime = ""
	}
	if out.ReturnTime == TimeAll {
		out.ReturnTime = ""
	}
	if out.Class == ClassAll {
		out.Class = ""
	}
	if out.AirlinePreference == "all" {
		out.AirlinePreference = ""
	}
	if out.MaxConnections != nil && *out.MaxConnections == MaxConnectionsAny {
		out.MaxConnections = nil
	}
	out.Name = strings.TrimSpace(strings.ReplaceAll(out.Name, "_", " "))
	out.DepartureDate = 0
	out.ReturnDate = 0
	return out
}

// Full restores the dropped sentinels, the inverse of Standardize for every
// matchable field. Used by tokenization, which needs a fixed-width intent.
func (it Intent) Full() Intent {
	out := it
	if out.DepartureTime == "" {
		out.DepartureTime = TimeAll
	}
	if out.ReturnTime == "" {
		out.ReturnTime = TimeAll
	}
	if out.Class == "" {
		out.Class = ClassAll
	}
	if out.AirlinePreference == "" {
		out.AirlinePreference = "all"
	}
	if out.MaxConnections == nil {
		any := MaxConnectionsAny
		out.MaxConnections = &any
	}
	return out
}

// Condition converts the intent into the constraint set used for matching.
// Sentinel values ("all", max connections 2) and empty standardized fields
// are left unconstrained.
func (it Intent) Condition() Condition {
	var c Condition
	c.DepartureAirport = optString(it.DepartureAirport)
	c.ReturnAirport = optString(it.ReturnAirport)
	c.DepartureMonth = optString(it.DepartureMonth)
	c.DepartureDay = optString(it.DepartureDay)
	c.ReturnMonth = optString(it.ReturnMonth)
	c.ReturnDay = optString(it.ReturnDay)
	if it.DepartureTime != "" && it.DepartureTime != TimeAll {
		c.DepartureTime = ptr(it.DepartureTime)
	}
	if it.ReturnTime != "" && it.ReturnTime != TimeAll {
		c.ReturnTime = ptr(it.ReturnTime)
	}
	if it.Class != "" && it.Class != ClassAll {
		c.Class = ptr(it.Class)
	}
	if it.MaxPrice > 0 {
		c.MaxPrice = ptr(it.MaxPrice)
	}
	if it.MaxConnections != nil && *it.MaxConnections != MaxConnectionsAny {
		c.MaxConnections = ptr(*it.MaxConnections)
	}
	if it.AirlinePreference != "" && it.AirlinePreference != "all" {
		c.AirlinePreference = ptr(it.AirlinePreference)
	}
	return c
}

// ConditionKey names a matchable flight attribute of a condition.
type ConditionKey string

const (
	KeyDepartureAirport  ConditionKey = "departure_airport"
	KeyReturnAirport     ConditionKey = "return_airport"
	KeyDepartureMonth    ConditionKey = "departure_month"
	KeyDepartureDay      ConditionKey = "departure_day"
	KeyReturnMonth       ConditionKey = "return_month"
	KeyReturnDay         ConditionKey = "return_day"
	KeyDepartureTime     ConditionKey = "departure_time"
	KeyReturnTime        ConditionKey = "return_time"
	KeyClass             ConditionKey = "class"
	KeyMaxPrice          ConditionKey = "max_price"
	KeyMaxConnections    ConditionKey = "max_connections"
	KeyAirlinePreference ConditionKey = "airline_preference"
)

// Condition is a possibly partial set of flight constraints: the full intent,
// or the agent's progressively revealed subset during negotiation. A nil
// field is unconstrained.
type Condition struct {
	DepartureAirport  *string
	ReturnAirport     *string
	DepartureMonth    *string
	DepartureDay      *string
	ReturnMonth       *string
	ReturnDay         *string
	DepartureTime     *string
	ReturnTime        *string
	Class             *string
	MaxPrice          *int
	MaxConnections    *int
	AirlinePreference *string
}

// HasRoute reports whether both airports are known.
func (c Condition) HasRoute() bool {
	return c.DepartureAirport != nil && c.ReturnAirport != nil
}

// HasDates reports whether the travel dates are known.
func (c Condition) HasDates() bool {
	return c.DepartureMonth != nil && c.DepartureDay != nil &&
		c.ReturnMonth != nil && c.ReturnDay != nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return ptr(v)
}

func ptr[T any](v T) *T { return &v }
