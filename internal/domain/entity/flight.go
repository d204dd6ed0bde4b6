package entity

// BaseFlightNumber is the first flight number assigned within a knowledge
// base. Numbers below it never identify a real flight, which keeps the
// reservation sentinel 0 collision-free.
const BaseFlightNumber = 1000

// NoReservation is the sentinel flight number meaning no existing booking.
const NoReservation = 0

// Flight is a single candidate flight inside a knowledge base.
type Flight struct {
	DepartureAirport string `json:"departure_airport" bson:"departure_airport"`
	ReturnAirport    string `json:"return_airport" bson:"return_airport"`
	DepartureMonth   string `json:"departure_month" bson:"departure_month"`
	ReturnMonth      string `json:"return_month" bson:"return_month"`
	DepartureDay     string `json:"departure_day" bson:"departure_day"`
	ReturnDay        string `json:"return_day" bson:"return_day"`
	DepartureTimeNum int    `json:"departure_time_num" bson:"departure_time_num"`
	ReturnTimeNum    int    `json:"return_time_num" bson:"return_time_num"`
	Class            string `json:"class" bson:"class"`
	NumConnections   int    `json:"num_connections" bson:"num_connections"`
	Price            int    `json:"price" bson:"price"`
	FlightNumber     int    `json:"flight_number" bson:"flight_number"`
	Airline          string `json:"airline" bson:"airline"`
}

// KnowledgeBase is the pool of candidate flights visible to the agent for one
// dialogue, with an optional pre-existing reservation. Built once per sample
// and immutable afterwards.
type KnowledgeBase struct {
	Flights     []Flight `json:"kb" bson:"kb"`
	Reservation int      `json:"reservation" bson:"reservation"`
}

// HasReservation reports whether the knowledge base carries an existing
// booking.
func (kb KnowledgeBase) HasReservation() bool {
	return kb.Reservation != NoReservation
}

// FindFlight returns the flight with the given number, if present.
func (kb KnowledgeBase) FindFlight(number int) (Flight, bool) {
	for _, f := range kb.Flights {
		if f.FlightNumber == number {
			return f, true
		}
	}
	return Flight{}, false
}
