package entity

import (
	"reflect"
	"testing"
)

func TestStatusCanonical(t *testing.T) {
	if got := StatusNoFlight.WithReason(KeyMaxPrice); got != "no_flight_max_price" {
		t.Fatalf("WithReason = %q", got)
	}
	if got := Status("no_flight_max_price").Canonical(); got != StatusNoFlight {
		t.Fatalf("Canonical = %q", got)
	}
	if got := StatusBook.Canonical(); got != StatusBook {
		t.Fatalf("Canonical changed a clean status: %q", got)
	}
}

func TestStatusBookable(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusBook:          true,
		StatusChange:        true,
		StatusCancel:        false,
		StatusNoFlight:      false,
		StatusNoReservation: false,
		StatusAbort:         false,
	} {
		if got := status.Bookable(); got != want {
			t.Errorf("%s.Bookable() = %v, want %v", status, got, want)
		}
	}
}

func TestActionStandardizeName(t *testing.T) {
	a := Action{Status: StatusCancel, Name: "  Mary O'Brien-42 "}
	got := a.Standardize()
	if got.Name != "Mary OBrien" {
		t.Fatalf("standardized name = %q", got.Name)
	}
}

func TestActionStandardizeDropsFlightsForNonBookable(t *testing.T) {
	a := Action{Status: Status("no_flight_class"), Flights: []int{1003}, Name: "John Smith"}
	got := a.Standardize()
	if got.Status != StatusNoFlight {
		t.Fatalf("status = %q", got.Status)
	}
	if len(got.Flights) != 0 {
		t.Fatalf("flights survived a no_flight action: %v", got.Flights)
	}
}

func TestActionStandardizeFiltersInvalidFlightNumbers(t *testing.T) {
	a := Action{Status: StatusBook, Flights: []int{3, 1000, 999, 1029}, Name: "John Smith"}
	got := a.Standardize()
	if !reflect.DeepEqual(got.Flights, []int{1000, 1029}) {
		t.Fatalf("flights = %v", got.Flights)
	}
}

func TestActionStandardizeIdempotent(t *testing.T) {
	a := Action{Status: Status("no_flight_airline_preference"), Flights: []int{12, 1001}, Name: "A. B!"}
	once := a.Standardize()
	if twice := once.Standardize(); !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %+v then %+v", once, twice)
	}
}

func TestNewActionCollectsFlightNumbers(t *testing.T) {
	flights := []Flight{{FlightNumber: 1000}, {FlightNumber: 1007}}
	got := NewAction(flights, "John Smith", StatusBook)
	if !reflect.DeepEqual(got.Flights, []int{1000, 1007}) {
		t.Fatalf("flights = %v", got.Flights)
	}
}
