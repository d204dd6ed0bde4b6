package usecase

import (
	"reflect"
	"testing"

	"airtalk-service/internal/domain/entity"
)

func testFlight() entity.Flight {
	return entity.Flight{
		DepartureAirport: "DTW",
		ReturnAirport:    "MSP",
		DepartureMonth:   "Aug",
		ReturnMonth:      "Aug",
		DepartureDay:     "14",
		ReturnDay:        "16",
		DepartureTimeNum: 9,
		ReturnTimeNum:    21,
		Class:            entity.ClassEconomy,
		NumConnections:   1,
		Price:            400,
		FlightNumber:     1000,
		Airline:          "Spirit",
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCheckConditionEmptyConditionMatchesEverything(t *testing.T) {
	facts := entity.DefaultFactTable()
	if diff := CheckCondition(facts, testFlight(), entity.Condition{}, true); diff != nil {
		t.Fatalf("empty condition produced diff %v", diff)
	}
}

func TestCheckConditionTimeUsesDaySegment(t *testing.T) {
	facts := entity.DefaultFactTable()
	cond := entity.Condition{
		DepartureTime: strPtr(entity.TimeMorning),
		ReturnTime:    strPtr(entity.TimeEvening),
	}
	if !Satisfies(facts, testFlight(), cond) {
		t.Fatalf("9h departure and 21h return should satisfy morning/evening")
	}
	cond.ReturnTime = strPtr(entity.TimeMorning)
	diff := CheckCondition(facts, testFlight(), cond, true)
	if !reflect.DeepEqual(diff, []entity.ConditionKey{entity.KeyReturnTime}) {
		t.Fatalf("diff = %v", diff)
	}
}

func TestCheckConditionCapsAreUpperBounds(t *testing.T) {
	facts := entity.DefaultFactTable()
	cond := entity.Condition{MaxPrice: intPtr(400), MaxConnections: intPtr(1)}
	if !Satisfies(facts, testFlight(), cond) {
		t.Fatalf("equal price and connections must satisfy the caps")
	}
	cond = entity.Condition{MaxPrice: intPtr(399)}
	if Satisfies(facts, testFlight(), cond) {
		t.Fatalf("price above cap slipped through")
	}
	cond = entity.Condition{MaxConnections: intPtr(0)}
	if Satisfies(facts, testFlight(), cond) {
		t.Fatalf("connections above cap slipped through")
	}
}

func TestCheckConditionAirlinePreferenceComparesCostClass(t *testing.T) {
	facts := entity.DefaultFactTable()
	cond := entity.Condition{AirlinePreference: strPtr(entity.CostNormal)}
	if Satisfies(facts, testFlight(), cond) {
		t.Fatalf("Spirit is low-cost and must fail a normal-cost preference")
	}
	f := testFlight()
	f.Airline = "Delta"
	if !Satisfies(facts, f, cond) {
		t.Fatalf("Delta is normal-cost and must satisfy the preference")
	}
}

func TestCheckConditionFullDiffOrder(t *testing.T) {
	facts := entity.DefaultFactTable()
	cond := entity.Condition{
		DepartureAirport: strPtr("JFK"),
		Class:            strPtr(entity.ClassBusiness),
		MaxPrice:         intPtr(100),
	}
	diff := CheckCondition(facts, testFlight(), cond, true)
	want := []entity.ConditionKey{entity.KeyDepartureAirport, entity.KeyClass, entity.KeyMaxPrice}
	if !reflect.DeepEqual(diff, want) {
		t.Fatalf("diff = %v, want %v", diff, want)
	}
}

func TestCheckConditionShortCircuit(t *testing.T) {
	facts := entity.DefaultFactTable()
	cond := entity.Condition{
		DepartureAirport: strPtr("JFK"),
		MaxPrice:         intPtr(100),
	}
	diff := CheckCondition(facts, testFlight(), cond, false)
	if len(diff) != 1 || diff[0] != entity.KeyDepartureAirport {
		t.Fatalf("diff = %v", diff)
	}
}
