package usecase

import (
	"reflect"
	"testing"

	"airtalk-service/internal/domain/entity"
)

func kbWithPrices(prices ...int) entity.KnowledgeBase {
	flights := make([]entity.Flight, len(prices))
	for i, p := range prices {
		f := testFlight()
		f.FlightNumber = entity.BaseFlightNumber + i
		f.Price = p
		flights[i] = f
	}
	return entity.KnowledgeBase{Flights: flights}
}

func TestSelectBestReturnsWholeTieSet(t *testing.T) {
	facts := entity.DefaultFactTable()
	kb := kbWithPrices(500, 500, 900)
	best := SelectBest(facts, entity.Condition{}, kb.Flights)
	if len(best) != 2 {
		t.Fatalf("tie set size = %d, want 2", len(best))
	}
	if best[0].FlightNumber != 1000 || best[1].FlightNumber != 1001 {
		t.Fatalf("tie set = %v", best)
	}
}

func TestSelectBestEmptyCandidateSet(t *testing.T) {
	facts := entity.DefaultFactTable()
	kb := kbWithPrices(500, 900)
	cond := entity.Condition{MaxPrice: intPtr(100)}
	if best := SelectBest(facts, cond, kb.Flights); best != nil {
		t.Fatalf("expected nil, got %v", best)
	}
}

func bookIntent() entity.Intent {
	return entity.Intent{
		DepartureAirport: "DTW",
		ReturnAirport:    "MSP",
		DepartureMonth:   "Aug",
		DepartureDay:     "14",
		ReturnMonth:      "Aug",
		ReturnDay:        "16",
		Name:             "Mary Johnson",
		MaxPrice:         1000,
		Goal:             entity.GoalBook,
	}
}

func TestResolveBookFindsCheapestTie(t *testing.T) {
	facts := entity.DefaultFactTable()
	kb := kbWithPrices(700, 400, 400)
	action := ResolveExpectedAction(facts, bookIntent(), kb)
	if action.Status != entity.StatusBook {
		t.Fatalf("status = %q", action.Status)
	}
	if !reflect.DeepEqual(action.Flights, []int{1001, 1002}) {
		t.Fatalf("flights = %v", action.Flights)
	}
	if action.Name != "Mary Johnson" {
		t.Fatalf("name = %q", action.Name)
	}
}

func TestResolveBookNoFlight(t *testing.T) {
	facts := entity.DefaultFactTable()
	intent := bookIntent()
	intent.MaxPrice = 100
	kb := kbWithPrices(400, 700)
	action := ResolveExpectedAction(facts, intent, kb)
	if action.Status != entity.StatusNoFlight {
		t.Fatalf("status = %q", action.Status)
	}
	if len(action.Flights) != 0 {
		t.Fatalf("flights = %v", action.Flights)
	}
}

func TestResolveChangeWithReservation(t *testing.T) {
	facts := entity.DefaultFactTable()
	intent := bookIntent()
	intent.Goal = entity.GoalChange
	kb := kbWithPrices(400)
	kb.Reservation = 1000
	action := ResolveExpectedAction(facts, intent, kb)
	if action.Status != entity.StatusChange {
		t.Fatalf("status = %q", action.Status)
	}
	if !reflect.DeepEqual(action.Flights, []int{1000}) {
		t.Fatalf("flights = %v", action.Flights)
	}
}

func TestResolveChangeWithoutReservation(t *testing.T) {
	facts := entity.DefaultFactTable()
	intent := bookIntent()
	intent.Goal = entity.GoalChange
	action := ResolveExpectedAction(facts, intent, kbWithPrices(400))
	if action.Status != entity.StatusNoReservation {
		t.Fatalf("status = %q", action.Status)
	}
}

func TestResolveCancel(t *testing.T) {
	facts := entity.DefaultFactTable()
	intent := bookIntent()
	intent.Goal = entity.GoalCancel

	action := ResolveExpectedAction(facts, intent, kbWithPrices(400))
	if action.Status != entity.StatusNoReservation {
		t.Fatalf("status without reservation = %q", action.Status)
	}

	kb := kbWithPrices(400)
	kb.Reservation = 1000
	action = ResolveExpectedAction(facts, intent, kb)
	if action.Status != entity.StatusCancel {
		t.Fatalf("status with reservation = %q", action.Status)
	}
	if len(action.Flights) != 0 {
		t.Fatalf("cancel carried flights: %v", action.Flights)
	}
}
