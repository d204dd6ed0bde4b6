package usecase

import (
	"math/rand"
	"strings"
	"testing"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
)

func newTestSimulator(seed int64, opts SimulatorOptions) *DialogueSimulator {
	return NewDialogueSimulator(entity.DefaultFactTable(), rand.New(rand.NewSource(seed)), opts, logger.NewNop())
}

func matchingKB(intent entity.Intent, price int) entity.KnowledgeBase {
	f := testFlight()
	f.DepartureAirport = intent.DepartureAirport
	f.ReturnAirport = intent.ReturnAirport
	f.DepartureMonth = intent.DepartureMonth
	f.DepartureDay = intent.DepartureDay
	f.ReturnMonth = intent.ReturnMonth
	f.ReturnDay = intent.ReturnDay
	f.Price = price
	return entity.KnowledgeBase{Flights: []entity.Flight{f}}
}

func TestGenerateDialogueBooksMatchingFlight(t *testing.T) {
	intent := bookIntent()
	kb := matchingKB(intent, 400)
	sim := newTestSimulator(5, SimulatorOptions{})

	dialogue, action, raw := sim.GenerateDialogue(intent, kb)
	if action.Status != entity.StatusBook {
		t.Fatalf("status = %q", action.Status)
	}
	if raw != entity.StatusBook {
		t.Fatalf("raw status = %q", raw)
	}
	if len(action.Flights) != 1 || action.Flights[0] != 1000 {
		t.Fatalf("flights = %v", action.Flights)
	}
	if action.Name != intent.Name {
		t.Fatalf("name = %q", action.Name)
	}
	if len(dialogue) < 6 {
		t.Fatalf("dialogue too short: %v", dialogue)
	}
}

func TestGenerateDialogueTurnsCarrySpeakerPrefixes(t *testing.T) {
	intent := bookIntent()
	sim := newTestSimulator(9, SimulatorOptions{})
	dialogue, _, _ := sim.GenerateDialogue(intent, matchingKB(intent, 400))
	for _, turn := range dialogue {
		speaker, content := entity.SplitTurn(turn)
		if speaker != "customer" && speaker != "agent" {
			t.Fatalf("turn without speaker prefix: %q", turn)
		}
		if content == "" {
			t.Fatalf("empty utterance: %q", turn)
		}
	}
}

func TestChangeRequestCanNameRouteUpFront(t *testing.T) {
	intent := bookIntent()
	intent.Goal = entity.GoalChange
	kb := matchingKB(intent, 400)
	kb.Reservation = kb.Flights[0].FlightNumber
	sim := newTestSimulator(3, SimulatorOptions{FirstAskProb: 1, FixResponseCandidate: true})

	dialogue, action, _ := sim.GenerateDialogue(intent, kb)
	if action.Status != entity.StatusChange {
		t.Fatalf("status = %q", action.Status)
	}
	route := "from " + intent.DepartureAirport + " to " + intent.ReturnAirport
	opening := ""
	for _, turn := range dialogue {
		speaker, content := entity.SplitTurn(turn)
		if speaker == "customer" && strings.Contains(content, "change") {
			opening = content
			break
		}
	}
	if !strings.Contains(opening, route) {
		t.Fatalf("opening request %q does not name the route", opening)
	}
	for _, turn := range dialogue {
		for _, ask := range agentAskCities[entity.GoalChange] {
			if strings.Contains(turn, ask) {
				t.Fatalf("agent asked for the cities again: %q", turn)
			}
		}
	}
}

func TestGenerateDialogueNoFlight(t *testing.T) {
	intent := bookIntent()
	intent.MaxPrice = 100
	sim := newTestSimulator(5, SimulatorOptions{})
	_, action, raw := sim.GenerateDialogue(intent, matchingKB(intent, 400))
	if action.Status != entity.StatusNoFlight {
		t.Fatalf("status = %q", action.Status)
	}
	if raw != entity.StatusNoFlight {
		t.Fatalf("raw status = %q", raw)
	}
	if len(action.Flights) != 0 {
		t.Fatalf("flights = %v", action.Flights)
	}
}

func TestGenerateDialogueSecondaryErrorSuffix(t *testing.T) {
	intent := bookIntent()
	intent.MaxPrice = 100
	sim := newTestSimulator(5, SimulatorOptions{SecondaryError: true})
	_, action, raw := sim.GenerateDialogue(intent, matchingKB(intent, 400))
	if raw != "no_flight_max_price" {
		t.Fatalf("raw status = %q", raw)
	}
	// the persisted action stays canonical
	if action.Status != entity.StatusNoFlight {
		t.Fatalf("action status = %q", action.Status)
	}
}

func TestGenerateDialogueCancelPaths(t *testing.T) {
	intent := bookIntent()
	intent.Goal = entity.GoalCancel

	sim := newTestSimulator(5, SimulatorOptions{})
	_, action, _ := sim.GenerateDialogue(intent, matchingKB(intent, 400))
	if action.Status != entity.StatusNoReservation {
		t.Fatalf("status without reservation = %q", action.Status)
	}

	kb := matchingKB(intent, 400)
	kb.Reservation = 1000
	_, action, _ = sim.GenerateDialogue(intent, kb)
	if action.Status != entity.StatusCancel {
		t.Fatalf("status with reservation = %q", action.Status)
	}
}

func TestGenerateDialogueRegretAlwaysAborts(t *testing.T) {
	intent := bookIntent()
	sim := newTestSimulator(5, SimulatorOptions{RegretProb: 1})
	_, action, _ := sim.GenerateDialogue(intent, matchingKB(intent, 400))
	if action.Status != entity.StatusAbort {
		t.Fatalf("status = %q", action.Status)
	}
	if len(action.Flights) != 0 {
		t.Fatalf("aborted action carried flights: %v", action.Flights)
	}
}

func TestGenerateDialogueRevealsAtMostOneConstraintPerRound(t *testing.T) {
	intent := bookIntent()
	intent.Class = entity.ClassBusiness
	intent.DepartureTime = entity.TimeMorning
	two := 0
	intent.MaxConnections = &two

	match := testFlight()
	match.DepartureAirport = intent.DepartureAirport
	match.ReturnAirport = intent.ReturnAirport
	match.DepartureMonth = intent.DepartureMonth
	match.DepartureDay = intent.DepartureDay
	match.ReturnMonth = intent.ReturnMonth
	match.ReturnDay = intent.ReturnDay
	match.Class = entity.ClassBusiness
	match.DepartureTimeNum = 9
	match.NumConnections = 0
	match.Price = 900
	match.FlightNumber = 1001

	cheap := matchingKB(intent, 200).Flights[0]
	kb := entity.KnowledgeBase{Flights: []entity.Flight{cheap, match}}

	sim := newTestSimulator(5, SimulatorOptions{FixResponseCandidate: true})
	dialogue, action, _ := sim.GenerateDialogue(intent, kb)
	if action.Status != entity.StatusBook {
		t.Fatalf("status = %q, dialogue %v", action.Status, dialogue)
	}
	if len(action.Flights) != 1 || action.Flights[0] != 1001 {
		t.Fatalf("flights = %v", action.Flights)
	}

	// two unmet constraints on the cheap flight bound the loop: two
	// proposals plus the confirmation mention the flight number
	proposals := 0
	for _, turn := range dialogue {
		if strings.Contains(turn, "flight 10") {
			proposals++
		}
	}
	if proposals == 0 || proposals > 4 {
		t.Fatalf("proposal count = %d, dialogue %v", proposals, dialogue)
	}
}

func TestGenerateDialogueDeterministicUnderSeed(t *testing.T) {
	intent := bookIntent()
	kb := matchingKB(intent, 400)
	a, actA, _ := newTestSimulator(21, SimulatorOptions{}).GenerateDialogue(intent, kb)
	b, actB, _ := newTestSimulator(21, SimulatorOptions{}).GenerateDialogue(intent, kb)
	if len(a) != len(b) {
		t.Fatalf("dialogue lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("turn %d differs: %q vs %q", i, a[i], b[i])
		}
	}
	if actA.Status != actB.Status {
		t.Fatalf("statuses differ")
	}
}
