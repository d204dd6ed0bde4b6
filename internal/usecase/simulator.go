package usecase

import (
	"fmt"
	"math/rand"
	"strconv"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
	"airtalk-service/pkg/utils"
)

// SimulatorOptions are the behavioral knobs of the dialogue state machine.
type SimulatorOptions struct {
	// SkipGreeting is the probability the customer skips the greeting
	// exchange when speaking first. An agent-first dialogue always greets.
	SkipGreeting float64
	// FixResponseCandidate pins every template choice to the first
	// candidate instead of drawing uniformly.
	FixResponseCandidate bool
	// FirstAskProb is the probability the opening request already names the
	// departure and return city, skipping the agent's city questions.
	FirstAskProb float64
	// RegretProb is the probability the customer aborts at the final
	// booking or change confirmation.
	RegretProb float64
	// CancelRegretProb is the abort probability at the cancel
	// confirmation. Kept separate from RegretProb; zero reproduces the
	// historical behavior where cancellations are never second-guessed.
	CancelRegretProb float64
	// RandomRespondError makes the customer reveal a uniformly chosen
	// unmet constraint instead of the first one.
	RandomRespondError bool
	// SecondaryError suffixes a failed negotiation's status with the
	// unmet attribute, e.g. no_flight_max_price. Standardization collapses
	// the suffix, so persisted actions stay canonical either way.
	SecondaryError bool
}

// DialogueSimulator turns an intent, a knowledge base and the derivable
// expected outcome into a scripted turn sequence. It is a state machine over
// templates, not free-text generation.
type DialogueSimulator struct {
	facts *entity.FactTable
	rng   *rand.Rand
	opts  SimulatorOptions
	log   logger.Logger
}

// NewDialogueSimulator creates a new dialogue simulator.
func NewDialogueSimulator(facts *entity.FactTable, rng *rand.Rand, opts SimulatorOptions, log logger.Logger) *DialogueSimulator {
	return &DialogueSimulator{facts: facts, rng: rng, opts: opts, log: log}
}

// GenerateDialogue runs one conversation for a standardized intent and its
// knowledge base. It returns the utterance list, the standardized final
// action (at most one committed flight) and the raw status, which may carry
// a no_flight reason suffix when SecondaryError is set.
func (d *DialogueSimulator) GenerateDialogue(intent entity.Intent, kb entity.KnowledgeBase) (entity.Dialogue, entity.Action, entity.Status) {
	var utt entity.Dialogue
	customerFirst := d.rng.Float64() < 0.5

	utt = d.greet(utt, customerFirst)
	if !customerFirst {
		utt = append(utt, entity.AgentTurn(d.template(agentAsk)))
	}

	agentCond := entity.Condition{}
	utt = d.request(intent, &agentCond, utt)

	utt = append(utt, entity.AgentTurn(d.template(agentAskName)))
	utt = append(utt, entity.CustomerTurn(fmt.Sprintf(d.template(customerName), intent.Name)))

	var status entity.Status
	var committed *entity.Flight
	switch {
	case intent.Goal == entity.GoalBook || (intent.Goal == entity.GoalChange && kb.HasReservation()):
		utt, status, committed = d.negotiate(intent, &agentCond, kb, utt)
	case !kb.HasReservation():
		utt = append(utt, entity.AgentTurn(d.template(agentConclusion[entity.StatusNoReservation])))
		status = entity.StatusNoReservation
	default:
		utt, status = d.cancel(utt)
	}

	var flights []entity.Flight
	if committed != nil {
		flights = append(flights, *committed)
	}
	action := entity.NewAction(flights, intent.Name, status)
	return utt, action, status
}

func (d *DialogueSimulator) template(candidates []string) string {
	if d.opts.FixResponseCandidate {
		return candidates[0]
	}
	return candidates[d.rng.Intn(len(candidates))]
}

func (d *DialogueSimulator) greet(utt entity.Dialogue, customerFirst bool) entity.Dialogue {
	if customerFirst && d.rng.Float64() < d.opts.SkipGreeting {
		return utt
	}
	pair := greetingPairs[0]
	if !d.opts.FixResponseCandidate {
		pair = greetingPairs[d.rng.Intn(len(greetingPairs))]
	}
	if customerFirst {
		utt = append(utt, entity.CustomerTurn(pair[0]), entity.AgentTurn(pair[1]))
	} else {
		utt = append(utt, entity.AgentTurn(pair[0]), entity.CustomerTurn(pair[1]))
	}
	return utt
}

// request emits the customer's opening statement of the goal. With
// FirstAskProb the request already names the route, which the negotiation
// fast-path picks up from the agent condition.
func (d *DialogueSimulator) request(intent entity.Intent, agentCond *entity.Condition, utt entity.Dialogue) entity.Dialogue {
	inline := ""
	if intent.Goal != entity.GoalCancel && d.rng.Float64() < d.opts.FirstAskProb {
		inline = fmt.Sprintf(" from %s to %s", intent.DepartureAirport, intent.ReturnAirport)
		agentCond.DepartureAirport = &intent.DepartureAirport
		agentCond.ReturnAirport = &intent.ReturnAirport
	}
	tmpl := d.template(customerRequest[intent.Goal])
	line := tmpl
	if intent.Goal != entity.GoalCancel {
		line = fmt.Sprintf(tmpl, inline)
	}
	return append(utt, entity.CustomerTurn(line))
}

// fulfillBasics asks for route and dates unless the fast-path already
// revealed them.
func (d *DialogueSimulator) fulfillBasics(intent entity.Intent, agentCond *entity.Condition, utt entity.Dialogue) entity.Dialogue {
	if !agentCond.HasRoute() {
		utt = append(utt, entity.AgentTurn(d.template(agentAskCities[intent.Goal])))
		utt = append(utt, entity.CustomerTurn(fmt.Sprintf(d.template(customerCities), intent.DepartureAirport, intent.ReturnAirport)))
		agentCond.DepartureAirport = &intent.DepartureAirport
		agentCond.ReturnAirport = &intent.ReturnAirport
	}
	if !agentCond.HasDates() {
		utt = append(utt, entity.AgentTurn(d.template(agentAskDates)))
		dep := intent.DepartureMonth + " " + intent.DepartureDay
		ret := intent.ReturnMonth + " " + intent.ReturnDay
		utt = append(utt, entity.CustomerTurn(fmt.Sprintf(d.template(customerDates), dep, ret)))
		agentCond.DepartureMonth = &intent.DepartureMonth
		agentCond.DepartureDay = &intent.DepartureDay
		agentCond.ReturnMonth = &intent.ReturnMonth
		agentCond.ReturnDay = &intent.ReturnDay
	}
	return utt
}

// negotiate is the proposal loop. Each round selects the cheapest flight
// matching the agent's currently known condition; the customer's answer
// reveals exactly one new constraint, so the loop is bounded by the number
// of initially unmet attributes.
func (d *DialogueSimulator) negotiate(intent entity.Intent, agentCond *entity.Condition, kb entity.KnowledgeBase, utt entity.Dialogue) (entity.Dialogue, entity.Status, *entity.Flight) {
	utt = d.fulfillBasics(intent, agentCond, utt)
	customerCond := intent.Condition()

	reason := entity.ConditionKey("basic")
	first := true
	var flight entity.Flight
	for {
		best := SelectBest(d.facts, *agentCond, kb.Flights)
		if len(best) == 0 {
			utt = append(utt, entity.AgentTurn(d.template(agentConclusion[entity.StatusNoFlight])))
			status := entity.StatusNoFlight
			if d.opts.SecondaryError {
				status = status.WithReason(reason)
			}
			return utt, status, nil
		}
		flight = best[0]
		utt = append(utt, entity.AgentTurn(d.propose(flight, first)))
		first = false

		diff := CheckCondition(d.facts, flight, customerCond, true)
		if len(diff) == 0 {
			utt = append(utt, entity.CustomerTurn(d.template(customerSatisfied)))
			break
		}
		key := diff[0]
		if d.opts.RandomRespondError {
			key = diff[d.rng.Intn(len(diff))]
		}
		reason = key
		utt = append(utt, entity.CustomerTurn(d.reveal(key, customerCond)))
		mergeCondition(agentCond, customerCond, key)
	}

	status := entity.Status(intent.Goal)
	utt = append(utt, entity.AgentTurn(fmt.Sprintf(d.template(agentConfirm[status]), flight.FlightNumber)))
	if d.rng.Float64() < d.opts.RegretProb {
		status = entity.StatusAbort
	}
	utt = append(utt, entity.CustomerTurn(d.template(customerConfirm[status])))
	utt = append(utt, entity.AgentTurn(d.template(agentConclusion[status])))
	if status == entity.StatusAbort {
		return utt, status, nil
	}
	return utt, status, &flight
}

func (d *DialogueSimulator) cancel(utt entity.Dialogue) (entity.Dialogue, entity.Status) {
	status := entity.StatusCancel
	utt = append(utt, entity.AgentTurn(d.template(agentConfirm[entity.StatusCancel])))
	if d.rng.Float64() < d.opts.CancelRegretProb {
		status = entity.StatusAbort
	}
	utt = append(utt, entity.CustomerTurn(d.template(customerConfirm[status])))
	utt = append(utt, entity.AgentTurn(d.template(agentConclusion[status])))
	return utt, status
}

// propose renders a flight offer. The first proposal spells out route and
// dates; later ones omit them since they are already confirmed.
func (d *DialogueSimulator) propose(f entity.Flight, full bool) string {
	if full {
		return fmt.Sprintf(d.template(agentSuggestionFull),
			f.FlightNumber,
			f.DepartureAirport, f.DepartureMonth+" "+f.DepartureDay, utils.FormatHour(f.DepartureTimeNum),
			f.ReturnAirport, f.ReturnMonth+" "+f.ReturnDay, utils.FormatHour(f.ReturnTimeNum),
			f.Class, utils.ConnectionPhrase(f.NumConnections), f.Price)
	}
	return fmt.Sprintf(d.template(agentSuggestionShort),
		f.FlightNumber,
		utils.FormatHour(f.DepartureTimeNum), utils.FormatHour(f.ReturnTimeNum),
		f.Class, utils.ConnectionPhrase(f.NumConnections), f.Price)
}

// reveal renders the customer's answer for one unmet constraint.
func (d *DialogueSimulator) reveal(key entity.ConditionKey, cond entity.Condition) string {
	tmpl := d.template(customerReveal[key])
	switch key {
	case entity.KeyDepartureTime:
		return fmt.Sprintf(tmpl, *cond.DepartureTime)
	case entity.KeyReturnTime:
		return fmt.Sprintf(tmpl, *cond.ReturnTime)
	case entity.KeyClass:
		return fmt.Sprintf(tmpl, *cond.Class)
	case entity.KeyMaxConnections:
		return fmt.Sprintf(tmpl, strconv.Itoa(*cond.MaxConnections))
	case entity.KeyMaxPrice:
		return fmt.Sprintf(tmpl, strconv.Itoa(*cond.MaxPrice))
	default: // airline preference carries no slot
		return tmpl
	}
}

// mergeCondition copies one constraint from the customer's condition into
// the agent's known condition.
func mergeCondition(agent *entity.Condition, customer entity.Condition, key entity.ConditionKey) {
	switch key {
	case entity.KeyDepartureAirport:
		agent.DepartureAirport = customer.DepartureAirport
	case entity.KeyReturnAirport:
		agent.ReturnAirport = customer.ReturnAirport
	case entity.KeyDepartureMonth:
		agent.DepartureMonth = customer.DepartureMonth
	case entity.KeyDepartureDay:
		agent.DepartureDay = customer.DepartureDay
	case entity.KeyReturnMonth:
		agent.ReturnMonth = customer.ReturnMonth
	case entity.KeyReturnDay:
		agent.ReturnDay = customer.ReturnDay
	case entity.KeyDepartureTime:
		agent.DepartureTime = customer.DepartureTime
	case entity.KeyReturnTime:
		agent.ReturnTime = customer.ReturnTime
	case entity.KeyClass:
		agent.Class = customer.Class
	case entity.KeyMaxPrice:
		agent.MaxPrice = customer.MaxPrice
	case entity.KeyMaxConnections:
		agent.MaxConnections = customer.MaxConnections
	case entity.KeyAirlinePreference:
		agent.AirlinePreference = customer.AirlinePreference
	}
}
