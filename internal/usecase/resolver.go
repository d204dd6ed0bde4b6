package usecase

import (
	"sort"

	"airtalk-service/internal/domain/entity"
)

// SelectBest returns every satisfying flight tied at the minimum price, in
// knowledge-base order. All tied flights are equally correct answers, so the
// whole tie set is the ground truth. Nil when no flight satisfies the
// condition.
func SelectBest(facts *entity.FactTable, cond entity.Condition, flights []entity.Flight) []entity.Flight {
	var candidates []entity.Flight
	for _, f := range flights {
		if Satisfies(facts, f, cond) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Price < candidates[j].Price
	})
	best := candidates[0].Price
	tied := []entity.Flight{}
	for _, f := range candidates {
		if f.Price != best {
			break
		}
		tied = append(tied, f)
	}
	return tied
}

// ResolveExpectedAction derives the ground-truth action for an intent
// against a knowledge base:
//
//	book              -> book if a matching flight exists, else no_flight
//	change (has res)  -> change if a matching flight exists, else no_flight
//	change/cancel (no res) -> no_reservation
//	cancel (has res)  -> cancel
//
// The intent is expected to be standardized.
func ResolveExpectedAction(facts *entity.FactTable, intent entity.Intent, kb entity.KnowledgeBase) entity.Action {
	switch {
	case intent.Goal == entity.GoalBook || (intent.Goal == entity.GoalChange && kb.HasReservation()):
		flights := SelectBest(facts, intent.Condition(), kb.Flights)
		status := entity.Status(intent.Goal)
		if len(flights) == 0 {
			status = entity.StatusNoFlight
		}
		return entity.NewAction(flights, intent.Name, status)
	case !kb.HasReservation():
		return entity.NewAction(nil, intent.Name, entity.StatusNoReservation)
	default:
		return entity.NewAction(nil, intent.Name, entity.StatusCancel)
	}
}
