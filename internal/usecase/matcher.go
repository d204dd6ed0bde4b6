package usecase

import (
	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/utils"
)

// CheckCondition computes the condition keys a flight fails to satisfy.
// A nil result means the flight satisfies every constrained attribute.
// With fullDiff false the check stops at the first mismatch (cheap
// rejection for selection); with fullDiff true every mismatching key is
// returned, in a fixed attribute order.
func CheckCondition(facts *entity.FactTable, flight entity.Flight, cond entity.Condition, fullDiff bool) []entity.ConditionKey {
	var diff []entity.ConditionKey
	add := func(key entity.ConditionKey) bool {
		diff = append(diff, key)
		return !fullDiff
	}

	if cond.DepartureAirport != nil && flight.DepartureAirport != *cond.DepartureAirport {
		if add(entity.KeyDepartureAirport) {
			return diff
		}
	}
	if cond.ReturnAirport != nil && flight.ReturnAirport != *cond.ReturnAirport {
		if add(entity.KeyReturnAirport) {
			return diff
		}
	}
	if cond.DepartureMonth != nil && flight.DepartureMonth != *cond.DepartureMonth {
		if add(entity.KeyDepartureMonth) {
			return diff
		}
	}
	if cond.DepartureDay != nil && flight.DepartureDay != *cond.DepartureDay {
		if add(entity.KeyDepartureDay) {
			return diff
		}
	}
	if cond.ReturnMonth != nil && flight.ReturnMonth != *cond.ReturnMonth {
		if add(entity.KeyReturnMonth) {
			return diff
		}
	}
	if cond.ReturnDay != nil && flight.ReturnDay != *cond.ReturnDay {
		if add(entity.KeyReturnDay) {
			return diff
		}
	}
	if cond.DepartureTime != nil && utils.DaySegment(flight.DepartureTimeNum) != *cond.DepartureTime {
		if add(entity.KeyDepartureTime) {
			return diff
		}
	}
	if cond.ReturnTime != nil && utils.DaySegment(flight.ReturnTimeNum) != *cond.ReturnTime {
		if add(entity.KeyReturnTime) {
			return diff
		}
	}
	if cond.Class != nil && flight.Class != *cond.Class {
		if add(entity.KeyClass) {
			return diff
		}
	}
	if cond.MaxPrice != nil && flight.Price > *cond.MaxPrice {
		if add(entity.KeyMaxPrice) {
			return diff
		}
	}
	if cond.MaxConnections != nil && flight.NumConnections > *cond.MaxConnections {
		if add(entity.KeyMaxConnections) {
			return diff
		}
	}
	if cond.AirlinePreference != nil && facts.CostClass(flight.Airline) != *cond.AirlinePreference {
		if add(entity.KeyAirlinePreference) {
			return diff
		}
	}
	return diff
}

// Satisfies reports whether a flight meets every constrained attribute.
func Satisfies(facts *entity.FactTable, flight entity.Flight, cond entity.Condition) bool {
	return len(CheckCondition(facts, flight, cond, false)) == 0
}
