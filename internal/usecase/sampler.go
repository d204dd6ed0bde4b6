package usecase

import (
	"fmt"
	"math"
	"math/rand"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
	"airtalk-service/pkg/utils"
)

// Sampler draws customers, flights and knowledge bases from the fact table's
// priors. All randomness goes through the single injected rand source so a
// fixed seed reproduces a corpus exactly.
type Sampler struct {
	facts *entity.FactTable
	rng   *rand.Rand
	log   logger.Logger
}

// NewSampler creates a new sampler. The fact table is validated up front so
// an invalid prior stops the run before any sample is drawn.
func NewSampler(facts *entity.FactTable, rng *rand.Rand, log logger.Logger) (*Sampler, error) {
	if err := facts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fact table: %w", err)
	}
	return &Sampler{facts: facts, rng: rng, log: log}, nil
}

// SampleAirportPool draws n distinct airport codes.
func (s *Sampler) SampleAirportPool(n int) []string {
	codes := s.facts.AirportCodes
	if n > len(codes) {
		n = len(codes)
	}
	perm := s.rng.Perm(len(codes))
	pool := make([]string, n)
	for i := 0; i < n; i++ {
		pool[i] = codes[perm[i]]
	}
	return pool
}

// SampleFlight draws one flight anchored around the reference departure and
// return dates.
func (s *Sampler) SampleFlight(airports []string, flightNumber int, refDeparture, refReturn int64) entity.Flight {
	origin, dest := s.sampleRoute(airports)

	dev := float64(s.facts.TimeDeviation)
	d1 := int64(s.rng.NormFloat64()*dev + float64(refDeparture))
	d2 := int64(s.rng.NormFloat64()*dev + float64(refReturn))
	// the earlier draw becomes the departure
	if d2 < d1 {
		d1, d2 = d2, d1
	}

	class := s.facts.ClassMembers[s.weightedIndex(s.facts.ClassPrior)]
	connections := s.facts.ConnectionMembers[s.weightedIndex(s.facts.ConnectionPrior)]

	airlines := s.facts.AirlineCodes()
	airline := airlines[s.rng.Intn(len(airlines))]

	base := float64(s.facts.FlightPriceMean[class]) * s.facts.LowCostMeanFraction[class]
	price := utils.DiscretePrice(int(s.rng.NormFloat64()*base*s.facts.PriceNormStd[connections] + base))

	depMonth, depDay := utils.MonthDay(s.facts.Months, d1)
	retMonth, retDay := utils.MonthDay(s.facts.Months, d2)

	return entity.Flight{
		DepartureAirport: origin,
		ReturnAirport:    dest,
		DepartureMonth:   depMonth,
		ReturnMonth:      retMonth,
		DepartureDay:     depDay,
		ReturnDay:        retDay,
		DepartureTimeNum: utils.HourOf(d1),
		ReturnTimeNum:    utils.HourOf(d2),
		Class:            class,
		NumConnections:   connections,
		Price:            price,
		FlightNumber:     flightNumber,
		Airline:          airline,
	}
}

// BuildKnowledgeBase draws count flights with sequential flight numbers and
// marks one of them as an existing reservation with the configured
// probability.
func (s *Sampler) BuildKnowledgeBase(count int, airports []string, refDeparture, refReturn int64) entity.KnowledgeBase {
	flights := make([]entity.Flight, 0, count)
	for i := 0; i < count; i++ {
		flights = append(flights, s.SampleFlight(airports, entity.BaseFlightNumber+i, refDeparture, refReturn))
	}
	reservation := entity.NoReservation
	if s.rng.Float64() < s.facts.ReservationProb {
		reservation = flights[s.rng.Intn(len(flights))].FlightNumber
	}
	return entity.KnowledgeBase{Flights: flights, Reservation: reservation}
}

// SampleCustomer draws a customer intent. The return date is a fixed
// bookWindow days after the departure date, unlike flight dates which are
// noised independently.
func (s *Sampler) SampleCustomer(bookWindow int, airports []string) entity.Intent {
	origin, dest := s.sampleRoute(airports)

	base := s.facts.BaseDepartureEpoch
	departure := base + int64(s.rng.Intn(3600*24*365))
	ret := departure + int64(3600*24*bookWindow)

	name := s.facts.FirstNames[s.rng.Intn(len(s.facts.FirstNames))] +
		"_" + s.facts.LastNames[s.rng.Intn(len(s.facts.LastNames))]

	class := s.facts.ClassChoices[s.weightedIndex(s.facts.ClassChoicePrior)]
	maxPrice := s.samplePriceLimit(class)
	maxConnections := s.facts.ConnectionMembers[s.weightedIndex(s.facts.ConnectionPrior)]

	depMonth, depDay := utils.MonthDay(s.facts.Months, departure)
	retMonth, retDay := utils.MonthDay(s.facts.Months, ret)

	return entity.Intent{
		DepartureAirport:  origin,
		ReturnAirport:     dest,
		DepartureMonth:    depMonth,
		DepartureDay:      depDay,
		ReturnMonth:       retMonth,
		ReturnDay:         retDay,
		Name:              name,
		DepartureTime:     s.facts.TimeChoices[s.weightedIndex(s.facts.TimePrior)],
		ReturnTime:        s.facts.TimeChoices[s.weightedIndex(s.facts.TimePrior)],
		Class:             class,
		MaxPrice:          maxPrice,
		MaxConnections:    &maxConnections,
		AirlinePreference: s.facts.AirlinePreferences[s.weightedIndex(s.facts.AirlinePreferencePrior)],
		Goal:              entity.Goals[s.weightedIndex(s.facts.GoalPrior)],
		DepartureDate:     departure,
		ReturnDate:        ret,
	}
}

// sampleRoute picks origin and destination without replacement. A degenerate
// draw of the same index is repaired by advancing the destination one slot.
func (s *Sampler) sampleRoute(airports []string) (string, string) {
	origin := s.rng.Intn(len(airports))
	dest := s.rng.Intn(len(airports))
	if dest == origin {
		dest = (dest + 1) % len(airports)
	}
	return airports[origin], airports[dest]
}

// samplePriceLimit draws a price cap from the tier list. Economy never gets
// the top tier, business never the bottom one, so the cap is neither
// unreachable nor meaningless for the chosen class.
func (s *Sampler) samplePriceLimit(class string) int {
	tiers := s.facts.PriceLimits
	lo, hi := 0, len(tiers)
	switch class {
	case entity.ClassEconomy:
		hi--
	case entity.ClassBusiness:
		lo++
	}
	return tiers[lo+s.rng.Intn(hi-lo)]
}

// weightedIndex samples an index from a categorical prior. The prior has
// been validated at construction; a bad one here is a configuration bug.
func (s *Sampler) weightedIndex(prior []float64) int {
	sum := 0.0
	for _, w := range prior {
		sum += w
	}
	if math.Abs(sum-1) > 1e-3 {
		panic(fmt.Sprintf("sum of probability not equal to 1: %v", sum))
	}
	r := s.rng.Float64()
	acc := 0.0
	for i, w := range prior {
		acc += w
		if acc >= r {
			return i
		}
	}
	return len(prior) - 1
}
