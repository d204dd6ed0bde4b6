package usecase

import (
	"math"
	"strings"

	"airtalk-service/internal/domain/entity"
)

// Reward component weights.
const (
	nameWeight   = 0.2
	flightWeight = 0.5
	statusWeight = 0.3
)

// Reward is the decomposed score of one predicted action against the
// expected one.
type Reward struct {
	Reward      float64 `json:"reward"`
	NameScore   float64 `json:"name_score"`
	FlightScore float64 `json:"flight_score"`
	StatusScore float64 `json:"status_score"`
}

// RewardScorer scores predicted actions against rule-derived expected actions.
type RewardScorer struct {
	facts *entity.FactTable
}

// NewRewardScorer creates a scorer over the given fact table.
func NewRewardScorer(facts *entity.FactTable) *RewardScorer {
	return &RewardScorer{facts: facts}
}

// ComputeReward blends the name, flight and status components into the final
// score. A dialogue marked correct upstream scores a full reward without
// re-deriving the components.
func (s *RewardScorer) ComputeReward(predicted, expected entity.Action, kb entity.KnowledgeBase) Reward {
	r := Reward{
		NameScore:   NameF1(predicted.Name, expected.Name),
		FlightScore: s.FlightScore(predicted.Flights, expected.Flights, kb),
	}
	if predicted.Status.Canonical() == expected.Status.Canonical() {
		r.StatusScore = 1
	}
	r.Reward = nameWeight*r.NameScore + flightWeight*r.FlightScore + statusWeight*r.StatusScore
	return r
}

// PerfectReward is the score of a sample already verified correct.
func PerfectReward() Reward {
	return Reward{Reward: 1, NameScore: 1, FlightScore: 1, StatusScore: 1}
}

// FlightScore measures how close the predicted flight commitment is to the
// expected tied set, on [0, 1].
//
// With an empty expected set the score is binary on the prediction also being
// empty. Otherwise a predicted flight inside the expected set scores 1, a
// missing or unknown prediction scores 0, and anything else scores by distance
// to the nearest expected flight, scaled by the largest pairwise distance
// the knowledge base admits.
func (s *RewardScorer) FlightScore(predicted, expected []int, kb entity.KnowledgeBase) float64 {
	if len(expected) == 0 {
		if len(predicted) == 0 {
			return 1
		}
		return 0
	}
	if len(predicted) == 0 {
		return 0
	}
	pred, ok := kb.FindFlight(predicted[0])
	if !ok {
		return 0
	}
	for _, num := range expected {
		if num == pred.FlightNumber {
			return 1
		}
	}

	maxDist := 0.0
	for _, num := range expected {
		target, ok := kb.FindFlight(num)
		if !ok {
			continue
		}
		for _, f := range kb.Flights {
			if f.FlightNumber == target.FlightNumber {
				continue
			}
			if d := s.FlightDistance(f, target); d > maxDist {
				maxDist = d
			}
		}
	}
	if maxDist == 0 {
		return 1
	}

	minDist := math.Inf(1)
	for _, num := range expected {
		target, ok := kb.FindFlight(num)
		if !ok {
			continue
		}
		if d := s.FlightDistance(pred, target); d < minDist {
			minDist = d
		}
	}
	return 1 - math.Min(1, minDist/maxDist)
}

// FlightDistance is the mean of twelve per-attribute distances between two
// flights, each on [0, 1]. Categorical attributes score 0 or 1, ordinal ones
// score a normalized absolute difference.
func (s *RewardScorer) FlightDistance(a, b entity.Flight) float64 {
	sum := categorical(a.DepartureAirport, b.DepartureAirport)
	sum += categorical(a.ReturnAirport, b.ReturnAirport)
	sum += math.Abs(float64(s.facts.MonthIndex(a.DepartureMonth)-s.facts.MonthIndex(b.DepartureMonth))) / 12
	sum += math.Abs(float64(s.facts.MonthIndex(a.ReturnMonth)-s.facts.MonthIndex(b.ReturnMonth))) / 12
	sum += math.Abs(float64(dayNum(a.DepartureDay)-dayNum(b.DepartureDay))) / 31
	sum += math.Abs(float64(dayNum(a.ReturnDay)-dayNum(b.ReturnDay))) / 31
	sum += math.Abs(float64(a.DepartureTimeNum-b.DepartureTimeNum)) / 24
	sum += math.Abs(float64(a.ReturnTimeNum-b.ReturnTimeNum)) / 24
	sum += categorical(a.Class, b.Class)
	sum += priceDistance(a.Price, b.Price)
	sum += math.Abs(float64(a.NumConnections-b.NumConnections)) / 2
	sum += categorical(s.facts.CostClass(a.Airline), s.facts.CostClass(b.Airline))
	return sum / 12
}

// NameF1 is the token-overlap F1 between two customer names, ignoring case
// and punctuation. Two empty names match perfectly, one empty name scores 0.
func NameF1(predicted, expected string) float64 {
	p := nameTokens(predicted)
	e := nameTokens(expected)
	if len(p) == 0 && len(e) == 0 {
		return 1
	}
	if len(p) == 0 || len(e) == 0 {
		return 0
	}
	counts := map[string]int{}
	for _, tok := range e {
		counts[tok]++
	}
	overlap := 0
	for _, tok := range p {
		if counts[tok] > 0 {
			counts[tok]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	precision := float64(overlap) / float64(len(p))
	recall := float64(overlap) / float64(len(e))
	return 2 * precision * recall / (precision + recall)
}

func nameTokens(name string) []string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, name)
	return strings.Fields(clean)
}

func categorical(a, b string) float64 {
	if a == b {
		return 0
	}
	return 1
}

func priceDistance(a, b int) float64 {
	if a == b {
		return 0
	}
	max := float64(a)
	if float64(b) > max {
		max = float64(b)
	}
	if max <= 0 {
		return 1
	}
	return math.Min(1, math.Abs(float64(a-b))/max)
}

func dayNum(day string) int {
	n := 0
	for _, r := range day {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
