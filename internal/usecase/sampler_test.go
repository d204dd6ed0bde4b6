package usecase

import (
	"math/rand"
	"reflect"
	"testing"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
)

func newTestSampler(t *testing.T, seed int64) *Sampler {
	t.Helper()
	s, err := NewSampler(entity.DefaultFactTable(), rand.New(rand.NewSource(seed)), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSamplerRejectsInvalidFacts(t *testing.T) {
	facts := entity.DefaultFactTable()
	facts.GoalPrior = []float64{1, 1, 1}
	if _, err := NewSampler(facts, rand.New(rand.NewSource(1)), logger.NewNop()); err == nil {
		t.Fatal("expected an error for an invalid prior")
	}
}

func TestSampleAirportPoolDistinct(t *testing.T) {
	s := newTestSampler(t, 1)
	pool := s.SampleAirportPool(5)
	if len(pool) != 5 {
		t.Fatalf("pool size = %d", len(pool))
	}
	seen := map[string]bool{}
	for _, code := range pool {
		if seen[code] {
			t.Fatalf("duplicate airport %q in pool %v", code, pool)
		}
		seen[code] = true
	}
}

func TestSamplingDeterministicUnderSeed(t *testing.T) {
	a := newTestSampler(t, 42)
	b := newTestSampler(t, 42)
	poolA := a.SampleAirportPool(3)
	poolB := b.SampleAirportPool(3)
	if !reflect.DeepEqual(poolA, poolB) {
		t.Fatalf("pools differ: %v vs %v", poolA, poolB)
	}
	kbA := a.BuildKnowledgeBase(10, poolA, 1310000000, 1310172800)
	kbB := b.BuildKnowledgeBase(10, poolB, 1310000000, 1310172800)
	if !reflect.DeepEqual(kbA, kbB) {
		t.Fatal("knowledge bases differ under the same seed")
	}
}

func TestBuildKnowledgeBaseSequentialNumbers(t *testing.T) {
	s := newTestSampler(t, 7)
	pool := s.SampleAirportPool(3)
	kb := s.BuildKnowledgeBase(30, pool, 1310000000, 1310172800)
	if len(kb.Flights) != 30 {
		t.Fatalf("flight count = %d", len(kb.Flights))
	}
	for i, f := range kb.Flights {
		if f.FlightNumber != entity.BaseFlightNumber+i {
			t.Fatalf("flight %d has number %d", i, f.FlightNumber)
		}
	}
}

func TestSampleFlightInvariants(t *testing.T) {
	s := newTestSampler(t, 3)
	pool := s.SampleAirportPool(4)
	for i := 0; i < 200; i++ {
		f := s.SampleFlight(pool, entity.BaseFlightNumber, 1310000000, 1310172800)
		if f.DepartureAirport == f.ReturnAirport {
			t.Fatalf("degenerate route %s -> %s", f.DepartureAirport, f.ReturnAirport)
		}
		if f.Price < 100 || f.Price%100 != 0 {
			t.Fatalf("price %d not a discrete tier", f.Price)
		}
		if f.DepartureTimeNum < 0 || f.DepartureTimeNum > 23 {
			t.Fatalf("hour out of range: %d", f.DepartureTimeNum)
		}
		if f.Class != entity.ClassEconomy && f.Class != entity.ClassBusiness {
			t.Fatalf("unknown class %q", f.Class)
		}
	}
}

func TestSampleFlightPriceMean(t *testing.T) {
	s := newTestSampler(t, 13)
	facts := entity.DefaultFactTable()
	pool := s.SampleAirportPool(4)

	sums := map[string]float64{}
	counts := map[string]float64{}
	for i := 0; i < 20000; i++ {
		f := s.SampleFlight(pool, entity.BaseFlightNumber, 1310000000, 1310172800)
		if f.Class != entity.ClassEconomy {
			continue
		}
		cost := facts.CostClass(f.Airline)
		sums[cost] += float64(f.Price)
		counts[cost]++
	}

	// The economy base is 300 * 0.7 = 210 for every airline; tier flooring
	// pulls the discretized mean down to roughly 170.
	for _, cost := range []string{entity.CostNormal, entity.CostLow} {
		if counts[cost] == 0 {
			t.Fatalf("no economy flights on %s airlines", cost)
		}
		mean := sums[cost] / counts[cost]
		if mean < 145 || mean > 200 {
			t.Fatalf("%s economy mean price = %.1f, want about 170", cost, mean)
		}
	}
	normal := sums[entity.CostNormal] / counts[entity.CostNormal]
	low := sums[entity.CostLow] / counts[entity.CostLow]
	if diff := normal - low; diff < -15 || diff > 15 {
		t.Fatalf("price means diverge across airline cost classes: %.1f vs %.1f", normal, low)
	}
}

func TestSampleCustomerInvariants(t *testing.T) {
	s := newTestSampler(t, 11)
	pool := s.SampleAirportPool(3)
	for i := 0; i < 200; i++ {
		c := s.SampleCustomer(2, pool)
		if c.DepartureAirport == c.ReturnAirport {
			t.Fatalf("degenerate route")
		}
		if c.ReturnDate != c.DepartureDate+2*24*3600 {
			t.Fatalf("return not bookWindow days after departure")
		}
		switch c.Class {
		case entity.ClassEconomy:
			if c.MaxPrice == 5000 {
				t.Fatalf("economy drew the top price tier")
			}
		case entity.ClassBusiness:
			if c.MaxPrice == 200 {
				t.Fatalf("business drew the bottom price tier")
			}
		case entity.ClassAll:
		default:
			t.Fatalf("unknown class choice %q", c.Class)
		}
		if c.MaxConnections == nil {
			t.Fatalf("raw intent must carry a connection cap")
		}
	}
}

func TestWeightedIndexPanicsOnBadPrior(t *testing.T) {
	s := newTestSampler(t, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a prior not summing to 1")
		}
	}()
	s.weightedIndex([]float64{0.2, 0.2})
}
