package usecase

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
)

func newTestGenerator(t *testing.T, seed int64) *ContextGenerator {
	t.Helper()
	g, err := NewContextGenerator(entity.DefaultFactTable(), rand.New(rand.NewSource(seed)), GeneratorOptions{
		NumAirports: 3,
		BookWindow:  2,
		NumRecords:  10,
	}, nil, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGenerateSampleConsistency(t *testing.T) {
	g := newTestGenerator(t, 1)
	for i := 0; i < 50; i++ {
		s := g.GenerateSample()
		if len(s.KB.Flights) != 10 {
			t.Fatalf("kb size = %d", len(s.KB.Flights))
		}
		if s.Intent.DepartureDate != 0 {
			t.Fatalf("intent not standardized")
		}
		if s.Customer.DepartureDate == 0 {
			t.Fatalf("raw customer lost its dates")
		}
		want := ResolveExpectedAction(g.Facts(), s.Intent, s.KB)
		if !reflect.DeepEqual(want, s.ExpectedAction) {
			t.Fatalf("expected action mismatch: %+v vs %+v", want, s.ExpectedAction)
		}
	}
}

func TestGenerateBatchDeterministicUnderSeed(t *testing.T) {
	ctx := context.Background()
	a, _, err := newTestGenerator(t, 42).GenerateBatch(ctx, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := newTestGenerator(t, 42).GenerateBatch(ctx, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("batches differ under the same seed")
	}
}

func TestGenerateBatchProportionsSumToOne(t *testing.T) {
	samples, proportions, err := newTestGenerator(t, 7).GenerateBatch(context.Background(), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 50 {
		t.Fatalf("sample count = %d", len(samples))
	}
	sum := 0.0
	for _, p := range proportions {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("proportions sum to %v", sum)
	}
}

func TestStreamStopsOnCanceledContext(t *testing.T) {
	g := newTestGenerator(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Stream(ctx, 10, func(int, Sample) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestStreamPropagatesCallbackError(t *testing.T) {
	g := newTestGenerator(t, 1)
	boom := errors.New("boom")
	calls := 0
	err := g.Stream(context.Background(), 10, func(i int, _ Sample) error {
		calls++
		if i == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Fatalf("callback ran %d times", calls)
	}
}

func TestUserActionPicksFromTieSet(t *testing.T) {
	g := newTestGenerator(t, 1)
	expected := entity.Action{Status: entity.StatusBook, Flights: []int{1000, 1004, 1008}, Name: "Mary Johnson"}
	for i := 0; i < 20; i++ {
		user := g.UserAction(expected)
		if len(user.Flights) != 1 {
			t.Fatalf("user action flights = %v", user.Flights)
		}
		found := false
		for _, num := range expected.Flights {
			if num == user.Flights[0] {
				found = true
			}
		}
		if !found {
			t.Fatalf("user flight %d outside the tie set", user.Flights[0])
		}
		if user.Status != expected.Status || user.Name != expected.Name {
			t.Fatalf("user action mutated: %+v", user)
		}
	}
}

func TestUserActionEmptySet(t *testing.T) {
	g := newTestGenerator(t, 1)
	expected := entity.Action{Status: entity.StatusNoFlight, Name: "Mary Johnson"}
	user := g.UserAction(expected)
	if len(user.Flights) != 0 {
		t.Fatalf("flights = %v", user.Flights)
	}
}
