package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/pkg/logger"
	"airtalk-service/pkg/metrics"
)

// GeneratorOptions configure corpus generation.
type GeneratorOptions struct {
	// NumAirports is the size of the per-sample airport candidate pool.
	NumAirports int
	// BookWindow is the number of days between the customer's departure
	// and return dates.
	BookWindow int
	// NumRecords is the number of flights per knowledge base.
	NumRecords int
	// DisplayFreq logs progress every N samples; 0 disables it.
	DisplayFreq int
}

// Sample is one generated context: a customer intent, its knowledge base and
// the rule-derived expected action.
type Sample struct {
	Customer       entity.Intent // raw, with epoch dates
	Intent         entity.Intent // standardized form
	KB             entity.KnowledgeBase
	ExpectedAction entity.Action
}

// ContextGenerator produces intent/KB/expected-action samples. A fixed seed
// on the shared rand source reproduces a corpus exactly.
type ContextGenerator struct {
	facts   *entity.FactTable
	sampler *Sampler
	rng     *rand.Rand
	opts    GeneratorOptions
	metrics *metrics.Metrics
	log     logger.Logger
	runID   string
}

// NewContextGenerator creates a new context generator. Metrics may be nil.
func NewContextGenerator(facts *entity.FactTable, rng *rand.Rand, opts GeneratorOptions, m *metrics.Metrics, log logger.Logger) (*ContextGenerator, error) {
	sampler, err := NewSampler(facts, rng, log)
	if err != nil {
		return nil, err
	}
	if opts.NumAirports < 2 {
		return nil, fmt.Errorf("need at least 2 candidate airports, got %d", opts.NumAirports)
	}
	if opts.NumRecords < 1 {
		return nil, fmt.Errorf("need at least 1 knowledge base record, got %d", opts.NumRecords)
	}
	runID := uuid.NewString()
	return &ContextGenerator{
		facts:   facts,
		sampler: sampler,
		rng:     rng,
		opts:    opts,
		metrics: m,
		log:     log.With("runId", runID),
		runID:   runID,
	}, nil
}

// RunID identifies this generation run in logs and stored records.
func (g *ContextGenerator) RunID() string { return g.runID }

// Facts exposes the fact table shared with the simulator and scorer.
func (g *ContextGenerator) Facts() *entity.FactTable { return g.facts }

// GenerateSample draws one sample.
func (g *ContextGenerator) GenerateSample() Sample {
	start := time.Now()
	pool := g.sampler.SampleAirportPool(g.opts.NumAirports)
	customer := g.sampler.SampleCustomer(g.opts.BookWindow, pool)
	kb := g.sampler.BuildKnowledgeBase(g.opts.NumRecords, pool, customer.DepartureDate, customer.ReturnDate)
	intent := customer.Standardize()
	expected := ResolveExpectedAction(g.facts, intent, kb)
	if g.metrics != nil {
		g.metrics.SamplesGenerated.Inc()
		g.metrics.StatusOutcomes.WithLabelValues(string(expected.Status)).Inc()
		g.metrics.SampleTime.Observe(time.Since(start).Seconds())
	}
	return Sample{Customer: customer, Intent: intent, KB: kb, ExpectedAction: expected}
}

// UserAction derives a user action from an expected action by committing to
// one flight chosen uniformly among the tied set.
func (g *ContextGenerator) UserAction(expected entity.Action) entity.Action {
	user := expected
	if len(expected.Flights) > 0 {
		user.Flights = []int{expected.Flights[g.rng.Intn(len(expected.Flights))]}
	}
	return user
}

// GenerateBatch buffers count samples and returns them together with the
// per-status proportions.
func (g *ContextGenerator) GenerateBatch(ctx context.Context, count int) ([]Sample, map[entity.Status]float64, error) {
	samples := make([]Sample, 0, count)
	stats := map[entity.Status]int{}
	err := g.Stream(ctx, count, func(_ int, s Sample) error {
		samples = append(samples, s)
		stats[s.ExpectedAction.Status]++
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	proportions := make(map[entity.Status]float64, len(stats))
	for status, n := range stats {
		proportions[status] = float64(n) / float64(count)
	}
	return samples, proportions, nil
}

// Stream yields count samples one at a time, keeping memory constant
// regardless of corpus size. Generation stops early when the context is
// canceled.
func (g *ContextGenerator) Stream(ctx context.Context, count int, fn func(int, Sample) error) error {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if g.opts.DisplayFreq > 0 && i%g.opts.DisplayFreq == 0 {
			g.log.Info("Generating samples", "done", i, "total", count)
		}
		if err := fn(i, g.GenerateSample()); err != nil {
			return err
		}
	}
	return nil
}
