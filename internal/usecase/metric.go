package usecase

import (
	"context"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/domain/repository"
	"airtalk-service/pkg/logger"
)

// Metric names accepted by the score command.
const (
	MetricReward = "reward"
	MetricName   = "name"
	MetricFlight = "flight"
	MetricStatus = "status"
	MetricKL     = "kl"
)

// MetricHandler computes one evaluation metric over a corpus.
type MetricHandler interface {
	// CanHandle reports whether this handler computes the named metric.
	CanHandle(metric string) bool
	// Compute evaluates the metric over the given corpus and returns the
	// aggregated values keyed by component name.
	Compute(ctx context.Context, reader repository.CorpusReader) (map[string]float64, error)
}

// RewardMetricHandler computes the blended reward or one of its components.
type RewardMetricHandler struct {
	scorer *RewardScorer
	metric string
	log    logger.Logger
}

// NewRewardMetricHandler creates a handler for one of the reward metrics.
func NewRewardMetricHandler(scorer *RewardScorer, metric string, log logger.Logger) *RewardMetricHandler {
	return &RewardMetricHandler{scorer: scorer, metric: metric, log: log}
}

// CanHandle implements MetricHandler.
func (h *RewardMetricHandler) CanHandle(metric string) bool {
	switch h.metric {
	case MetricReward, MetricName, MetricFlight, MetricStatus:
		return metric == h.metric
	}
	return false
}

// Compute streams the corpus and averages the reward components. Samples
// already verified correct upstream score a full reward without recomputing.
func (h *RewardMetricHandler) Compute(ctx context.Context, reader repository.CorpusReader) (map[string]float64, error) {
	var sum Reward
	count := 0
	stats, err := reader.Stream(ctx, false, func(data entity.DataRecord, kb entity.KnowledgeBase) error {
		var r Reward
		if data.CorrectSample != nil && *data.CorrectSample {
			r = PerfectReward()
		} else {
			r = h.scorer.ComputeReward(data.Action, data.ExpectedAction, kb)
		}
		sum.Reward += r.Reward
		sum.NameScore += r.NameScore
		sum.FlightScore += r.FlightScore
		sum.StatusScore += r.StatusScore
		count++
		return nil
	})
	if err != nil {
		return nil, err
	}
	h.log.Info("Scored corpus", "metric", h.metric, "kept", stats.Kept, "total", stats.Total)
	if count == 0 {
		return map[string]float64{}, nil
	}
	n := float64(count)
	switch h.metric {
	case MetricName:
		return map[string]float64{"name_score": sum.NameScore / n}, nil
	case MetricFlight:
		return map[string]float64{"flight_score": sum.FlightScore / n}, nil
	case MetricStatus:
		return map[string]float64{"status_score": sum.StatusScore / n}, nil
	default:
		return map[string]float64{
			"reward":       sum.Reward / n,
			"name_score":   sum.NameScore / n,
			"flight_score": sum.FlightScore / n,
			"status_score": sum.StatusScore / n,
		}, nil
	}
}

// KLMetricHandler measures per-order n-gram KL divergence of a candidate
// corpus's dialogues from a reference corpus's dialogues.
type KLMetricHandler struct {
	reference     repository.CorpusReader
	tokenizer     Tokenizer
	maxOrder      int
	freqThreshold int
	workers       int
	log           logger.Logger
}

// NewKLMetricHandler creates a KL handler against the given reference corpus.
func NewKLMetricHandler(reference repository.CorpusReader, tok Tokenizer, maxOrder, freqThreshold, workers int, log logger.Logger) *KLMetricHandler {
	return &KLMetricHandler{
		reference:     reference,
		tokenizer:     tok,
		maxOrder:      maxOrder,
		freqThreshold: freqThreshold,
		workers:       workers,
		log:           log,
	}
}

// CanHandle implements MetricHandler.
func (h *KLMetricHandler) CanHandle(metric string) bool { return metric == MetricKL }

// Compute loads both corpora, tokenizes every utterance as one segment, and
// returns the divergence per n-gram order.
func (h *KLMetricHandler) Compute(ctx context.Context, reader repository.CorpusReader) (map[string]float64, error) {
	ref, err := h.segments(ctx, h.reference)
	if err != nil {
		return nil, err
	}
	cand, err := h.segments(ctx, reader)
	if err != nil {
		return nil, err
	}
	h.log.Info("Computing n-gram divergence", "refSegments", len(ref), "candSegments", len(cand))
	return ComputeKL(ctx, ref, cand, h.maxOrder, h.freqThreshold, h.workers)
}

func (h *KLMetricHandler) segments(ctx context.Context, reader repository.CorpusReader) ([][]string, error) {
	var segments [][]string
	_, err := reader.Stream(ctx, false, func(data entity.DataRecord, _ entity.KnowledgeBase) error {
		for _, turn := range StandardizeDialogue(data.Dialogue) {
			_, content := entity.SplitTurn(turn)
			if toks := h.tokenizer.Tokenize(content); len(toks) > 0 {
				segments = append(segments, toks)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segments, nil
}
