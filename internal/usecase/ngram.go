package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

const klEpsilon = 1e-10

// CountNGrams counts the n-grams of the given order across a shard of token
// segments. Grams are keyed by their space-joined tokens.
func CountNGrams(segments [][]string, order int) map[string]int {
	counts := map[string]int{}
	for _, seg := range segments {
		for i := 0; i+order <= len(seg); i++ {
			counts[strings.Join(seg[i:i+order], " ")]++
		}
	}
	return counts
}

// ComputeKL estimates, per n-gram order up to maxOrder, the KL divergence of
// the candidate corpus distribution from the reference corpus distribution.
// Results are keyed "1-gram" through "<maxOrder>-gram".
//
// Counting is sharded across workers and the shards merge by addition, so the
// result does not depend on the worker count. The reference frequency floor
// applies after the merge, and the candidate total only sums grams that
// survive the floor, keeping both distributions over the same support.
func ComputeKL(ctx context.Context, reference, candidate [][]string, maxOrder, freqThreshold, workers int) (map[string]float64, error) {
	if maxOrder < 1 {
		return nil, fmt.Errorf("n-gram order must be positive, got %d", maxOrder)
	}
	if workers < 1 {
		workers = 1
	}
	out := make(map[string]float64, maxOrder)
	for order := 1; order <= maxOrder; order++ {
		refCounts, err := shardedCounts(ctx, reference, order, workers)
		if err != nil {
			return nil, err
		}
		candCounts, err := shardedCounts(ctx, candidate, order, workers)
		if err != nil {
			return nil, err
		}

		refTotal := 0
		for gram, n := range refCounts {
			if n < freqThreshold {
				delete(refCounts, gram)
				continue
			}
			refTotal += n
		}
		if refTotal == 0 {
			out[fmt.Sprintf("%d-gram", order)] = 0
			continue
		}
		candTotal := 0
		for gram := range refCounts {
			candTotal += candCounts[gram]
		}

		kl := 0.0
		for gram, n := range refCounts {
			p := float64(n) / float64(refTotal)
			q := (float64(candCounts[gram]) + klEpsilon) / (float64(candTotal) + klEpsilon)
			kl += p * math.Log(p/q)
		}
		out[fmt.Sprintf("%d-gram", order)] = kl
	}
	return out, nil
}

func shardedCounts(ctx context.Context, segments [][]string, order, workers int) (map[string]int, error) {
	if len(segments) == 0 {
		return map[string]int{}, nil
	}
	if workers > len(segments) {
		workers = len(segments)
	}
	shardCounts := make([]map[string]int, workers)
	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(segments) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > len(segments) {
			hi = len(segments)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shardCounts[w] = CountNGrams(segments[lo:hi], order)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := map[string]int{}
	for _, shard := range shardCounts {
		for gram, n := range shard {
			merged[gram] += n
		}
	}
	return merged, nil
}
