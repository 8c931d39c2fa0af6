// Package ranking orders customers by a composite desirability score
// derived from their RFM triple: higher monetary and frequency and
// lower recency rank better. The weights are explicit so the order is
// deterministic and auditable.
package ranking

import (
	"errors"
	"sort"

	"github.com/example/customer-analytics/internal/readmodel"
)

// ErrInvalidN is returned when a top/bottom slice size is not positive.
var ErrInvalidN = errors.New("ranking: n must be positive")

// Weights control the composite score. Monetary carries an implicit
// weight of 1; frequency and recency are scaled relative to it.
type Weights struct {
	Frequency float64
	Recency   float64
}

// DefaultWeights values one delivered order like 100 currency units and
// one day of staleness like -10.
var DefaultWeights = Weights{Frequency: 100, Recency: 10}

// Ranker produces a deterministic total order over customers.
type Ranker struct {
	weights Weights
}

// NewRanker creates a ranker with the given weights.
func NewRanker(weights Weights) *Ranker {
	return &Ranker{weights: weights}
}

// Score computes the composite desirability score for one customer.
func (r *Ranker) Score(seg readmodel.SegmentationResult) float64 {
	return seg.Monetary +
		r.weights.Frequency*float64(seg.Frequency) -
		r.weights.Recency*float64(seg.Recency)
}

// Rank returns the customers ordered best first. Equal scores are
// broken by ascending customer id, so the order is total and stable
// across runs.
func (r *Ranker) Rank(segs []readmodel.SegmentationResult) []readmodel.SegmentationResult {
	ranked := append([]readmodel.SegmentationResult{}, segs...)
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := r.Score(ranked[i]), r.Score(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].CustomerID < ranked[j].CustomerID
	})
	return ranked
}

// Top returns the n best customers, best first. When fewer than n
// customers exist, all of them are returned.
func (r *Ranker) Top(segs []readmodel.SegmentationResult, n int) ([]readmodel.SegmentationResult, error) {
	if n <= 0 {
		return nil, ErrInvalidN
	}
	ranked := r.Rank(segs)
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Bottom returns the n worst customers, worst first.
func (r *Ranker) Bottom(segs []readmodel.SegmentationResult, n int) ([]readmodel.SegmentationResult, error) {
	if n <= 0 {
		return nil, ErrInvalidN
	}
	ranked := r.Rank(segs)
	if n > len(ranked) {
		n = len(ranked)
	}
	bottom := make([]readmodel.SegmentationResult, 0, n)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		bottom = append(bottom, ranked[i])
	}
	return bottom, nil
}
