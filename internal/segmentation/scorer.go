// Package segmentation assigns dormant-probability scores to customer
// segmentation results. The scoring rule sits behind the Scorer
// interface so the rule-based default can be swapped for a trained
// model without touching callers.
package segmentation

import "github.com/example/customer-analytics/internal/readmodel"

// Scorer maps a customer's RFM triple and cluster label to a dormant
// probability in [0, 100].
type Scorer interface {
	DormantScore(rfm readmodel.RFM, cluster int) int
}

// ClusterRule is the production scoring rule: members of cluster 1 are
// scored 80, everyone else 20. The RFM triple is accepted for interface
// compatibility but does not influence the rule.
type ClusterRule struct{}

func (ClusterRule) DormantScore(_ readmodel.RFM, cluster int) int {
	if cluster == 1 {
		return 80
	}
	return 20
}

// ScoredSegment is a stored segmentation result decorated with its
// dormant probability.
type ScoredSegment struct {
	readmodel.SegmentationResult
	DormantProbability int `json:"dormant_probability"`
}

// Assign applies the scorer to one segmentation result.
func Assign(scorer Scorer, seg readmodel.SegmentationResult) ScoredSegment {
	rfm := readmodel.RFM{
		CustomerID: seg.CustomerID,
		Recency:    seg.Recency,
		Frequency:  seg.Frequency,
		Monetary:   seg.Monetary,
	}
	return ScoredSegment{
		SegmentationResult: seg,
		DormantProbability: scorer.DormantScore(rfm, seg.Cluster),
	}
}

// AssignAll applies the scorer to every segmentation result, preserving
// order.
func AssignAll(scorer Scorer, segs []readmodel.SegmentationResult) []ScoredSegment {
	scored := make([]ScoredSegment, 0, len(segs))
	for _, seg := range segs {
		scored = append(scored, Assign(scorer, seg))
	}
	return scored
}
