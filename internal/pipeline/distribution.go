package pipeline

import (
	"context"
	"fmt"

	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/score"
	"github.com/hyperifyio/jobdesc/internal/store"
)

// Distribution summarizes AI scores across stored documents.
type Distribution struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	// Buckets[i] counts scores in [10i, 10i+9]; a score of 100 lands in the
	// last bucket.
	Buckets        [10]int `json:"buckets"`
	Threshold      int     `json:"threshold"`
	AboveThreshold int     `json:"above_threshold"`
}

// Distribute builds a Distribution from already computed scores.
func Distribute(scores []int, threshold int) Distribution {
	d := Distribution{Threshold: threshold}
	if len(scores) == 0 {
		return d
	}
	sum := 0
	d.Min, d.Max = scores[0], scores[0]
	for _, s := range scores {
		sum += s
		if s < d.Min {
			d.Min = s
		}
		if s > d.Max {
			d.Max = s
		}
		b := s / 10
		if b > 9 {
			b = 9
		}
		if b < 0 {
			b = 0
		}
		d.Buckets[b]++
		if s >= threshold {
			d.AboveThreshold++
		}
	}
	d.Count = len(scores)
	d.Mean = float64(sum) / float64(len(scores))
	return d
}

// ScoreDistribution scores every selected document without changing any.
func ScoreDistribution(ctx context.Context, st Store, q store.Query, threshold int, s *score.Scorer) (Distribution, error) {
	if s == nil {
		s = score.Default()
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	records, err := st.Fetch(ctx, q)
	if err != nil {
		return Distribution{}, fmt.Errorf("fetch documents: %w", err)
	}
	scores := make([]int, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return Distribution{}, err
		}
		scores = append(scores, s.Score(sanitize.Sanitize(rec.Description)))
	}
	return Distribute(scores, threshold), nil
}
