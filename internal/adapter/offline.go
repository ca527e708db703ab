package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixbrock/patentace/internal/domain"
	"github.com/google/uuid"
)

// OfflineAdapter runs the adaptation loop over a fixed sample set for a
// number of epochs. The playbook accumulates across samples and epochs; it
// is never reset between them.
type OfflineAdapter struct {
	Adapter
}

// Run processes samples strictly in input order and returns one
// AdaptationResult per sample per epoch, in order. Skipped samples are
// recorded, not dropped; environment errors abort with the results
// collected so far.
func (a *OfflineAdapter) Run(ctx context.Context, samples []domain.Sample, env Environment, epochs int) ([]domain.AdaptationResult, error) {
	if epochs < 1 {
		epochs = 1
	}
	runId := uuid.New().String()
	results := make([]domain.AdaptationResult, 0, epochs*len(samples))

	for epoch := 1; epoch <= epochs; epoch++ {
		for i, sample := range samples {
			p := progress{epoch: epoch, epochs: epochs, sample: i + 1, total: len(samples)}
			slog.Info(fmt.Sprintf("adapting: epoch %d/%d, sample %d/%d", epoch, epochs, i+1, len(samples)))

			result, err := a.adaptSample(ctx, runId, p, sample, env)
			if err != nil {
				return results, err
			}
			results = append(results, result)
		}
	}
	return results, nil
}

// OnlineAdapter applies the same per-sample cycle to samples as they
// arrive, one Step at a time.
type OnlineAdapter struct {
	Adapter

	runId string
	seen  int
}

func (a *OnlineAdapter) Step(ctx context.Context, sample domain.Sample, env Environment) (domain.AdaptationResult, error) {
	if a.runId == "" {
		a.runId = uuid.New().String()
	}
	a.seen++
	p := progress{epoch: 1, epochs: 1, sample: a.seen, total: a.seen}
	return a.adaptSample(ctx, a.runId, p, sample, env)
}
