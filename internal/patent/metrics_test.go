package patent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	calc := NewMetricsCalculator()
	calc.Add("X", "X", nil)
	calc.Add("A", "A", nil)
	calc.Add("X", "A", nil)

	metrics := calc.Compute()
	assert.InDelta(t, 2.0/3.0, metrics["accuracy"], 0.01)
}

func TestPrecisionRecallF1(t *testing.T) {
	calc := NewMetricsCalculator()
	// TP: 2, FP: 1, FN: 1, TN: 1 with X positive
	calc.Add("X", "X", nil)
	calc.Add("X", "X", nil)
	calc.Add("X", "A", nil)
	calc.Add("A", "X", nil)
	calc.Add("A", "A", nil)

	metrics := calc.Compute()
	assert.InDelta(t, 2.0/3.0, metrics["precision"], 0.01)
	assert.InDelta(t, 2.0/3.0, metrics["recall"], 0.01)
	assert.InDelta(t, 2.0/3.0, metrics["f1"], 0.01)
}

func TestPerplexityWithProbabilities(t *testing.T) {
	calc := NewMetricsCalculator()
	p1, p2, p3 := 0.9, 0.8, 0.6
	calc.Add("X", "X", &p1)
	calc.Add("A", "A", &p2)
	calc.Add("X", "A", &p3)

	metrics := calc.Compute()
	assert.Greater(t, metrics["perplexity"], 0.0)
	assert.Less(t, metrics["perplexity"], 10.0)
}

func TestPerplexityFallsBackToAccuracy(t *testing.T) {
	calc := NewMetricsCalculator()
	calc.Add("X", "X", nil)
	calc.Add("A", "X", nil)

	metrics := calc.Compute()
	assert.InDelta(t, math.Exp(-math.Log(0.5)), metrics["perplexity"], 0.01)
}

func TestEmptyCalculator(t *testing.T) {
	metrics := NewMetricsCalculator().Compute()

	assert.Zero(t, metrics["accuracy"])
	assert.True(t, math.IsInf(metrics["perplexity"], 1))
}

func TestReset(t *testing.T) {
	calc := NewMetricsCalculator()
	calc.Add("X", "X", nil)
	calc.Add("A", "A", nil)

	calc.Reset()
	assert.Zero(t, calc.Count())
}

func TestComputeAggregate(t *testing.T) {
	steps := []map[string]float64{
		{"accuracy": 1.0, "perplexity": math.Inf(1)},
		{"accuracy": 0.5, "perplexity": 2.0},
	}

	aggregate := ComputeAggregate(steps)

	require.Contains(t, aggregate, "accuracy_mean")
	assert.InDelta(t, 0.75, aggregate["accuracy_mean"], 0.001)
	assert.InDelta(t, 0.25, aggregate["accuracy_std"], 0.001)
	assert.InDelta(t, 2.0, aggregate["perplexity_mean"], 0.001, "infinite values are ignored")

	assert.Empty(t, ComputeAggregate(nil))
}
