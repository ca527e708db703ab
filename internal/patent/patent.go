// Package patent adapts the generic adaptation core to the PATENTMATCH
// task: does a prior art paragraph break the novelty of a patent claim?
package patent

import (
	"fmt"
	"strings"

	"github.com/felixbrock/patentace/internal/domain"
)

// NewSample builds a patent sample. Claim and paragraph double as prompt
// placeholder fields; the question is the implicit "does this match?" pair.
func NewSample(claim string, paragraph string, groundTruth string, context string) domain.Sample {
	return domain.Sample{
		Question:    fmt.Sprintf("Claim: %s\n\nParagraph: %s", claim, paragraph),
		GroundTruth: groundTruth,
		Context:     context,
		Fields: map[string]string{
			"claim":     claim,
			"paragraph": paragraph,
		},
	}
}

// Environment evaluates patent classifications and accumulates
// classification metrics across the run.
type Environment struct {
	calc        *MetricsCalculator
	stepMetrics []map[string]float64
}

func NewEnvironment() *Environment {
	return &Environment{calc: NewMetricsCalculator()}
}

// Evaluate checks the generator's classification against ground truth. An
// invalid label is data, not an error: it comes back as feedback with zero
// accuracy.
func (e *Environment) Evaluate(sample domain.Sample, generatorOutput domain.GeneratorOutput) (domain.EnvironmentResult, error) {
	groundTruth := strings.ToUpper(strings.TrimSpace(sample.GroundTruth))
	prediction := strings.ToUpper(strings.TrimSpace(generatorOutput.FinalAnswer))
	probability := extractProbability(generatorOutput.Raw)

	if prediction != "X" && prediction != "A" {
		return domain.EnvironmentResult{
			Feedback:    fmt.Sprintf("Invalid classification %q. Must be 'X' (match) or 'A' (no match).", prediction),
			GroundTruth: groundTruth,
			Metrics:     map[string]float64{"accuracy": 0, "error": 1},
			Prediction:  prediction,
		}, nil
	}

	var feedback string
	switch {
	case prediction == groundTruth && prediction == "X":
		feedback = "Correct: The paragraph does break novelty (X classification)"
	case prediction == groundTruth:
		feedback = "Correct: The paragraph does not break novelty (A classification)"
	case prediction == "X":
		feedback = "Incorrect: Classified as X (match) but should be A (no match). " +
			"The paragraph does not contain all key features of the claim."
	default:
		feedback = "Incorrect: Classified as A (no match) but should be X (match). " +
			"The paragraph actually describes the same invention and breaks novelty."
	}

	e.calc.Add(prediction, groundTruth, probability)
	metrics := e.calc.Compute()
	e.stepMetrics = append(e.stepMetrics, metrics)

	return domain.EnvironmentResult{
		Feedback:    feedback,
		GroundTruth: groundTruth,
		Metrics:     metrics,
		Prediction:  prediction,
		Probability: probability,
	}, nil
}

// Metrics returns the running metrics over every evaluated sample.
func (e *Environment) Metrics() map[string]float64 {
	return e.calc.Compute()
}

// AggregateMetrics returns mean and std per metric over the per-step
// history.
func (e *Environment) AggregateMetrics() map[string]float64 {
	return ComputeAggregate(e.stepMetrics)
}

func (e *Environment) ResetMetrics() {
	e.calc.Reset()
	e.stepMetrics = nil
}

func extractProbability(raw map[string]any) *float64 {
	for _, key := range []string{"confidence", "probability"} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}
